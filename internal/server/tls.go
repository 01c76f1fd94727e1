package server

import (
	"crypto/tls"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"drawbridge/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses the burst of filesystem events a certificate
// rotation produces into one reload.
const reloadDebounce = 500 * time.Millisecond

// CertReloader serves the configured keypair and swaps it in place when
// the files change on disk, so certificate rotation does not require a
// listener restart.
type CertReloader struct {
	certFile string
	keyFile  string

	mu   sync.RWMutex
	cert *tls.Certificate

	done     chan struct{}
	doneOnce sync.Once

	reloadMu   sync.Mutex
	lastReload time.Time
}

// NewCertReloader loads the keypair and returns a reloader serving it.
// A keypair that cannot be loaded fails the call, and with it startup.
func NewCertReloader(certFile, keyFile string) (*CertReloader, error) {
	cr := &CertReloader{
		certFile: certFile,
		keyFile:  keyFile,
		done:     make(chan struct{}),
	}
	if err := cr.reload(); err != nil {
		return nil, err
	}
	return cr, nil
}

// GetCertificate implements tls.Config.GetCertificate.
func (cr *CertReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.cert, nil
}

// Watch blocks watching the keypair files until Stop is called. The
// parent directories are watched rather than the files themselves so
// rename-based replacement, as certificate managers do it, is seen.
func (cr *CertReloader) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating keypair watcher: %w", err)
	}
	defer watcher.Close()

	certDir := filepath.Dir(cr.certFile)
	keyDir := filepath.Dir(cr.keyFile)

	if err := watcher.Add(certDir); err != nil {
		return fmt.Errorf("watching %s: %w", certDir, err)
	}
	if keyDir != certDir {
		if err := watcher.Add(keyDir); err != nil {
			return fmt.Errorf("watching %s: %w", keyDir, err)
		}
	}

	logging.Info("TLS", "Watching keypair %s / %s for rotation", cr.certFile, cr.keyFile)

	certBase := filepath.Base(cr.certFile)
	keyBase := filepath.Base(cr.keyFile)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			changedBase := filepath.Base(event.Name)
			if changedBase != certBase && changedBase != keyBase {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := cr.debouncedReload(); err != nil {
				// Keep serving the previous keypair on a bad rotation.
				logging.Error("TLS", err, "Keypair reload failed, previous keypair stays active")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("TLS", err, "Keypair watcher error")

		case <-cr.done:
			return nil
		}
	}
}

// Stop ends the watch loop. Safe to call more than once.
func (cr *CertReloader) Stop() {
	cr.doneOnce.Do(func() { close(cr.done) })
}

func (cr *CertReloader) debouncedReload() error {
	cr.reloadMu.Lock()
	defer cr.reloadMu.Unlock()

	now := time.Now()
	if now.Sub(cr.lastReload) < reloadDebounce {
		return nil
	}
	cr.lastReload = now

	// Give the writer a moment to finish both files.
	time.Sleep(100 * time.Millisecond)

	return cr.reload()
}

func (cr *CertReloader) reload() error {
	cert, err := tls.LoadX509KeyPair(cr.certFile, cr.keyFile)
	if err != nil {
		return fmt.Errorf("loading keypair %s / %s: %w", cr.certFile, cr.keyFile, err)
	}

	cr.mu.Lock()
	cr.cert = &cert
	cr.mu.Unlock()

	logging.Info("TLS", "Loaded keypair %s", cr.certFile)
	return nil
}
