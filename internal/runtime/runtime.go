package runtime

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"drawbridge/pkg/logging"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Application is the long-running unit the runtime supervises.
type Application interface {
	// Start binds listeners and begins serving. It returns once the
	// application is up; serving continues in the background.
	Start(ctx context.Context) error
	// Stop drains in-flight work and releases listeners. The
	// application applies its own drain deadline.
	Stop(ctx context.Context) error
}

// CompletionHandler receives the exit code and, when startup failed, the
// cause. It runs exactly once per Run.
type CompletionHandler func(exitCode int, cause error)

// Runtime sequences a single application launch: start, readiness
// notification, exit request, drain, completion.
type Runtime struct {
	tracker *Tracker

	mu       sync.Mutex
	exitCode int
	exitCh   chan struct{}
	exitOnce sync.Once
}

// New creates a runtime in PhaseNew.
func New() *Runtime {
	return &Runtime{
		tracker: NewTracker(),
		exitCh:  make(chan struct{}),
	}
}

// Tracker returns the lifecycle phase tracker.
func (r *Runtime) Tracker() *Tracker {
	return r.tracker
}

// AsyncExit requests shutdown with the given exit code without blocking.
// The first request wins; later codes are ignored.
func (r *Runtime) AsyncExit(code int) {
	r.exitOnce.Do(func() {
		r.mu.Lock()
		r.exitCode = code
		r.mu.Unlock()
		close(r.exitCh)
	})
}

// WaitForExit blocks until shutdown is requested and returns the exit
// code that will be reported.
func (r *Runtime) WaitForExit() int {
	<-r.exitCh
	return r.ExitCode()
}

// ExitCode returns the recorded exit code.
func (r *Runtime) ExitCode() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exitCode
}

// Run boots app and blocks until an exit is requested by signal, by
// AsyncExit, or by startup failing. done is invoked exactly once with the
// final exit code; a non-nil cause means the application never came up.
//
// In the test and non-server launch modes the exit is requested as soon
// as startup completes, so the call returns after a single bootstrap
// cycle.
func (r *Runtime) Run(ctx context.Context, app Application, done CompletionHandler) {
	complete := completeOnce(done)

	r.tracker.Transition(PhaseStarting, nil)
	if err := app.Start(ctx); err != nil {
		r.tracker.Transition(PhaseExited, err)
		complete(1, err)
		return
	}
	r.tracker.Transition(PhaseRunning, nil)

	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logging.Warn("Runtime", "Could not notify service manager: %v", err)
	} else if sent {
		logging.Debug("Runtime", "Notified service manager of readiness")
	}

	if IsTestLaunchMode() || IsNonServerMode() {
		// Exit as soon as the bootstrap cycle completes.
		r.AsyncExit(r.ExitCode())
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logging.Info("Runtime", "Received %s, shutting down", sig)
			r.AsyncExit(0)
		case <-r.exitCh:
		}
	}()

	code := r.WaitForExit()
	r.tracker.Transition(PhaseExiting, nil)
	daemon.SdNotify(false, daemon.SdNotifyStopping)

	if err := app.Stop(context.Background()); err != nil {
		// The exit code reflects startup, not drain quality.
		logging.Error("Runtime", err, "Shutdown did not complete cleanly")
	}

	r.tracker.Transition(PhaseExited, nil)
	complete(code, nil)
}

func completeOnce(done CompletionHandler) CompletionHandler {
	if done == nil {
		return func(int, error) {}
	}
	var once sync.Once
	return func(code int, cause error) {
		once.Do(func() { done(code, cause) })
	}
}
