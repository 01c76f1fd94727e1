package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"drawbridge/internal/config"
	"drawbridge/internal/runtime"
	"drawbridge/pkg/logging"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// Server runs the public gateway listener and the management listener.
type Server struct {
	cfg     config.Config
	runID   string
	tracker *runtime.Tracker

	metrics   *Metrics
	prober    *Prober
	transport *http.Transport
	reloader  *CertReloader

	public     *http.Server
	management *http.Server

	publicLn     net.Listener
	managementLn net.Listener

	group      *errgroup.Group
	stopProbes chan struct{}

	// Lifecycle management
	mu        sync.Mutex
	started   bool
	startedAt time.Time
}

// New creates a server for the given configuration. runID identifies
// this launch in logs and on the management endpoints.
func New(cfg config.Config, runID string, tracker *runtime.Tracker) *Server {
	transport := newUpstreamTransport(cfg.Gateway.UpstreamKeepalive)
	return &Server{
		cfg:       cfg,
		runID:     runID,
		tracker:   tracker,
		metrics:   NewMetrics(),
		prober:    NewProber(cfg.Routes, transport),
		transport: transport,
	}
}

// Start binds both listeners and begins serving. It returns once the
// listeners are up; serving continues in the background. Bind and
// keypair failures are returned synchronously so the launch can report
// them as startup errors.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("gateway already started")
	}

	router, err := s.buildPublicRouter()
	if err != nil {
		return err
	}

	publicAddr := net.JoinHostPort(s.cfg.Gateway.Host, fmt.Sprintf("%d", s.cfg.Gateway.Port))
	publicLn, err := net.Listen("tcp", publicAddr)
	if err != nil {
		return fmt.Errorf("binding public listener on %s: %w", publicAddr, err)
	}

	scheme := "http"
	if s.cfg.Gateway.TLS.Enabled {
		reloader, err := NewCertReloader(s.cfg.Gateway.TLS.CertFile, s.cfg.Gateway.TLS.KeyFile)
		if err != nil {
			publicLn.Close()
			return err
		}
		s.reloader = reloader
		publicLn = tls.NewListener(publicLn, &tls.Config{
			GetCertificate: reloader.GetCertificate,
			MinVersion:     tls.VersionTLS12,
		})
		scheme = "https"
	}

	managementAddr := net.JoinHostPort(s.cfg.Management.Host, fmt.Sprintf("%d", s.cfg.Management.Port))
	managementLn, err := net.Listen("tcp", managementAddr)
	if err != nil {
		publicLn.Close()
		return fmt.Errorf("binding management listener on %s: %w", managementAddr, err)
	}

	s.publicLn = publicLn
	s.managementLn = managementLn
	s.startedAt = time.Now()

	s.public = &http.Server{
		Handler:      router,
		ReadTimeout:  s.cfg.Gateway.ReadTimeout,
		WriteTimeout: s.cfg.Gateway.WriteTimeout,
		IdleTimeout:  s.cfg.Gateway.IdleTimeout,
	}

	mgmt := &management{
		cfg:       s.cfg,
		runID:     s.runID,
		startedAt: s.startedAt,
		tracker:   s.tracker,
		prober:    s.prober,
		metrics:   s.metrics,
	}
	s.management = &http.Server{
		Handler:     mgmt.Routes(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	s.group = &errgroup.Group{}
	s.group.Go(func() error {
		if err := s.public.Serve(publicLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("public listener: %w", err)
		}
		return nil
	})
	s.group.Go(func() error {
		if err := s.management.Serve(managementLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("management listener: %w", err)
		}
		return nil
	})
	if s.reloader != nil && s.cfg.Gateway.TLS.Watch {
		s.group.Go(s.reloader.Watch)
	}

	s.stopProbes = make(chan struct{})
	stopProbes := s.stopProbes
	s.group.Go(func() error {
		s.probeLoop(stopProbes)
		return nil
	})

	logging.Info("Gateway", "Public listener on %s://%s with %d route(s)", scheme, publicLn.Addr(), len(s.cfg.Routes))
	logging.Info("Gateway", "Management listener on http://%s", managementLn.Addr())

	s.started = true
	return nil
}

// Stop shuts both listeners down, waiting up to the configured grace
// period for in-flight requests to drain.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return fmt.Errorf("gateway not started")
	}
	public := s.public
	management := s.management
	reloader := s.reloader
	group := s.group
	close(s.stopProbes)
	s.mu.Unlock()

	logging.Info("Gateway", "Stopping, draining for up to %s", s.cfg.Gateway.ShutdownGrace)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Gateway.ShutdownGrace)
	defer cancel()

	var shutdownErr error
	if err := public.Shutdown(shutdownCtx); err != nil {
		logging.Error("Gateway", err, "Public listener did not drain cleanly")
		shutdownErr = err
	}
	if err := management.Shutdown(shutdownCtx); err != nil {
		logging.Error("Gateway", err, "Management listener did not drain cleanly")
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	if reloader != nil {
		reloader.Stop()
	}

	if err := group.Wait(); err != nil {
		logging.Error("Gateway", err, "Listener exited with error")
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	s.mu.Lock()
	s.started = false
	s.mu.Unlock()

	logging.Info("Gateway", "Stopped")
	return shutdownErr
}

// probePeriod is how often upstream reachability is re-checked in the
// background.
const probePeriod = 15 * time.Second

// probeLoop keeps the readiness cache warm so /ready answers from a
// recent verdict instead of probing inline on every poll.
func (s *Server) probeLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(probePeriod)
	defer ticker.Stop()

	s.prober.Check()
	for {
		select {
		case <-ticker.C:
			s.prober.Check()
		case <-stop:
			return
		}
	}
}

// Addr returns the bound public address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.publicLn == nil {
		return ""
	}
	return s.publicLn.Addr().String()
}

// ManagementAddr returns the bound management address, or "" before Start.
func (s *Server) ManagementAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.managementLn == nil {
		return ""
	}
	return s.managementLn.Addr().String()
}

// buildPublicRouter assembles the routing table.
func (s *Server) buildPublicRouter() (chi.Router, error) {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog)
	r.Use(Recoverer)
	r.Use(Inflight(s.metrics))

	for _, route := range s.cfg.Routes {
		proxy, err := newRouteProxy(route, s.transport, s.metrics)
		if err != nil {
			return nil, err
		}
		handler := routeHandler(route, proxy, s.metrics)

		if route.PathPrefix == "/" {
			r.Handle("/*", handler)
		} else {
			r.Handle(route.PathPrefix, handler)
			r.Handle(route.PathPrefix+"/*", handler)
		}
		logging.Info("Gateway", "Route %s: %s -> %s", route.Name, route.PathPrefix, route.Upstream)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "no route for this path", http.StatusNotFound)
	})

	return r, nil
}
