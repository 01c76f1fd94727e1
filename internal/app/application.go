package app

import (
	"context"

	"drawbridge/internal/buildinfo"
	"drawbridge/internal/config"
	"drawbridge/internal/runtime"
	"drawbridge/pkg/logging"
)

// Start brings the gateway up. In non-server mode the bootstrap is the
// whole job: the configuration has been resolved and validated, so
// Start logs the outcome and returns without binding listeners.
func (a *Application) Start(ctx context.Context) error {
	logging.Info("Bootstrap", "Starting %s in %s mode (run %s)",
		buildinfo.Short(), config.ModeLabel(a.cfg.Profile), a.runID)

	if runtime.IsNonServerMode() {
		if a.config.Task != nil {
			logging.Info("Bootstrap", "Bootstrap complete, running one-shot task")
			return a.config.Task(ctx, a)
		}
		logging.Info("Bootstrap", "Bootstrap complete, listeners not bound (non-server mode)")
		return nil
	}

	if err := a.server.Start(ctx); err != nil {
		return err
	}
	a.serving = true
	return nil
}

// Stop drains and stops the gateway if it was serving.
func (a *Application) Stop(ctx context.Context) error {
	if !a.serving {
		return nil
	}
	a.serving = false
	return a.server.Stop(ctx)
}
