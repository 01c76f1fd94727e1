package runtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeApp records lifecycle calls and optionally fails startup.
type fakeApp struct {
	mu       sync.Mutex
	startErr error
	started  int
	stopped  int
}

func (a *fakeApp) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.started++
	return a.startErr
}

func (a *fakeApp) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped++
	return nil
}

func (a *fakeApp) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started, a.stopped
}

func TestAsyncExitFirstRequestWins(t *testing.T) {
	rt := New()

	rt.AsyncExit(3)
	rt.AsyncExit(7)

	if code := rt.WaitForExit(); code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}
}

func TestRunStartFailure(t *testing.T) {
	boom := errors.New("listen tcp :8443: address already in use")
	app := &fakeApp{startErr: boom}
	rt := New()

	var gotCode int
	var gotCause error
	rt.Run(context.Background(), app, func(code int, cause error) {
		gotCode = code
		gotCause = cause
	})

	if gotCode != 1 {
		t.Errorf("expected exit code 1, got %d", gotCode)
	}
	if !errors.Is(gotCause, boom) {
		t.Errorf("expected startup cause, got %v", gotCause)
	}
	if rt.Tracker().Phase() != PhaseExited {
		t.Errorf("expected PhaseExited, got %s", rt.Tracker().Phase())
	}
	if !errors.Is(rt.Tracker().LastError(), boom) {
		t.Errorf("expected tracker to record the startup error, got %v", rt.Tracker().LastError())
	}
	if _, stopped := app.counts(); stopped != 0 {
		t.Error("Stop should not run when startup failed")
	}
}

func TestRunLifecycle(t *testing.T) {
	origGetenv := osGetenv
	defer func() { osGetenv = origGetenv }()
	osGetenv = func(string) string { return "" }
	t.Cleanup(func() { nonServerForced.Store(false) })

	app := &fakeApp{}
	rt := New()

	phases := make(chan Phase, 8)
	rt.Tracker().SetPhaseChangeCallback(func(oldPhase, newPhase Phase, err error) {
		phases <- newPhase
	})

	done := make(chan struct{})
	var gotCode int
	var gotCause error
	go func() {
		rt.Run(context.Background(), app, func(code int, cause error) {
			gotCode = code
			gotCause = cause
		})
		close(done)
	}()

	waitForPhase(t, phases, PhaseStarting)
	waitForPhase(t, phases, PhaseRunning)

	rt.AsyncExit(0)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after exit was requested")
	}

	waitForPhase(t, phases, PhaseExiting)
	waitForPhase(t, phases, PhaseExited)

	if gotCode != 0 {
		t.Errorf("expected exit code 0, got %d", gotCode)
	}
	if gotCause != nil {
		t.Errorf("expected no startup cause, got %v", gotCause)
	}
	started, stopped := app.counts()
	if started != 1 || stopped != 1 {
		t.Errorf("expected one start and one stop, got %d/%d", started, stopped)
	}
}

func TestRunTestLaunchModeExitsImmediately(t *testing.T) {
	t.Setenv(EnvLaunchMode, LaunchModeTest)

	app := &fakeApp{}
	rt := New()

	var gotCode int
	rt.Run(context.Background(), app, func(code int, cause error) {
		gotCode = code
	})

	if gotCode != 0 {
		t.Errorf("expected exit code 0, got %d", gotCode)
	}
	started, stopped := app.counts()
	if started != 1 || stopped != 1 {
		t.Errorf("expected one start and one stop, got %d/%d", started, stopped)
	}
	if rt.Tracker().Phase() != PhaseExited {
		t.Errorf("expected PhaseExited, got %s", rt.Tracker().Phase())
	}
}

func TestRunForcedNonServerMode(t *testing.T) {
	t.Cleanup(func() { nonServerForced.Store(false) })
	ForceNonServerMode()

	app := &fakeApp{}
	rt := New()

	completions := 0
	rt.Run(context.Background(), app, func(code int, cause error) {
		completions++
	})

	if completions != 1 {
		t.Errorf("completion handler should run exactly once, ran %d times", completions)
	}
}

func TestRunNilCompletionHandler(t *testing.T) {
	t.Setenv(EnvLaunchMode, LaunchModeTest)

	rt := New()
	rt.Run(context.Background(), &fakeApp{}, nil)

	if rt.Tracker().Phase() != PhaseExited {
		t.Errorf("expected PhaseExited, got %s", rt.Tracker().Phase())
	}
}

func waitForPhase(t *testing.T, phases <-chan Phase, want Phase) {
	t.Helper()
	for {
		select {
		case got := <-phases:
			if got == want {
				return
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for phase %s", want)
		}
	}
}
