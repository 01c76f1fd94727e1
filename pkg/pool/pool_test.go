package pool

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestSubmitExecutesTasks(t *testing.T) {
	p := New(2, 8, nil)
	defer p.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := 0

	for i := 0; i < 5; i++ {
		wg.Add(1)
		err := p.Submit(func() {
			defer wg.Done()
			mu.Lock()
			seen++
			mu.Unlock()
		})
		if err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
	}
	wg.Wait()

	if seen != 5 {
		t.Errorf("expected 5 executed tasks, got %d", seen)
	}
}

func TestSubmitAfterCloseReturnsErrClosed(t *testing.T) {
	p := New(1, 1, nil)
	p.Close()

	err := p.Submit(func() {})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestSubmitQueueFull(t *testing.T) {
	p := New(1, 1, nil)
	defer p.Close()

	block := make(chan struct{})
	started := make(chan struct{})

	// Occupy the single worker.
	if err := p.Submit(func() { close(started); <-block }); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	<-started

	// Fill the queue slot.
	if err := p.Submit(func() {}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	// Queue is now full.
	err := p.Submit(func() {})
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}

	close(block)
}

func TestSubmitWaitBlocksUntilDone(t *testing.T) {
	p := New(2, 8, nil)
	defer p.Close()

	ran := false
	if err := p.SubmitWait(func() {
		time.Sleep(20 * time.Millisecond)
		ran = true
	}); err != nil {
		t.Fatalf("SubmitWait returned error: %v", err)
	}

	// SubmitWait returned, so the write above happened before this read.
	if !ran {
		t.Error("SubmitWait returned before the task ran")
	}
}

func TestSubmitWaitOnClosedPool(t *testing.T) {
	p := New(1, 1, nil)
	p.Close()

	if err := p.SubmitWait(func() {}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestContextWorkerSurvivesPanickingTask(t *testing.T) {
	p := New(1, 4, ContextFactory{})
	defer p.Close()

	done := make(chan struct{})
	if err := p.Submit(func() { panic("task failure") }); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if err := p.Submit(func() { close(done) }); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panicking task")
	}
}

func TestSubmitWaitUnblocksOnPanickingTask(t *testing.T) {
	p := New(1, 4, ContextFactory{})
	defer p.Close()

	finished := make(chan error, 1)
	go func() {
		finished <- p.SubmitWait(func() { panic("task failure") })
	}()

	select {
	case err := <-finished:
		if err != nil {
			t.Errorf("SubmitWait returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("SubmitWait blocked forever on a panicking task")
	}
}

func TestPlainFactoryRunsTasks(t *testing.T) {
	p := New(1, 4, PlainFactory{})
	defer p.Close()

	done := make(chan struct{})
	if err := p.Submit(func() { close(done) }); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("plain worker did not execute the task")
	}
}

func TestCloseWaitsForQueuedTasks(t *testing.T) {
	p := New(1, 4, nil)

	var mu sync.Mutex
	completed := 0
	for i := 0; i < 3; i++ {
		if err := p.Submit(func() {
			mu.Lock()
			completed++
			mu.Unlock()
		}); err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
	}

	p.Close()

	mu.Lock()
	defer mu.Unlock()
	if completed != 3 {
		t.Errorf("Close returned before all tasks ran: %d of 3", completed)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	p := New(1, 1, nil)
	p.Close()
	p.Close()
}

func TestCommonIsSingleton(t *testing.T) {
	a := Common()
	b := Common()
	if a != b {
		t.Error("Common should return the same pool on every call")
	}
	if a.Size() <= 0 {
		t.Errorf("common pool should have at least one worker, got %d", a.Size())
	}
}

func TestCommonFactoryTypeName(t *testing.T) {
	// The launch guard compares this name against the configured
	// factory override, so it must stay stable.
	name := reflect.TypeOf(Common().Factory()).String()
	if name != "pool.ContextFactory" {
		t.Errorf("unexpected factory type name %q", name)
	}
}

func TestSetCommonFactoryBeforeFirstUse(t *testing.T) {
	commonMu.Lock()
	savedPool, savedFactory := commonPool, commonFactory
	commonPool, commonFactory = nil, ContextFactory{}
	commonMu.Unlock()
	defer func() {
		commonMu.Lock()
		commonPool, commonFactory = savedPool, savedFactory
		commonMu.Unlock()
	}()

	if err := SetCommonFactory(PlainFactory{}); err != nil {
		t.Fatalf("SetCommonFactory before first use returned error: %v", err)
	}

	p := Common()
	defer p.Close()
	if name := reflect.TypeOf(p.Factory()).String(); name != "pool.PlainFactory" {
		t.Errorf("override did not take effect, factory is %q", name)
	}
}

func TestSetCommonFactoryAfterFirstUse(t *testing.T) {
	Common()

	if err := SetCommonFactory(PlainFactory{}); !errors.Is(err, ErrCommonInUse) {
		t.Errorf("expected ErrCommonInUse after the pool exists, got %v", err)
	}
}
