// Package pool provides a fixed-size worker pool with a bounded queue.
//
// The process keeps one shared pool, returned by Common, for background
// work that must not spawn unbounded goroutines: upstream health probes,
// snapshot persistence, access log flushing. Worker goroutines are
// created by a WorkerFactory. The common pool defaults to ContextFactory,
// whose workers recover task panics and log them with the worker's
// identity; the launch guard verifies the installed factory's type name
// against the DRAWBRIDGE_POOL_FACTORY setting before anything else runs,
// so a misconfigured override fails the process immediately instead of
// surfacing as lost panics or missing log attribution much later.
package pool

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"drawbridge/pkg/logging"
)

// Task is a unit of work executed on a pool worker.
type Task func()

// WorkerFactory creates the worker goroutines that drain a pool's queue.
type WorkerFactory interface {
	// Spawn starts worker goroutine id. The goroutine must execute
	// tasks until the channel is closed and then call done exactly once.
	Spawn(id int, tasks <-chan Task, done func())
}

// ContextFactory spawns workers that recover task panics and log them
// with the worker's identity. It is the factory the common pool is
// built with unless overridden before first use.
type ContextFactory struct{}

// Spawn implements WorkerFactory.
func (ContextFactory) Spawn(id int, tasks <-chan Task, done func()) {
	go func() {
		defer done()
		for task := range tasks {
			runGuarded(id, task)
		}
	}()
}

func runGuarded(id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Pool", nil, "Worker %d recovered from task panic: %v", id, r)
		}
	}()
	task()
}

// PlainFactory spawns bare worker goroutines. A task panic on a plain
// worker takes the whole process down, as any unrecovered goroutine
// panic does.
type PlainFactory struct{}

// Spawn implements WorkerFactory.
func (PlainFactory) Spawn(id int, tasks <-chan Task, done func()) {
	go func() {
		defer done()
		for task := range tasks {
			task()
		}
	}()
}

var (
	// ErrClosed is returned by Submit after the pool has been closed.
	ErrClosed = errors.New("pool: closed")
	// ErrQueueFull is returned by Submit when the queue cannot accept
	// more work. Callers decide whether to drop or run inline.
	ErrQueueFull = errors.New("pool: queue full")
	// ErrCommonInUse is returned by SetCommonFactory once the common
	// pool exists.
	ErrCommonInUse = errors.New("pool: common pool already created")
)

const defaultQueueFactor = 16

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Workers   int
	Submitted uint64
	Completed uint64
	Queued    int
}

// Pool is a fixed-size worker pool with a bounded task queue.
type Pool struct {
	factory WorkerFactory
	tasks   chan Task
	size    int

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	submitted atomic.Uint64
	completed atomic.Uint64
}

// New creates a pool with the given worker count, queue depth, and
// factory. Non-positive size defaults to the number of CPUs; a
// non-positive queue depth defaults to size * 16; a nil factory
// defaults to ContextFactory.
func New(size, queueDepth int, factory WorkerFactory) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if queueDepth <= 0 {
		queueDepth = size * defaultQueueFactor
	}
	if factory == nil {
		factory = ContextFactory{}
	}

	p := &Pool{
		factory: factory,
		tasks:   make(chan Task, queueDepth),
		size:    size,
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		factory.Spawn(i, p.tasks, p.wg.Done)
	}
	return p
}

// Submit queues task for execution. It never blocks: when the queue is
// full it returns ErrQueueFull, and after Close it returns ErrClosed.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	wrapped := func() {
		task()
		p.completed.Add(1)
	}

	select {
	case p.tasks <- wrapped:
		p.submitted.Add(1)
		return nil
	default:
		return ErrQueueFull
	}
}

// SubmitWait queues task and blocks until it has run. A panicking task
// on a ContextFactory worker still unblocks the caller; the panic is
// recovered by the worker, not rethrown here.
func (p *Pool) SubmitWait(task Task) error {
	if task == nil {
		return nil
	}

	ran := make(chan struct{})
	err := p.Submit(func() {
		defer close(ran)
		task()
	})
	if err != nil {
		return err
	}
	<-ran
	return nil
}

// Close stops accepting work and waits for queued tasks to finish.
// It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

// Factory returns the factory the pool was created with.
func (p *Pool) Factory() WorkerFactory {
	return p.factory
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.size,
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Queued:    len(p.tasks),
	}
}

var (
	commonMu      sync.Mutex
	commonPool    *Pool
	commonFactory WorkerFactory = ContextFactory{}
)

// SetCommonFactory overrides the factory the common pool will be built
// with. The override must happen before the first Common call; once the
// pool exists the factory is fixed and ErrCommonInUse is returned.
func SetCommonFactory(factory WorkerFactory) error {
	commonMu.Lock()
	defer commonMu.Unlock()
	if commonPool != nil {
		return ErrCommonInUse
	}
	if factory == nil {
		factory = ContextFactory{}
	}
	commonFactory = factory
	return nil
}

// Common returns the shared process-wide pool, creating it on first use
// with one worker per CPU.
func Common() *Pool {
	commonMu.Lock()
	defer commonMu.Unlock()
	if commonPool == nil {
		commonPool = New(0, 0, commonFactory)
	}
	return commonPool
}
