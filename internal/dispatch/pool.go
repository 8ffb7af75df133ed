// Package dispatch runs the asynchronous file writes of the component loggers.
//
// A Pool is a fixed set of worker goroutines fed by a bounded channel. Submit never
// blocks: when the channel is full the task spills into an overflow backlog that the
// same workers drain, so a burst costs memory instead of stalling the caller, and no
// task is discarded while the pool is open. Tasks carry no ordering guarantee.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/complog/internal/constants"
)

const flushPollInterval = 2 * time.Millisecond

// Task is a unit of asynchronous work.
type Task func()

// Config configures a Pool.
type Config struct {
	// Workers is the number of goroutines executing tasks.
	Workers int
	// QueueSize is the capacity of the task channel.
	QueueSize int
	// PanicHandler is called with the recovered value when a task panics.
	PanicHandler func(error)
	// MetricsReporter receives a metrics snapshot after each completed task.
	MetricsReporter func(Metrics)
}

// Metrics provides insight into the internal state of the Pool.
type Metrics struct {
	Submitted  uint64
	Completed  uint64
	Overflowed uint64
	Panicked   uint64
	QueueDepth int
	Backlog    int
	Pending    int64
}

// Pool executes submitted tasks on a fixed number of workers.
type Pool struct {
	config Config
	tasks  chan Task
	wakeCh chan struct{}
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex // guards backlog and closed
	backlog []Task
	closed  bool

	metricsMu sync.Mutex

	pending    atomic.Int64
	submitted  atomic.Uint64
	completed  atomic.Uint64
	overflowed atomic.Uint64
	panicked   atomic.Uint64
}

// New creates a Pool and starts its workers.
func New(config Config) *Pool {
	if config.Workers <= 0 {
		config.Workers = constants.DefaultWorkers
	}

	if config.QueueSize <= 0 {
		config.QueueSize = constants.DefaultQueueSize
	}

	if config.PanicHandler == nil {
		config.PanicHandler = func(error) {}
	}

	pool := &Pool{
		config: config,
		tasks:  make(chan Task, config.QueueSize),
		wakeCh: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
	}

	pool.start()

	return pool
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.config.Workers
}

// Submit schedules task for asynchronous execution and returns immediately.
// A nil task is ignored.
func (p *Pool) Submit(task func()) error {
	if task == nil {
		return nil
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()

		return ErrPoolClosed
	}

	p.pending.Add(1)
	p.submitted.Add(1)

	select {
	case p.tasks <- task:
		p.mu.Unlock()

		return nil
	default:
	}

	p.backlog = append(p.backlog, task)
	p.overflowed.Add(1)
	p.mu.Unlock()

	p.wake()

	return nil
}

// Flush waits until every task submitted so far has completed.
func (p *Pool) Flush(ctx context.Context) error {
	if p.pending.Load() == 0 {
		return nil
	}

	ticker := time.NewTicker(flushPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ewrap.Wrap(ErrFlushTimeout, ctx.Err().Error()).
				WithMetadata("pending", p.pending.Load())
		case <-ticker.C:
			if p.pending.Load() == 0 {
				return nil
			}
		}
	}
}

// Close stops accepting tasks, runs everything already queued and waits for the
// workers to exit or ctx to expire.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()

		return ErrPoolClosed
	}

	p.closed = true
	close(p.stopCh)
	p.mu.Unlock()

	done := make(chan struct{})

	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ewrap.Wrap(ErrFlushTimeout, ctx.Err().Error()).
			WithMetadata("pending", p.pending.Load())
	}
}

// Metrics returns a snapshot of the current metrics counters.
func (p *Pool) Metrics() Metrics {
	p.mu.Lock()
	backlog := len(p.backlog)
	p.mu.Unlock()

	return Metrics{
		Submitted:  p.submitted.Load(),
		Completed:  p.completed.Load(),
		Overflowed: p.overflowed.Load(),
		Panicked:   p.panicked.Load(),
		QueueDepth: len(p.tasks),
		Backlog:    backlog,
		Pending:    p.pending.Load(),
	}
}

// start launches the worker goroutines.
func (p *Pool) start() {
	p.wg.Add(p.config.Workers)

	for range p.config.Workers {
		go p.work()
	}
}

// work is the worker loop.
func (p *Pool) work() {
	defer p.wg.Done()

	for {
		select {
		case task := <-p.tasks:
			p.run(task)
		case <-p.wakeCh:
			p.drainBacklog()
		case <-p.stopCh:
			p.drain()

			return
		}
	}
}

// wake signals one worker that the backlog is not empty.
func (p *Pool) wake() {
	select {
	case p.wakeCh <- struct{}{}:
	default:
	}
}

// popBacklog removes the oldest backlog task, if any.
func (p *Pool) popBacklog() (Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.backlog) == 0 {
		return nil, false
	}

	task := p.backlog[0]
	p.backlog[0] = nil
	p.backlog = p.backlog[1:]

	if len(p.backlog) == 0 {
		p.backlog = nil
	}

	return task, true
}

// drainBacklog runs backlog tasks until it is empty.
func (p *Pool) drainBacklog() {
	for {
		task, ok := p.popBacklog()
		if !ok {
			return
		}

		p.run(task)
	}
}

// drain runs every queued task; called once the pool is closed.
func (p *Pool) drain() {
	for {
		select {
		case task := <-p.tasks:
			p.run(task)
		default:
			p.drainBacklog()

			if len(p.tasks) == 0 {
				return
			}
		}
	}
}

// run executes a task, recovering from panics.
func (p *Pool) run(task Task) {
	defer func() {
		if recovered := recover(); recovered != nil {
			p.panicked.Add(1)
			p.config.PanicHandler(ewrap.Wrap(ErrTaskPanicked, fmt.Sprint(recovered)))
		}

		p.completed.Add(1)
		p.pending.Add(-1)
		p.reportMetrics()
	}()

	if task != nil {
		task()
	}
}

func (p *Pool) reportMetrics() {
	reporter := p.config.MetricsReporter
	if reporter == nil {
		return
	}

	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()

	reporter(p.Metrics())
}
