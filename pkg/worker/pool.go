/*
Package worker provides a rate-limited worker pool. Tasks may be submitted
from many goroutines while the pool runs; results are collected internally
so workers never block on a slow consumer.

Basic usage:

	pool, err := worker.NewPool(worker.Config{
		Workers:   4,
		RateLimit: 100, // 100 ops/sec
	})

	pool.Start(ctx)
	pool.Submit(worker.Task{
		ID: 1,
		Execute: func(ctx context.Context) (worker.Result, error) {
			return worker.Result{ID: 1, Data: "processed"}, nil
		},
	})

	// Results come back in submission order.
	results, err := pool.Wait()
*/
package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Task represents a unit of work to be processed by the worker pool
type Task struct {
	// ID identifies the task in errors.
	ID int

	// Execute performs the work. It receives the pool context.
	Execute func(context.Context) (Result, error)
}

// Result represents the output of a processed task
type Result struct {
	// ID matches the task ID that produced this result
	ID int

	// Data holds the actual result data
	Data interface{}

	// order is the submission ordinal of the producing task
	order uint64
}

// Config holds the configuration for the worker pool
type Config struct {
	// Workers is the number of concurrent workers
	Workers int

	// RateLimit is the maximum number of operations per second (0 for unlimited)
	RateLimit int
}

// Pool defines the interface for a worker pool
type Pool interface {
	// Start starts the workers.
	Start(context.Context) error

	// Submit queues a task. It is safe to call from multiple goroutines
	// until Wait or Stop is called.
	Submit(Task) error

	// Wait stops accepting tasks, blocks until every submitted task has run
	// and returns the results in submission order together with the joined
	// task errors.
	Wait() ([]Result, error)

	// GetStats returns current statistics about the pool
	GetStats() Stats

	// Status returns the current status of the pool
	Status() Status

	// Stop cancels the pool context and waits briefly for workers.
	Stop() error
}

type orderedTask struct {
	Task
	order uint64
}

type pool struct {
	config  Config
	tasks   chan orderedTask
	limiter *rate.Limiter
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu      sync.RWMutex
	started bool
	closed  bool

	resultsMu sync.Mutex
	results   []Result
	errs      []error

	nextOrder     atomic.Uint64
	activeWorkers atomic.Int32
	completed     atomic.Int64
	failed        atomic.Int64
	startTime     time.Time
}

// NewPool creates a new worker pool with the given configuration
func NewPool(config Config) (Pool, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &pool{
		config:  config,
		tasks:   make(chan orderedTask, config.Workers*2),
		limiter: limiter,
	}, nil
}

func validateConfig(config Config) error {
	if config.Workers <= 0 {
		return fmt.Errorf("number of workers must be positive")
	}
	if config.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

// Start initializes and starts the worker pool
func (p *pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("pool already started")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true
	p.startTime = time.Now()

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return nil
}

// Submit adds a task to the pool for processing
func (p *pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		return fmt.Errorf("pool not started")
	}
	if p.closed {
		return fmt.Errorf("pool is no longer accepting tasks")
	}

	ot := orderedTask{Task: task, order: p.nextOrder.Add(1)}

	select {
	case <-p.ctx.Done():
		return fmt.Errorf("pool is shutting down: %w", p.ctx.Err())
	case p.tasks <- ot:
		return nil
	}
}

// Wait blocks until all submitted tasks are processed
func (p *pool) Wait() ([]Result, error) {
	if err := p.close(); err != nil {
		return nil, err
	}

	p.wg.Wait()

	p.resultsMu.Lock()
	defer p.resultsMu.Unlock()

	results := p.results
	sort.Slice(results, func(i, j int) bool {
		return results[i].order < results[j].order
	})

	return results, errors.Join(p.errs...)
}

// close stops intake. It is idempotent.
func (p *pool) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return fmt.Errorf("pool not started")
	}
	if !p.closed {
		close(p.tasks)
		p.closed = true
	}
	return nil
}

// Stop gracefully shuts down the pool
func (p *pool) Stop() error {
	p.mu.RLock()
	started := p.started
	p.mu.RUnlock()

	if !started {
		return nil
	}

	p.cancel()
	if err := p.close(); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(500 * time.Millisecond):
		return fmt.Errorf("shutdown timed out")
	}
}

func (p *pool) GetStats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var uptime time.Duration
	if p.started {
		uptime = time.Since(p.startTime)
	}

	return Stats{
		ActiveWorkers:  int(p.activeWorkers.Load()),
		QueuedTasks:    len(p.tasks),
		CompletedTasks: int(p.completed.Load()),
		FailedTasks:    int(p.failed.Load()),
		Status:         p.status(),
		Uptime:         uptime,
	}
}

func (p *pool) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.status()
}

// status requires p.mu to be held.
func (p *pool) status() Status {
	switch {
	case !p.started:
		return StatusStopped
	case p.ctx.Err() != nil:
		if p.activeWorkers.Load() > 0 {
			return StatusShuttingDown
		}
		return StatusStopped
	case p.activeWorkers.Load() > 0 || len(p.tasks) > 0:
		return StatusProcessing
	default:
		return StatusIdle
	}
}

func (p *pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		p.run(task)
	}
}

func (p *pool) run(task orderedTask) {
	p.activeWorkers.Add(1)
	defer p.activeWorkers.Add(-1)

	if p.limiter != nil {
		if err := p.limiter.Wait(p.ctx); err != nil {
			p.fail(fmt.Errorf("task %d: rate limiter: %w", task.ID, err))
			return
		}
	}

	result, err := task.Execute(p.ctx)
	if err != nil {
		p.fail(fmt.Errorf("task %d failed: %w", task.ID, err))
		return
	}

	result.order = task.order
	p.completed.Add(1)

	p.resultsMu.Lock()
	p.results = append(p.results, result)
	p.resultsMu.Unlock()
}

func (p *pool) fail(err error) {
	p.failed.Add(1)

	p.resultsMu.Lock()
	p.errs = append(p.errs, err)
	p.resultsMu.Unlock()
}
