package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/ff-holdings-reconciler/internal/adapter"
	"github.com/feral-file/ff-holdings-reconciler/internal/config"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
)

// ErrQueueClosed is returned when a task is submitted to, or still pending in, a closed queue
var ErrQueueClosed = errors.New("request queue is closed")

// ErrTaskPanicked is returned to the caller of a task that panicked
var ErrTaskPanicked = errors.New("request panicked")

// RequestFunc is a function that performs the actual request
// It receives a context and returns the result and any error
type RequestFunc func(ctx context.Context) (interface{}, error)

// requestResult wraps the result and error of a request
type requestResult struct {
	value interface{}
	err   error
}

// task is a submitted request waiting for dispatch
type task struct {
	ctx    context.Context
	fn     RequestFunc
	result chan requestResult
}

// DefaultConfig returns the queue settings used for contract calls
func DefaultConfig() config.QueueConfig {
	return config.QueueConfig{
		InitialConcurrency: 8,
		MinConcurrency:     3,
		MaxConcurrency:     8,
		MinSpacing:         50 * time.Millisecond,
		BaseBackoff:        time.Second,
		MaxBackoff:         10 * time.Second,
		RecoveryInterval:   5 * time.Second,
	}
}

// Stats is a snapshot of the queue's control state
type Stats struct {
	MaxConcurrent int           `json:"max_concurrent"`
	Running       int           `json:"running"`
	Pending       int           `json:"pending"`
	ErrorCount    int           `json:"error_count"`
	Backoff       time.Duration `json:"backoff"`
}

// Queue gates submitted requests behind a concurrency cap, a minimum dispatch spacing
// and a backoff that reacts to rate-limit signals.
//
//go:generate mockgen -source=queue.go -destination=../mocks/ratelimit_queue.go -package=mocks -mock_names=Queue=MockQueue
type Queue interface {
	// Submit enqueues a request and blocks until it completes or ctx is done
	Submit(ctx context.Context, fn RequestFunc) (interface{}, error)

	// RateLimited feeds a rate-limit signal into the control loop
	RateLimited()

	// Stats returns a snapshot of the control state
	Stats() Stats

	// Close stops dispatching and fails pending requests
	Close() error
}

// queue is the concrete adaptive queue. A single dispatcher goroutine owns dispatch
// decisions; every counter it reads is guarded by mu.
type queue struct {
	cfg     config.QueueConfig
	clock   adapter.Clock
	pool    pond.Pool
	spacing *rate.Limiter

	mu            sync.Mutex
	pending       []*task
	running       int
	maxConcurrent int
	errorCount    int
	backoff       time.Duration
	closed        bool

	wake      chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewQueue creates an adaptive queue and starts its dispatcher
func NewQueue(cfg config.QueueConfig, clock adapter.Clock) Queue {
	cfg = normalizeConfig(cfg)

	limit := rate.Inf
	if cfg.MinSpacing > 0 {
		limit = rate.Every(cfg.MinSpacing)
	}

	q := &queue{
		cfg:           cfg,
		clock:         clock,
		pool:          pond.NewPool(cfg.MaxConcurrency),
		spacing:       rate.NewLimiter(limit, 1),
		maxConcurrent: cfg.InitialConcurrency,
		wake:          make(chan struct{}, 1),
		done:          make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go q.dispatch()

	logger.Info("Adaptive request queue initialized",
		zap.Int("initial_concurrency", cfg.InitialConcurrency),
		zap.Int("min_concurrency", cfg.MinConcurrency),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Duration("min_spacing", cfg.MinSpacing),
	)

	return q
}

// Submit submits a request through the queue and returns the result with type safety
func Submit[T any](ctx context.Context, q Queue, fn func(ctx context.Context) (T, error)) (T, error) {
	// If queue is nil, execute the function directly
	if q == nil {
		return fn(ctx)
	}

	var zero T
	result, err := q.Submit(ctx, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	value, _ := result.(T)
	return value, nil
}

// Submit enqueues a request in FIFO order and waits for its result
func (q *queue) Submit(ctx context.Context, fn RequestFunc) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := &task{ctx: ctx, fn: fn, result: make(chan requestResult, 1)}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, ErrQueueClosed
	}
	q.pending = append(q.pending, t)
	q.mu.Unlock()
	q.signal()

	select {
	case r := <-t.result:
		return r.value, r.err
	case <-ctx.Done():
		// The dispatcher drops the task when it reaches it
		return nil, ctx.Err()
	}
}

// RateLimited applies the backoff and shrinks the concurrency cap, then schedules the recovery step
func (q *queue) RateLimited() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.errorCount++
	q.backoff = BackoffFor(q.errorCount, q.cfg.BaseBackoff, q.cfg.MaxBackoff)
	if q.maxConcurrent > q.cfg.MinConcurrency {
		q.maxConcurrent--
	}
	errorCount, backoff, maxConcurrent := q.errorCount, q.backoff, q.maxConcurrent
	q.mu.Unlock()

	logger.Warn("Rate limit signalled, backing off",
		zap.Int("error_count", errorCount),
		zap.Duration("backoff", backoff),
		zap.Int("max_concurrent", maxConcurrent),
	)

	go q.scheduleRecovery()
	q.signal()
}

// Stats returns a snapshot of the control state
func (q *queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		MaxConcurrent: q.maxConcurrent,
		Running:       q.running,
		Pending:       len(q.pending),
		ErrorCount:    q.errorCount,
		Backoff:       q.backoff,
	}
}

// Close stops the dispatcher, waits for running requests and fails pending ones
func (q *queue) Close() error {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()

		close(q.done)
		<-q.stopped
		q.pool.StopAndWait()

		q.mu.Lock()
		pending := q.pending
		q.pending = nil
		q.mu.Unlock()

		for _, t := range pending {
			t.result <- requestResult{err: ErrQueueClosed}
		}

		logger.Info("Adaptive request queue shut down", zap.Int("dropped", len(pending)))
	})
	return nil
}

// dispatch is the single dispatcher loop
func (q *queue) dispatch() {
	defer close(q.stopped)

	for {
		q.mu.Lock()

		// A pending backoff is waited out once before any dispatch is considered
		if q.backoff > 0 {
			d := q.backoff
			q.backoff = 0
			q.mu.Unlock()
			if !q.sleep(d) {
				return
			}
			continue
		}

		q.dropCanceledLocked()
		if len(q.pending) == 0 || q.running >= q.maxConcurrent {
			q.mu.Unlock()
			select {
			case <-q.wake:
				continue
			case <-q.done:
				return
			}
		}
		q.mu.Unlock()

		now := q.clock.Now()
		if d := q.spacing.ReserveN(now, 1).DelayFrom(now); d > 0 {
			if !q.sleep(d) {
				return
			}
		}

		q.mu.Lock()
		q.dropCanceledLocked()
		// State may have moved while waiting for the spacing slot
		if q.backoff > 0 || len(q.pending) == 0 || q.running >= q.maxConcurrent {
			q.mu.Unlock()
			continue
		}
		t := q.pending[0]
		q.pending = q.pending[1:]
		q.running++
		q.mu.Unlock()

		q.pool.Submit(func() {
			q.run(t)
		})
	}
}

// dropCanceledLocked removes tasks at the head of the queue whose caller has gone away
func (q *queue) dropCanceledLocked() {
	for len(q.pending) > 0 && q.pending[0].ctx.Err() != nil {
		t := q.pending[0]
		q.pending = q.pending[1:]
		t.result <- requestResult{err: t.ctx.Err()}
	}
}

// finish marks one running task as complete
// run executes one task; the slot is released and the caller answered even if fn panics
func (q *queue) run(t *task) {
	var res requestResult
	defer func() {
		if r := recover(); r != nil {
			res = requestResult{err: fmt.Errorf("%w: %v", ErrTaskPanicked, r)}
			logger.ErrorCtx(t.ctx, res.err)
		}
		q.finish()
		t.result <- res
	}()

	res.value, res.err = t.fn(t.ctx)
}

func (q *queue) finish() {
	q.mu.Lock()
	q.running--
	q.mu.Unlock()
	q.signal()
}

// scheduleRecovery decays the error count and restores one unit of concurrency after the recovery interval
func (q *queue) scheduleRecovery() {
	select {
	case <-q.clock.After(q.cfg.RecoveryInterval):
	case <-q.done:
		return
	}

	q.mu.Lock()
	if q.errorCount > 0 {
		q.errorCount--
	}
	if q.maxConcurrent < q.cfg.MaxConcurrency {
		q.maxConcurrent++
	}
	errorCount, maxConcurrent := q.errorCount, q.maxConcurrent
	q.mu.Unlock()

	logger.Debug("Rate limit recovery step",
		zap.Int("error_count", errorCount),
		zap.Int("max_concurrent", maxConcurrent),
	)
	q.signal()
}

// signal wakes the dispatcher without blocking
func (q *queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// sleep waits for d on the queue clock; it returns false if the queue was closed meanwhile
func (q *queue) sleep(d time.Duration) bool {
	select {
	case <-q.clock.After(d):
		return true
	case <-q.done:
		return false
	}
}

// BackoffFor returns min(base * 2^(errorCount-1), max)
func BackoffFor(errorCount int, base, max time.Duration) time.Duration {
	if errorCount <= 0 {
		return 0
	}
	d := base
	for i := 1; i < errorCount; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}

// normalizeConfig fills defaults and clamps the initial concurrency into [min, max]
func normalizeConfig(cfg config.QueueConfig) config.QueueConfig {
	def := DefaultConfig()
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = def.MaxConcurrency
	}
	if cfg.MinConcurrency <= 0 {
		cfg.MinConcurrency = min(def.MinConcurrency, cfg.MaxConcurrency)
	}
	if cfg.MinConcurrency > cfg.MaxConcurrency {
		cfg.MinConcurrency = cfg.MaxConcurrency
	}
	if cfg.InitialConcurrency <= 0 {
		cfg.InitialConcurrency = cfg.MaxConcurrency
	}
	cfg.InitialConcurrency = max(cfg.MinConcurrency, min(cfg.InitialConcurrency, cfg.MaxConcurrency))
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = def.BaseBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.RecoveryInterval <= 0 {
		cfg.RecoveryInterval = def.RecoveryInterval
	}
	if cfg.MinSpacing < 0 {
		cfg.MinSpacing = 0
	}
	return cfg
}
