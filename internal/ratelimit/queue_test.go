package ratelimit_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-holdings-reconciler/internal/adapter"
	"github.com/feral-file/ff-holdings-reconciler/internal/config"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
	"github.com/feral-file/ff-holdings-reconciler/internal/mocks"
	"github.com/feral-file/ff-holdings-reconciler/internal/ratelimit"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func fastConfig(initial, minC, maxC int) config.QueueConfig {
	return config.QueueConfig{
		InitialConcurrency: initial,
		MinConcurrency:     minC,
		MaxConcurrency:     maxC,
		MinSpacing:         0,
		BaseBackoff:        time.Millisecond,
		MaxBackoff:         10 * time.Millisecond,
		RecoveryInterval:   time.Hour,
	}
}

func TestBackoffFor(t *testing.T) {
	tests := []struct {
		errorCount int
		expected   time.Duration
	}{
		{0, 0},
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second},
		{40, 10 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ratelimit.BackoffFor(tt.errorCount, time.Second, 10*time.Second), "error count %d", tt.errorCount)
	}
}

func TestQueue_NeverExceedsConcurrencyCap(t *testing.T) {
	for _, maxC := range []int{1, 3, 8} {
		q := ratelimit.NewQueue(fastConfig(maxC, 1, maxC), adapter.NewClock())

		var running, peak int32
		var wg sync.WaitGroup
		for i := 0; i < 40; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := q.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
					n := atomic.AddInt32(&running, 1)
					for {
						p := atomic.LoadInt32(&peak)
						if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
							break
						}
					}
					time.Sleep(2 * time.Millisecond)
					atomic.AddInt32(&running, -1)
					return nil, nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.LessOrEqual(t, int(atomic.LoadInt32(&peak)), maxC)
		assert.Equal(t, 0, q.Stats().Running)
		_ = q.Close()
	}
}

func TestQueue_DispatchesInSubmissionOrder(t *testing.T) {
	q := ratelimit.NewQueue(fastConfig(1, 1, 1), adapter.NewClock())
	defer func() { _ = q.Close() }()

	gate := make(chan struct{})
	var mu sync.Mutex
	var order []int

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = q.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
				if i == 0 {
					<-gate
				}
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil, nil
			})
		}(i)

		// Wait until the task is queued or running before submitting the next one
		want := i + 1
		require.Eventually(t, func() bool {
			s := q.Stats()
			return s.Pending+s.Running >= want
		}, time.Second, time.Millisecond)
	}

	close(gate)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestSubmit_Generic(t *testing.T) {
	q := ratelimit.NewQueue(fastConfig(2, 1, 2), adapter.NewClock())
	defer func() { _ = q.Close() }()

	value, err := ratelimit.Submit(context.Background(), q, func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", value)

	boom := errors.New("boom")
	_, err = ratelimit.Submit(context.Background(), q, func(ctx context.Context) (int, error) {
		return 7, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestQueue_PanickingTaskReleasesSlot(t *testing.T) {
	q := ratelimit.NewQueue(fastConfig(1, 1, 1), adapter.NewClock())
	defer func() { _ = q.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := q.Submit(ctx, func(ctx context.Context) (interface{}, error) {
		panic("decoder blew up")
	})
	assert.ErrorIs(t, err, ratelimit.ErrTaskPanicked)
	assert.Equal(t, 0, q.Stats().Running)

	// The single slot is free for the next request
	value, err := ratelimit.Submit(ctx, q, func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", value)
}

func TestSubmit_NilQueueExecutesDirectly(t *testing.T) {
	value, err := ratelimit.Submit(context.Background(), nil, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestQueue_RateLimitedShrinksAndRecovers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := ratelimit.DefaultConfig()
	clock := mocks.NewMockClock(ctrl)
	recovery := make(chan time.Time, 4)
	immediate := func() <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}

	clock.EXPECT().Now().Return(time.Unix(0, 0)).AnyTimes()
	clock.EXPECT().After(gomock.Any()).DoAndReturn(func(d time.Duration) <-chan time.Time {
		if d == cfg.RecoveryInterval {
			return recovery
		}
		return immediate()
	}).AnyTimes()

	q := ratelimit.NewQueue(cfg, clock)
	defer func() { _ = q.Close() }()

	assert.Equal(t, 8, q.Stats().MaxConcurrent)

	q.RateLimited()
	stats := q.Stats()
	assert.Equal(t, 7, stats.MaxConcurrent)
	assert.Equal(t, 1, stats.ErrorCount)

	q.RateLimited()
	stats = q.Stats()
	assert.Equal(t, 6, stats.MaxConcurrent)
	assert.Equal(t, 2, stats.ErrorCount)

	// One recovery interval elapses: exactly one unit restored
	recovery <- time.Now()
	require.Eventually(t, func() bool {
		s := q.Stats()
		return s.MaxConcurrent == 7 && s.ErrorCount == 1
	}, time.Second, time.Millisecond)

	recovery <- time.Now()
	require.Eventually(t, func() bool {
		s := q.Stats()
		return s.MaxConcurrent == 8 && s.ErrorCount == 0
	}, time.Second, time.Millisecond)
}

func TestQueue_RateLimitedRespectsFloor(t *testing.T) {
	q := ratelimit.NewQueue(fastConfig(8, 3, 8), adapter.NewClock())
	defer func() { _ = q.Close() }()

	for i := 0; i < 10; i++ {
		q.RateLimited()
	}

	stats := q.Stats()
	assert.Equal(t, 3, stats.MaxConcurrent)
	assert.Equal(t, 10, stats.ErrorCount)
}

func TestQueue_BackoffDelaysDispatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := ratelimit.DefaultConfig()
	clock := mocks.NewMockClock(ctrl)
	backoffDone := make(chan time.Time, 1)
	never := make(chan time.Time)

	clock.EXPECT().Now().Return(time.Unix(0, 0)).AnyTimes()
	clock.EXPECT().After(cfg.RecoveryInterval).Return(never).AnyTimes()
	clock.EXPECT().After(cfg.BaseBackoff).Return(backoffDone).Times(1)

	q := ratelimit.NewQueue(cfg, clock)
	defer func() { _ = q.Close() }()

	q.RateLimited()

	var ran atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := q.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
			ran.Store(true)
			return nil, nil
		})
		assert.NoError(t, err)
	}()

	time.Sleep(30 * time.Millisecond)
	assert.False(t, ran.Load(), "task must wait for the backoff")

	backoffDone <- time.Now()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task was not dispatched after the backoff elapsed")
	}
	assert.True(t, ran.Load())
}

func TestQueue_SpacingBetweenDispatches(t *testing.T) {
	cfg := fastConfig(8, 1, 8)
	cfg.MinSpacing = 20 * time.Millisecond
	q := ratelimit.NewQueue(cfg, adapter.NewClock())
	defer func() { _ = q.Close() }()

	var mu sync.Mutex
	var starts []time.Time
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = q.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
				mu.Lock()
				starts = append(starts, time.Now())
				mu.Unlock()
				return nil, nil
			})
		}()
	}
	wg.Wait()

	require.Len(t, starts, 4)
	first, last := starts[0], starts[0]
	for _, s := range starts {
		if s.Before(first) {
			first = s
		}
		if s.After(last) {
			last = s
		}
	}
	// Four dispatches need at least three spacing intervals
	assert.GreaterOrEqual(t, last.Sub(first), 50*time.Millisecond)
}

func TestQueue_CanceledContext(t *testing.T) {
	q := ratelimit.NewQueue(fastConfig(1, 1, 1), adapter.NewClock())
	defer func() { _ = q.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Submit(ctx, func(ctx context.Context) (interface{}, error) {
		t.Fatal("canceled task must not run")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueue_SubmitAfterClose(t *testing.T) {
	q := ratelimit.NewQueue(fastConfig(1, 1, 1), adapter.NewClock())
	require.NoError(t, q.Close())

	_, err := q.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ratelimit.ErrQueueClosed)
}
