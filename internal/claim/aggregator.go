package claim

import (
	"context"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-holdings-reconciler/internal/adapter"
	"github.com/feral-file/ff-holdings-reconciler/internal/config"
	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
	"github.com/feral-file/ff-holdings-reconciler/internal/providers/cache"
	"github.com/feral-file/ff-holdings-reconciler/internal/providers/ethereum"
	"github.com/feral-file/ff-holdings-reconciler/internal/ratelimit"
)

// Result is the claim data of one token and where it came from
type Result struct {
	TokenID string             `json:"token_id"`
	Data    domain.ClaimData   `json:"data"`
	Source  domain.ClaimSource `json:"source"`
}

// Aggregator resolves claim data from the cache, then the vesting contract, then defaults
//
//go:generate mockgen -source=aggregator.go -destination=../mocks/claim_aggregator.go -package=mocks -mock_names=Aggregator=MockClaimAggregator
type Aggregator interface {
	// Resolve returns the claim data of one token. It always returns a value.
	Resolve(ctx context.Context, tokenID string) Result

	// ResolveMany looks the tokens up in one cache batch and resolves the misses concurrently
	ResolveMany(ctx context.Context, tokenIDs []string) map[string]Result
}

type aggregator struct {
	cache          cache.Client
	contract       ethereum.VestingContract
	queue          ratelimit.Queue
	clock          adapter.Clock
	maxAttempts    int
	retryBase      time.Duration
	callSpacing    time.Duration
	workerPoolSize int
}

// NewAggregator creates a claim data aggregator. cache may be nil when no cache backend is configured.
// The queue is shared with every other caller of the contract.
func NewAggregator(
	cacheClient cache.Client,
	contract ethereum.VestingContract,
	queue ratelimit.Queue,
	clock adapter.Clock,
	cfg config.ClaimsConfig,
	callSpacing time.Duration,
) Aggregator {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	retryBase := cfg.RetryBase
	if retryBase <= 0 {
		retryBase = time.Second
	}
	workerPoolSize := cfg.WorkerPoolSize
	if workerPoolSize <= 0 {
		workerPoolSize = 16
	}

	return &aggregator{
		cache:          cacheClient,
		contract:       contract,
		queue:          queue,
		clock:          clock,
		maxAttempts:    maxAttempts,
		retryBase:      retryBase,
		callSpacing:    callSpacing,
		workerPoolSize: workerPoolSize,
	}
}

// Resolve returns the claim data of one token
func (a *aggregator) Resolve(ctx context.Context, tokenID string) Result {
	if a.cache != nil {
		data, found, err := a.cache.Get(ctx, tokenID)
		switch {
		case err != nil:
			logger.WarnCtx(ctx, "Claim cache lookup failed", zap.String("token_id", tokenID), zap.Error(err))
		case found:
			return Result{TokenID: tokenID, Data: data, Source: domain.ClaimSourceCache}
		}
	}

	return a.resolveUncached(ctx, tokenID)
}

// ResolveMany looks the tokens up in one cache batch and resolves the misses concurrently
func (a *aggregator) ResolveMany(ctx context.Context, tokenIDs []string) map[string]Result {
	results := make(map[string]Result, len(tokenIDs))
	if len(tokenIDs) == 0 {
		return results
	}

	if a.cache != nil {
		cached, err := a.cache.GetMany(ctx, tokenIDs)
		if err != nil {
			logger.WarnCtx(ctx, "Claim cache batch lookup failed", zap.Int("tokens", len(tokenIDs)), zap.Error(err))
		}
		for tokenID, data := range cached {
			results[tokenID] = Result{TokenID: tokenID, Data: data, Source: domain.ClaimSourceCache}
		}
	}

	var misses []string
	for _, tokenID := range tokenIDs {
		if _, ok := results[tokenID]; !ok {
			misses = append(misses, tokenID)
		}
	}
	if len(misses) == 0 {
		return results
	}

	var mu sync.Mutex
	pool := pond.NewPool(min(a.workerPoolSize, len(misses)))
	for _, tokenID := range misses {
		pool.Submit(func() {
			r := a.resolveUncached(ctx, tokenID)
			mu.Lock()
			results[tokenID] = r
			mu.Unlock()
		})
	}
	pool.StopAndWait()

	return results
}

// resolveUncached reads the contract through the queue with bounded retries, falling back to defaults
func (a *aggregator) resolveUncached(ctx context.Context, tokenID string) Result {
	if _, err := domain.ValidateTokenID(tokenID); err != nil {
		logger.WarnCtx(ctx, "Skipping contract read for invalid token id", zap.String("token_id", tokenID))
		return Result{TokenID: tokenID, Data: domain.DefaultClaimData(), Source: domain.ClaimSourceDefault}
	}

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		read, err := ratelimit.Submit(ctx, a.queue, func(ctx context.Context) (contractRead, error) {
			return a.readContract(ctx, tokenID)
		})
		if err == nil {
			// Partial reads are served but never cached
			if !read.partial {
				a.store(ctx, tokenID, read.data)
			}
			return Result{TokenID: tokenID, Data: read.data, Source: domain.ClaimSourceContract}
		}

		rateLimited := IsRateLimitError(err)
		logger.WarnCtx(ctx, "Contract read failed",
			zap.String("token_id", tokenID),
			zap.Int("attempt", attempt),
			zap.Bool("rate_limited", rateLimited),
			zap.Error(err),
		)
		if rateLimited {
			a.signalRateLimited()
		}

		if attempt == a.maxAttempts || ctx.Err() != nil {
			break
		}

		var wait time.Duration
		if rateLimited {
			wait = a.retryBase * time.Duration(1<<attempt)
		} else {
			wait = a.retryBase * time.Duration(attempt)
		}
		if !adapter.Sleep(ctx, a.clock, wait) {
			break
		}
	}

	return Result{TokenID: tokenID, Data: domain.DefaultClaimData(), Source: domain.ClaimSourceDefault}
}

// contractRead is one pass over the contract; partial marks a failed claimInfo read
type contractRead struct {
	data    domain.ClaimData
	partial bool
}

// readContract issues the four contract reads spaced by callSpacing.
// A failed claimInfo read leaves consumed and claimed at zero and marks the read partial.
func (a *aggregator) readContract(ctx context.Context, tokenID string) (contractRead, error) {
	data := domain.ClaimData{}

	allocation, err := a.contract.AllocationPerToken(ctx)
	if err != nil {
		return contractRead{}, err
	}
	data.AllocationPerToken = allocation

	if !adapter.Sleep(ctx, a.clock, a.callSpacing) {
		return contractRead{}, ctx.Err()
	}
	part, err := a.contract.PartPercentage(ctx)
	if err != nil {
		return contractRead{}, err
	}
	data.PartPercentage = part

	if !adapter.Sleep(ctx, a.clock, a.callSpacing) {
		return contractRead{}, ctx.Err()
	}
	initUnlock, err := a.contract.InitUnlock(ctx)
	if err != nil {
		return contractRead{}, err
	}
	data.InitUnlock = initUnlock

	if !adapter.Sleep(ctx, a.clock, a.callSpacing) {
		return contractRead{}, ctx.Err()
	}
	consumed, claimed, err := a.contract.ClaimInfo(ctx, tokenID)
	if err != nil {
		if IsRateLimitError(err) {
			a.signalRateLimited()
		}
		logger.WarnCtx(ctx, "claimInfo read failed, assuming nothing consumed", zap.String("token_id", tokenID), zap.Error(err))
		return contractRead{data: data, partial: true}, nil
	}
	data.Consumed = consumed
	data.Claimed = claimed

	return contractRead{data: data}, nil
}

// store writes contract results back to the cache; failures are only logged
func (a *aggregator) store(ctx context.Context, tokenID string, data domain.ClaimData) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Set(ctx, tokenID, data); err != nil {
		logger.WarnCtx(ctx, "Failed to cache claim data", zap.String("token_id", tokenID), zap.Error(err))
	}
}

func (a *aggregator) signalRateLimited() {
	if a.queue != nil {
		a.queue.RateLimited()
	}
}
