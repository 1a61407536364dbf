package claim

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-holdings-reconciler/internal/adapter"
	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
	"github.com/feral-file/ff-holdings-reconciler/internal/rewards"
	"github.com/feral-file/ff-holdings-reconciler/internal/vesting"
)

// ErrNoTokens is returned when a vesting request names no token
var ErrNoTokens = errors.New("no token ids given")

// Entry is the claim view of one token
type Entry struct {
	domain.VestingState
	Source      domain.ClaimSource `json:"source"`
	RewardKnown bool               `json:"reward_known"`
}

// View is the claim view of a token set
type View struct {
	Tokens             []Entry `json:"tokens"`
	RewardChunks       int     `json:"reward_chunks"`
	FailedRewardChunks int     `json:"failed_reward_chunks"`
}

// Service builds claim views
//
//go:generate mockgen -source=service.go -destination=../mocks/claim_service.go -package=mocks -mock_names=Service=MockClaimService
type Service interface {
	// Vesting returns the vesting state of every distinct token, in first-seen order.
	// Only an empty list or an invalid token id is an error.
	Vesting(ctx context.Context, tokenIDs []string) (*View, error)

	// VestingOf returns the vesting state of one token using the single-token lookups
	VestingOf(ctx context.Context, tokenID string) (*Entry, error)
}

type service struct {
	claims   Aggregator
	rewards  rewards.Aggregator
	schedule vesting.Schedule
	clock    adapter.Clock
}

// NewService creates a claim view service
func NewService(claims Aggregator, rewardsAggregator rewards.Aggregator, schedule vesting.Schedule, clock adapter.Clock) Service {
	if len(schedule) == 0 {
		schedule = vesting.DefaultSchedule()
	}
	return &service{
		claims:   claims,
		rewards:  rewardsAggregator,
		schedule: schedule,
		clock:    clock,
	}
}

// Vesting returns the vesting state of every distinct token
func (s *service) Vesting(ctx context.Context, tokenIDs []string) (*View, error) {
	ids, err := normalizeTokenIDs(tokenIDs)
	if err != nil {
		return nil, err
	}
	if logger.RunID(ctx) == "" {
		ctx = logger.WithRunID(ctx)
	}

	var (
		claims map[string]Result
		reward rewards.Result
		wg     sync.WaitGroup
	)
	// The two sources share nothing and are read concurrently
	wg.Add(2)
	go func() {
		defer wg.Done()
		claims = s.claims.ResolveMany(ctx, ids)
	}()
	go func() {
		defer wg.Done()
		reward = s.rewards.ResolveMany(ctx, ids)
	}()
	wg.Wait()

	now := s.clock.Now()
	view := &View{
		Tokens:             make([]Entry, 0, len(ids)),
		RewardChunks:       reward.Chunks,
		FailedRewardChunks: reward.FailedChunks,
	}

	sources := make(map[domain.ClaimSource]int)
	for _, id := range ids {
		r, ok := claims[id]
		if !ok {
			r = Result{TokenID: id, Data: domain.DefaultClaimData(), Source: domain.ClaimSourceDefault}
		}
		var info *domain.RewardInfo
		if ri, known := reward.Rewards[id]; known {
			info = &ri
		}

		view.Tokens = append(view.Tokens, s.entry(id, r, info, now))
		sources[r.Source]++
	}

	logger.InfoCtx(ctx, "Vesting reconciled",
		zap.Int("tokens", len(ids)),
		zap.Int("from_cache", sources[domain.ClaimSourceCache]),
		zap.Int("from_contract", sources[domain.ClaimSourceContract]),
		zap.Int("defaulted", sources[domain.ClaimSourceDefault]),
		zap.Int("rewards_known", len(reward.Rewards)),
		zap.Int("failed_reward_chunks", reward.FailedChunks),
	)

	return view, nil
}

// VestingOf returns the vesting state of one token
func (s *service) VestingOf(ctx context.Context, tokenID string) (*Entry, error) {
	tokenID, err := domain.ValidateTokenID(tokenID)
	if err != nil {
		return nil, err
	}
	if logger.RunID(ctx) == "" {
		ctx = logger.WithRunID(ctx)
	}

	var (
		r     Result
		info  domain.RewardInfo
		known bool
		wg    sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		r = s.claims.Resolve(ctx, tokenID)
	}()
	go func() {
		defer wg.Done()
		info, known = s.rewards.Resolve(ctx, tokenID)
	}()
	wg.Wait()

	var reward *domain.RewardInfo
	if known {
		reward = &info
	}

	entry := s.entry(tokenID, r, reward, s.clock.Now())
	return &entry, nil
}

func (s *service) entry(tokenID string, r Result, reward *domain.RewardInfo, now time.Time) Entry {
	return Entry{
		VestingState: s.schedule.Calculate(vesting.InputFrom(tokenID, r.Data, reward), now),
		Source:       r.Source,
		RewardKnown:  reward != nil,
	}
}

// normalizeTokenIDs validates every id and drops repeats, keeping first-seen order
func normalizeTokenIDs(tokenIDs []string) ([]string, error) {
	if len(tokenIDs) == 0 {
		return nil, ErrNoTokens
	}

	seen := make(map[string]struct{}, len(tokenIDs))
	ids := make([]string, 0, len(tokenIDs))
	for _, raw := range tokenIDs {
		id, err := domain.ValidateTokenID(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
