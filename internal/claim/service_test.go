package claim_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-holdings-reconciler/internal/claim"
	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
	"github.com/feral-file/ff-holdings-reconciler/internal/mocks"
	"github.com/feral-file/ff-holdings-reconciler/internal/rewards"
	"github.com/feral-file/ff-holdings-reconciler/internal/vesting"
)

// testServiceMocks contains all the mocks needed for testing the claim service
type testServiceMocks struct {
	ctrl    *gomock.Controller
	claims  *mocks.MockClaimAggregator
	rewards *mocks.MockRewardsAggregator
	clock   *mocks.MockClock
}

func setupTestService(t *testing.T) (*testServiceMocks, claim.Service) {
	ctrl := gomock.NewController(t)
	tm := &testServiceMocks{
		ctrl:    ctrl,
		claims:  mocks.NewMockClaimAggregator(ctrl),
		rewards: mocks.NewMockRewardsAggregator(ctrl),
		clock:   mocks.NewMockClock(ctrl),
	}
	tm.clock.EXPECT().Now().Return(time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)).AnyTimes()

	return tm, claim.NewService(tm.claims, tm.rewards, vesting.DefaultSchedule(), tm.clock)
}

func TestService_Vesting(t *testing.T) {
	tm, svc := setupTestService(t)
	defer tm.ctrl.Finish()

	ids := []string{"1", "2", "3"}
	tm.claims.EXPECT().
		ResolveMany(gomock.Any(), ids).
		Return(map[string]claim.Result{
			"1": {TokenID: "1", Source: domain.ClaimSourceContract, Data: domain.ClaimData{
				AllocationPerToken: dec("854.70"),
				Consumed:           dec("100"),
				PartPercentage:     dec("0.33"),
			}},
			"2": {TokenID: "2", Source: domain.ClaimSourceCache, Data: domain.ClaimData{AllocationPerToken: dec("100")}},
		})
	tm.rewards.EXPECT().
		ResolveMany(gomock.Any(), ids).
		Return(rewards.Result{
			Rewards:      map[string]domain.RewardInfo{"1": {TokenID: "1", TotalReward: dec("50")}},
			Chunks:       1,
			FailedChunks: 0,
		})

	view, err := svc.Vesting(context.Background(), []string{"1", " 2", "3", "1"})
	require.NoError(t, err)
	require.Len(t, view.Tokens, 3)
	assert.Equal(t, 1, view.RewardChunks)

	first := view.Tokens[0]
	assert.Equal(t, "1", first.TokenID)
	assert.Equal(t, domain.ClaimSourceContract, first.Source)
	assert.True(t, first.RewardKnown)
	assert.True(t, first.TotalRemaining.Equal(dec("704.70")))
	assert.True(t, first.TotalClaimed.Equal(dec("150")))
	assert.Equal(t, domain.MilestoneCurrent, first.Milestones[1].Status)

	second := view.Tokens[1]
	assert.Equal(t, domain.ClaimSourceCache, second.Source)
	assert.False(t, second.RewardKnown)
	// No part percentage reported: the default split applies
	assert.True(t, second.Part1Total.Equal(dec("33")))

	third := view.Tokens[2]
	assert.Equal(t, "3", third.TokenID)
	assert.Equal(t, domain.ClaimSourceDefault, third.Source)
	assert.True(t, third.TotalAllocated.IsZero())
}

func TestService_Vesting_Preconditions(t *testing.T) {
	tm, svc := setupTestService(t)
	defer tm.ctrl.Finish()

	_, err := svc.Vesting(context.Background(), nil)
	assert.ErrorIs(t, err, claim.ErrNoTokens)

	_, err = svc.Vesting(context.Background(), []string{"1", "0xabc"})
	assert.ErrorIs(t, err, domain.ErrInvalidTokenID)
}

func TestService_VestingOf(t *testing.T) {
	tm, svc := setupTestService(t)
	defer tm.ctrl.Finish()

	tm.claims.EXPECT().
		Resolve(gomock.Any(), "42").
		Return(claim.Result{TokenID: "42", Source: domain.ClaimSourceCache, Data: domain.ClaimData{
			AllocationPerToken: dec("854.70"),
			Consumed:           dec("100"),
			PartPercentage:     dec("0.33"),
		}})
	tm.rewards.EXPECT().
		Resolve(gomock.Any(), "42").
		Return(domain.RewardInfo{TokenID: "42", TotalReward: dec("50")}, true)

	entry, err := svc.VestingOf(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, entry.RewardKnown)
	assert.True(t, entry.Part2Remaining.Equal(dec("522.649")))

	// The entry serializes flat, with the vesting fields next to the source
	raw, err := json.Marshal(entry)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "42", decoded["token_id"])
	assert.Equal(t, "cache", decoded["source"])
	assert.Equal(t, true, decoded["reward_known"])
	assert.Equal(t, "522.649", decoded["part2_remaining"])

	_, err = svc.VestingOf(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidTokenID)
}
