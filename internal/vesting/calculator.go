package vesting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
)

// CURRENT_WINDOW is how long before its date a milestone counts as current
const CURRENT_WINDOW = 7 * 24 * time.Hour

var (
	// DefaultMilestoneDates is the claim calendar
	DefaultMilestoneDates = []time.Time{
		time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2027, time.January, 15, 0, 0, 0, 0, time.UTC),
	}

	penaltyPercents    = []int{60, 50, 35, 20, 0}
	claimableFractions = []decimal.Decimal{
		decimal.RequireFromString("0.19"),
		decimal.RequireFromString("0.215"),
		decimal.RequireFromString("0.25"),
		decimal.RequireFromString("0.284"),
		decimal.RequireFromString("0.33"),
	}
)

// Tier is one entry of the milestone calendar
type Tier struct {
	Date           time.Time
	PenaltyPercent int
	Fraction       decimal.Decimal
}

// Schedule is the fixed five-tier milestone calendar
type Schedule []Tier

// NewSchedule pairs five dates with the penalty and claimable-fraction tiers
func NewSchedule(dates []time.Time) (Schedule, error) {
	if len(dates) != len(penaltyPercents) {
		return nil, fmt.Errorf("milestone schedule needs %d dates, got %d", len(penaltyPercents), len(dates))
	}

	s := make(Schedule, len(dates))
	for i, d := range dates {
		if i > 0 && !d.After(dates[i-1]) {
			return nil, fmt.Errorf("milestone dates must be increasing: %s after %s", d.Format(time.DateOnly), dates[i-1].Format(time.DateOnly))
		}
		s[i] = Tier{Date: d, PenaltyPercent: penaltyPercents[i], Fraction: claimableFractions[i]}
	}
	return s, nil
}

// DefaultSchedule returns the calendar built from DefaultMilestoneDates
func DefaultSchedule() Schedule {
	s, _ := NewSchedule(DefaultMilestoneDates)
	return s
}

// Input holds the figures one token's vesting state is derived from
type Input struct {
	TokenID            string
	AllocationPerToken decimal.Decimal
	Consumed           decimal.Decimal
	// PartPercentage falls back to the default split when not valid
	PartPercentage decimal.NullDecimal
	TotalReward    decimal.Decimal
}

// InputFrom builds an input from resolved claim data and an optional reward
func InputFrom(tokenID string, data domain.ClaimData, reward *domain.RewardInfo) Input {
	in := Input{
		TokenID:            tokenID,
		AllocationPerToken: data.AllocationPerToken,
		Consumed:           data.Consumed,
		PartPercentage:     decimal.NullDecimal{Decimal: data.PartPercentage, Valid: !data.PartPercentage.IsZero()},
	}
	if reward != nil {
		in.TotalReward = reward.TotalReward
	}
	return in
}

// MilestoneStatus places a milestone date relative to now
func MilestoneStatus(date, now time.Time) domain.MilestoneStatus {
	switch {
	case !now.Before(date):
		return domain.MilestonePast
	case !now.Before(date.Add(-CURRENT_WINDOW)):
		return domain.MilestoneCurrent
	default:
		return domain.MilestoneUpcoming
	}
}

// Calculate derives the vesting state with the default calendar
func Calculate(in Input, now time.Time) domain.VestingState {
	return DefaultSchedule().Calculate(in, now)
}

// Calculate derives the vesting state of one token. Claimed is not floored at zero.
func (s Schedule) Calculate(in Input, now time.Time) domain.VestingState {
	p := decimal.RequireFromString(domain.DEFAULT_PART_PERCENTAGE)
	if in.PartPercentage.Valid {
		p = in.PartPercentage.Decimal
	}

	a := in.AllocationPerToken
	part1Total := a.Mul(p)
	part2Total := a.Mul(decimal.NewFromInt(1).Sub(p))
	part1Remaining := decimal.Max(decimal.Zero, part1Total.Sub(in.Consumed))
	part2Remaining := decimal.Max(decimal.Zero, part2Total.Sub(in.TotalReward))
	totalRemaining := part1Remaining.Add(part2Remaining)

	milestones := make([]domain.Milestone, len(s))
	for i, tier := range s {
		milestones[i] = domain.Milestone{
			Date:            tier.Date,
			PenaltyPercent:  tier.PenaltyPercent,
			ClaimableAmount: totalRemaining.Mul(tier.Fraction),
			Status:          MilestoneStatus(tier.Date, now),
		}
	}

	return domain.VestingState{
		TokenID:        in.TokenID,
		TotalAllocated: a,
		TotalRemaining: totalRemaining,
		TotalClaimed:   a.Sub(totalRemaining),
		PartPercentage: p,
		Part1Total:     part1Total,
		Part1Remaining: part1Remaining,
		Part2Total:     part2Total,
		Part2Remaining: part2Remaining,
		Milestones:     milestones,
	}
}
