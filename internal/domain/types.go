package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction selects one side of an address's transfer ledger
type Direction string

const (
	// DirectionFrom selects transfers sent by the address
	DirectionFrom Direction = "from"
	// DirectionTo selects transfers received by the address
	DirectionTo Direction = "to"
)

// Valid checks if the direction is one of the known values
func (d Direction) Valid() bool {
	return d == DirectionFrom || d == DirectionTo
}

// TransferRecord is one NFT transfer observed on a ledger page
type TransferRecord struct {
	Identity    NFTIdentity `json:"identity"`
	From        string      `json:"from"`
	To          string      `json:"to"`
	Timestamp   int64       `json:"timestamp"`
	BlockNumber uint64      `json:"block_number"`
}

// HasPosition reports whether the record carries a usable timestamp or block number
func (r TransferRecord) HasPosition() bool {
	return r.Timestamp > 0 || r.BlockNumber > 0
}

// IsDelegation reports whether the record moves a token from the wallet to the custodian
func (r TransferRecord) IsDelegation(wallet, custodian string) bool {
	return SameAddress(r.From, wallet) && SameAddress(r.To, custodian)
}

// IsReturn reports whether the record moves a token from the custodian back to the wallet
func (r TransferRecord) IsReturn(wallet, custodian string) bool {
	return SameAddress(r.From, custodian) && SameAddress(r.To, wallet)
}

// TransferHistory groups custodian-related transfer records by identity.
// Order keeps the identities in first-seen order so iteration is deterministic.
type TransferHistory struct {
	Records map[NFTIdentity][]TransferRecord
	Order   []NFTIdentity
}

// NewTransferHistory creates an empty history
func NewTransferHistory() *TransferHistory {
	return &TransferHistory{Records: make(map[NFTIdentity][]TransferRecord)}
}

// Add appends a record to the identity's sequence
func (h *TransferHistory) Add(record TransferRecord) {
	if _, ok := h.Records[record.Identity]; !ok {
		h.Order = append(h.Order, record.Identity)
	}
	h.Records[record.Identity] = append(h.Records[record.Identity], record)
}

// CustodyStatus is the derived custody state of one identity
type CustodyStatus string

const (
	CustodyDelegated    CustodyStatus = "delegated"
	CustodyNotDelegated CustodyStatus = "not_delegated"
)

// TokenStandard is the NFT standard of a holding
type TokenStandard string

const (
	StandardERC721  TokenStandard = "ERC721"
	StandardERC1155 TokenStandard = "ERC1155"
)

// ParseTokenStandard maps indexer type strings onto a standard, defaulting to ERC721
func ParseTokenStandard(s string) TokenStandard {
	switch s {
	case "ERC1155", "erc1155", "ERC-1155", "erc-1155":
		return StandardERC1155
	default:
		return StandardERC721
	}
}

// HoldingRecord is one NFT held by a wallet, directly or through the custodian
type HoldingRecord struct {
	Identity  NFTIdentity   `json:"identity"`
	TokenURI  string        `json:"token_uri"`
	Name      string        `json:"name"`
	Symbol    string        `json:"symbol"`
	Image     string        `json:"image"`
	Balance   string        `json:"balance"`
	Standard  TokenStandard `json:"standard"`
	Delegated bool          `json:"delegated"`
}

// HasMetadata reports whether the record carries indexer metadata rather than placeholders
func (h HoldingRecord) HasMetadata() bool {
	return !h.Delegated && (h.TokenURI != "" || h.Image != "" || h.Name != "")
}

// FetchStatus tells an empty-because-confirmed result apart from an empty-because-failed one
type FetchStatus string

const (
	// FetchComplete means the source was paged to exhaustion
	FetchComplete FetchStatus = "complete"
	// FetchTruncated means paging stopped at the page cap
	FetchTruncated FetchStatus = "truncated"
	// FetchFailed means the source failed; any data returned is what was accumulated before the failure
	FetchFailed FetchStatus = "failed"
)

// ClaimData holds the per-token allocation and consumption figures.
// All amounts are human-scale decimals (already divided by the token's decimals).
type ClaimData struct {
	AllocationPerToken decimal.Decimal `json:"allocationPerToken"`
	Consumed           decimal.Decimal `json:"consumed"`
	Claimed            decimal.Decimal `json:"claimed"`
	PartPercentage     decimal.Decimal `json:"partPercentage"`
	InitUnlock         decimal.Decimal `json:"initUnlock"`
}

// DefaultClaimData returns the figures used when no source could resolve a token
func DefaultClaimData() ClaimData {
	return ClaimData{
		AllocationPerToken: decimal.Zero,
		Consumed:           decimal.Zero,
		Claimed:            decimal.Zero,
		PartPercentage:     decimal.RequireFromString(DEFAULT_PART_PERCENTAGE),
		InitUnlock:         decimal.Zero,
	}
}

// ClaimSource names where a ClaimData value came from
type ClaimSource string

const (
	ClaimSourceCache    ClaimSource = "cache"
	ClaimSourceContract ClaimSource = "contract"
	ClaimSourceDefault  ClaimSource = "default"
)

// RewardInfo holds the reward and time fields the subgraph reports for one token
type RewardInfo struct {
	TokenID         string          `json:"token_id"`
	TotalReward     decimal.Decimal `json:"total_reward"`
	DelegatedTime   int64           `json:"delegated_time"`
	ApprovedTime    int64           `json:"approved_time"`
	UndelegatedTime int64           `json:"undelegated_time"`
	LastUpdatedTime int64           `json:"last_updated_time"`
}

// MilestoneStatus is the position of a milestone relative to the current time
type MilestoneStatus string

const (
	MilestonePast     MilestoneStatus = "past"
	MilestoneCurrent  MilestoneStatus = "current"
	MilestoneUpcoming MilestoneStatus = "upcoming"
)

// Milestone is one entry of the claim schedule
type Milestone struct {
	Date            time.Time       `json:"date"`
	PenaltyPercent  int             `json:"penalty_percent"`
	ClaimableAmount decimal.Decimal `json:"claimable_amount"`
	Status          MilestoneStatus `json:"status"`
}

// VestingState is the derived claim view of one token
type VestingState struct {
	TokenID        string          `json:"token_id"`
	TotalAllocated decimal.Decimal `json:"total_allocated"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
	TotalClaimed   decimal.Decimal `json:"total_claimed"`
	PartPercentage decimal.Decimal `json:"part_percentage"`
	Part1Total     decimal.Decimal `json:"part1_total"`
	Part1Remaining decimal.Decimal `json:"part1_remaining"`
	Part2Total     decimal.Decimal `json:"part2_total"`
	Part2Remaining decimal.Decimal `json:"part2_remaining"`
	Milestones     []Milestone     `json:"milestones"`
}
