package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-holdings-reconciler/internal/adapter"
	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
)

// VestingABI describes the read-only surface of the vesting contract
const VestingABI = `[
	{"constant":true,"inputs":[],"name":"allocationPerToken","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"part1Percentage","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"initUnlock","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"claimInfo","outputs":[{"name":"consumed","type":"uint256"},{"name":"claimed","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}
]`

// DEFAULT_CALL_TIMEOUT bounds one contract call when no timeout is configured
const DEFAULT_CALL_TIMEOUT = 30 * time.Second

// percentageDecimals is the fixed-point scale of part1Percentage (1e18 == 100%)
const percentageDecimals = 18

// VestingContract reads per-token claim figures from the vesting contract
//
//go:generate mockgen -source=client.go -destination=../../mocks/vesting_contract.go -package=mocks -mock_names=VestingContract=MockVestingContract
type VestingContract interface {
	// AllocationPerToken returns the total allocation assigned to each token
	AllocationPerToken(ctx context.Context) (decimal.Decimal, error)

	// PartPercentage returns the part 1 share of an allocation in [0,1]
	PartPercentage(ctx context.Context) (decimal.Decimal, error)

	// InitUnlock returns the amount unlocked at start
	InitUnlock(ctx context.Context) (decimal.Decimal, error)

	// ClaimInfo returns the consumed and claimed amounts of one token
	ClaimInfo(ctx context.Context, tokenID string) (consumed decimal.Decimal, claimed decimal.Decimal, err error)
}

type vestingContract struct {
	client   adapter.EthClient
	address  common.Address
	abi      abi.ABI
	decimals int32
	timeout  time.Duration
}

// NewVestingContract creates a reader bound to the contract at address.
// Every call is bounded by callTimeout, or DEFAULT_CALL_TIMEOUT when it is not positive.
func NewVestingContract(client adapter.EthClient, address string, decimals int32, callTimeout time.Duration) (VestingContract, error) {
	if callTimeout <= 0 {
		callTimeout = DEFAULT_CALL_TIMEOUT
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: vesting contract %q", domain.ErrInvalidAddress, address)
	}

	parsed, err := abi.JSON(strings.NewReader(VestingABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	return &vestingContract{
		client:   client,
		address:  common.HexToAddress(address),
		abi:      parsed,
		decimals: decimals,
		timeout:  callTimeout,
	}, nil
}

// AllocationPerToken returns the total allocation assigned to each token
func (c *vestingContract) AllocationPerToken(ctx context.Context) (decimal.Decimal, error) {
	v, err := c.callUint(ctx, "allocationPerToken")
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(v, -c.decimals), nil
}

// PartPercentage returns the part 1 share of an allocation in [0,1]
func (c *vestingContract) PartPercentage(ctx context.Context) (decimal.Decimal, error) {
	v, err := c.callUint(ctx, "part1Percentage")
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(v, -percentageDecimals), nil
}

// InitUnlock returns the amount unlocked at start
func (c *vestingContract) InitUnlock(ctx context.Context) (decimal.Decimal, error) {
	v, err := c.callUint(ctx, "initUnlock")
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(v, -c.decimals), nil
}

// ClaimInfo returns the consumed and claimed amounts of one token
func (c *vestingContract) ClaimInfo(ctx context.Context, tokenID string) (decimal.Decimal, decimal.Decimal, error) {
	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInvalidTokenID, tokenID)
	}

	out, err := c.call(ctx, "claimInfo", id)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if len(out) != 2 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: claimInfo returned %d values", domain.ErrMalformedResponse, len(out))
	}

	consumed, ok1 := out[0].(*big.Int)
	claimed, ok2 := out[1].(*big.Int)
	if !ok1 || !ok2 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: claimInfo returned non-integer values", domain.ErrMalformedResponse)
	}

	return decimal.NewFromBigInt(consumed, -c.decimals), decimal.NewFromBigInt(claimed, -c.decimals), nil
}

// callUint calls a no-argument method returning a single uint256
func (c *vestingContract) callUint(ctx context.Context, method string) (*big.Int, error) {
	out, err := c.call(ctx, method)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%w: %s returned %d values", domain.ErrMalformedResponse, method, len(out))
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned a non-integer value", domain.ErrMalformedResponse, method)
	}
	return v, nil
}

// call packs, executes and unpacks one read-only contract call
func (c *vestingContract) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &c.address,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}

	out, err := c.abi.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to unpack %s: %v", domain.ErrMalformedResponse, method, err)
	}

	return out, nil
}
