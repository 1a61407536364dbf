package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var tokenIDPattern = regexp.MustCompile(`^[0-9]+$`)

// NFTIdentity names one NFT: a contract address and a token id.
// Both parts are stored lower-cased so the struct itself is usable as a map key.
type NFTIdentity struct {
	Contract string `json:"contract"`
	TokenID  string `json:"token_id"`
}

// NewNFTIdentity builds a case-normalized identity
func NewNFTIdentity(contract, tokenID string) NFTIdentity {
	return NFTIdentity{
		Contract: NormalizeAddress(contract),
		TokenID:  strings.ToLower(strings.TrimSpace(tokenID)),
	}
}

// Key returns the join key of the identity
func (i NFTIdentity) Key() string {
	return i.Contract + ":" + i.TokenID
}

func (i NFTIdentity) String() string {
	return i.Key()
}

// Valid reports whether both parts of the identity are present
func (i NFTIdentity) Valid() bool {
	return i.Contract != "" && i.TokenID != ""
}

// NormalizeAddress lower-cases an address. Hex addresses are round-tripped through
// go-ethereum so short or mixed-case forms collapse to the same 20-byte value.
func NormalizeAddress(address string) string {
	address = strings.TrimSpace(address)
	if common.IsHexAddress(address) {
		return strings.ToLower(common.HexToAddress(address).Hex())
	}
	return strings.ToLower(address)
}

// ValidateAddress normalizes an address and rejects anything that is not a 20-byte hex address
func ValidateAddress(address string) (string, error) {
	if !common.IsHexAddress(strings.TrimSpace(address)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return NormalizeAddress(address), nil
}

// ValidateTokenID trims a token id and rejects anything that is not a decimal number
func ValidateTokenID(tokenID string) (string, error) {
	tokenID = strings.TrimSpace(tokenID)
	if !tokenIDPattern.MatchString(tokenID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTokenID, tokenID)
	}
	return tokenID, nil
}

// SameAddress compares two addresses after normalization
func SameAddress(a, b string) bool {
	return NormalizeAddress(a) == NormalizeAddress(b)
}
