package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWallet    = "0x1111111111111111111111111111111111111111"
	testCustodian = "0x2222222222222222222222222222222222222222"
)

func TestNewNFTIdentity(t *testing.T) {
	tests := []struct {
		name     string
		contract string
		tokenID  string
		expected string
	}{
		{
			name:     "mixed case contract",
			contract: "0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D",
			tokenID:  "1",
			expected: "0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d:1",
		},
		{
			name:     "surrounding whitespace",
			contract: "  0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d ",
			tokenID:  " 42 ",
			expected: "0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d:42",
		},
		{
			name:     "non hex contract is only lower-cased",
			contract: "KT1ABC",
			tokenID:  "7",
			expected: "kt1abc:7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := NewNFTIdentity(tt.contract, tt.tokenID)
			assert.Equal(t, tt.expected, id.Key())
			assert.True(t, id.Valid())
		})
	}
}

func TestNFTIdentity_EqualityIsCaseInsensitive(t *testing.T) {
	a := NewNFTIdentity("0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D", "1")
	b := NewNFTIdentity("0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d", "1")
	assert.Equal(t, a, b)

	m := map[NFTIdentity]bool{a: true}
	assert.True(t, m[b])
}

func TestValidateAddress(t *testing.T) {
	addr, err := ValidateAddress("0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, testWallet, addr)

	_, err = ValidateAddress("not-an-address")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = ValidateAddress("")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestValidateTokenID(t *testing.T) {
	id, err := ValidateTokenID(" 123 ")
	require.NoError(t, err)
	assert.Equal(t, "123", id)

	for _, bad := range []string{"", "abc", "-1", "1.5"} {
		_, err := ValidateTokenID(bad)
		assert.ErrorIs(t, err, ErrInvalidTokenID, bad)
	}
}

func TestTransferRecord_Direction(t *testing.T) {
	delegation := TransferRecord{From: testWallet, To: "0x2222222222222222222222222222222222222222"}
	assert.True(t, delegation.IsDelegation(testWallet, testCustodian))
	assert.False(t, delegation.IsReturn(testWallet, testCustodian))

	ret := TransferRecord{From: "0x2222222222222222222222222222222222222222", To: "0x1111111111111111111111111111111111111111"}
	assert.True(t, ret.IsReturn(testWallet, testCustodian))
	assert.False(t, ret.IsDelegation(testWallet, testCustodian))
}

func TestTransferRecord_HasPosition(t *testing.T) {
	assert.False(t, TransferRecord{}.HasPosition())
	assert.True(t, TransferRecord{Timestamp: 1}.HasPosition())
	assert.True(t, TransferRecord{BlockNumber: 1}.HasPosition())
}

func TestTransferHistory_KeepsFirstSeenOrder(t *testing.T) {
	h := NewTransferHistory()
	b := NewNFTIdentity(testWallet, "2")
	a := NewNFTIdentity(testWallet, "1")

	h.Add(TransferRecord{Identity: b, Timestamp: 1})
	h.Add(TransferRecord{Identity: a, Timestamp: 2})
	h.Add(TransferRecord{Identity: b, Timestamp: 3})

	assert.Equal(t, []NFTIdentity{b, a}, h.Order)
	assert.Len(t, h.Records[b], 2)
	assert.Len(t, h.Records[a], 1)
}

func TestParseTokenStandard(t *testing.T) {
	assert.Equal(t, StandardERC1155, ParseTokenStandard("ERC1155"))
	assert.Equal(t, StandardERC1155, ParseTokenStandard("erc-1155"))
	assert.Equal(t, StandardERC721, ParseTokenStandard("ERC721"))
	assert.Equal(t, StandardERC721, ParseTokenStandard(""))
}

func TestDefaultClaimData(t *testing.T) {
	d := DefaultClaimData()
	assert.True(t, d.AllocationPerToken.IsZero())
	assert.Equal(t, "0.33", d.PartPercentage.String())
}

func TestIdentitySet_ClaimIsExclusive(t *testing.T) {
	id := NewNFTIdentity(testWallet, "1")
	set := NewIdentitySet()

	var wg sync.WaitGroup
	var mu sync.Mutex
	claimed := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if set.Claim(id) {
				mu.Lock()
				claimed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, claimed)
	assert.True(t, set.Has(id))
	assert.Equal(t, 1, set.Len())
}
