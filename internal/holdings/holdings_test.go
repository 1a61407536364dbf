package holdings_test

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-holdings-reconciler/internal/config"
	"github.com/feral-file/ff-holdings-reconciler/internal/delegation"
	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
	"github.com/feral-file/ff-holdings-reconciler/internal/holdings"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
	"github.com/feral-file/ff-holdings-reconciler/internal/mocks"
	"github.com/feral-file/ff-holdings-reconciler/internal/providers/indexer"
)

const (
	contractA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	contractB = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	contractC = "0xcccccccccccccccccccccccccccccccccccccccc"
	wallet    = "0x1111111111111111111111111111111111111111"
	custodian = "0x2222222222222222222222222222222222222222"
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

func holding(contract, tokenID string, withMetadata bool) domain.HoldingRecord {
	h := domain.HoldingRecord{
		Identity: domain.NewNFTIdentity(contract, tokenID),
		Balance:  "1",
		Standard: domain.StandardERC721,
	}
	if withMetadata {
		h.Name = "Token " + tokenID
		h.TokenURI = "ipfs://" + tokenID
	} else {
		h.Delegated = true
	}
	return h
}

func TestMerge(t *testing.T) {
	direct := []domain.HoldingRecord{
		holding(contractA, "1", true),
		holding(contractA, "2", true),
		holding(contractA, "1", true),
	}
	delegated := []domain.HoldingRecord{
		holding(contractA, "2", false),
		holding(contractA, "3", false),
		{Identity: domain.NFTIdentity{}},
	}

	merged := holdings.Merge(direct, delegated)

	require.Len(t, merged, 3)
	assert.LessOrEqual(t, len(merged), len(direct)+len(delegated))

	seen := make(map[domain.NFTIdentity]bool)
	for _, h := range merged {
		assert.False(t, seen[h.Identity], "duplicate identity %s", h.Identity)
		seen[h.Identity] = true
	}

	// First seen wins: the directly owned record keeps its metadata
	assert.Equal(t, "Token 2", merged[1].Name)
	assert.False(t, merged[1].Delegated)
	assert.True(t, merged[2].Delegated)
}

func TestMerge_PrefersRicherRecord(t *testing.T) {
	placeholder := holding(contractA, "1", false)
	rich := holding(contractA, "1", true)

	merged := holdings.Merge([]domain.HoldingRecord{placeholder, holding(contractA, "2", false)}, []domain.HoldingRecord{rich})

	require.Len(t, merged, 2)
	assert.Equal(t, rich, merged[0])
	assert.Equal(t, "2", merged[1].Identity.TokenID)
}

func TestReconcileCount(t *testing.T) {
	records := []domain.HoldingRecord{
		holding(contractA, "1", true),
		holding(contractA, "2", true),
		holding(contractA, "3", true),
	}

	tests := []struct {
		name     string
		total    int
		expected int
	}{
		{"no total reported", -1, 3},
		{"exact", 3, 3},
		{"excess truncated", 2, 2},
		{"short kept", 5, 3},
		{"zero total", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, holdings.ReconcileCount(context.Background(), records, tt.total), tt.expected)
		})
	}
}

// testServiceMocks contains all the mocks needed for testing the holdings service
type testServiceMocks struct {
	ctrl    *gomock.Controller
	lister  *mocks.MockTokenLister
	fetcher *mocks.MockLedgerFetcher
}

func setupTestService(t *testing.T, allowList []string) (*testServiceMocks, holdings.Service) {
	ctrl := gomock.NewController(t)
	tm := &testServiceMocks{
		ctrl:    ctrl,
		lister:  mocks.NewMockTokenLister(ctrl),
		fetcher: mocks.NewMockLedgerFetcher(ctrl),
	}

	cfg := config.DelegationConfig{
		CustodianAddress: custodian,
		ImageURLTemplate: "https://assets.example.com/nft/%s.png",
		PlaceholderName:  "Delegated NFT #%s",
		Contracts:        allowList,
		WorkerPoolSize:   4,
	}

	svc := holdings.NewService(tm.lister, tm.fetcher, delegation.NewResolver(cfg), cfg, 20)
	return tm, svc
}

func record(contract, tokenID, from, to string, ts int64) domain.TransferRecord {
	return domain.TransferRecord{
		Identity:  domain.NewNFTIdentity(contract, tokenID),
		From:      from,
		To:        to,
		Timestamp: ts,
	}
}

func TestService_Holdings(t *testing.T) {
	tm, svc := setupTestService(t, nil)
	defer tm.ctrl.Finish()

	tm.lister.EXPECT().
		ListTokens(gomock.Any(), wallet).
		Return(indexer.TokenListing{
			Records: []domain.HoldingRecord{holding(contractA, "1", true)},
			Total:   1,
			Status:  domain.FetchComplete,
		})
	tm.lister.EXPECT().
		ListContracts(gomock.Any(), custodian).
		Return([]indexer.ContractBalance{{Contract: contractA}, {Contract: contractB}, {Contract: contractA}}, domain.FetchComplete)

	// Contract A: token 1 is held directly, token 2 delegated then returned, token 3 delegated
	tm.fetcher.EXPECT().
		Fetch(gomock.Any(), contractA, wallet, domain.DirectionFrom, 20).
		Return(indexer.FetchResult{
			Records: []domain.TransferRecord{
				record(contractA, "1", wallet, custodian, 10),
				record(contractA, "2", wallet, custodian, 100),
				record(contractA, "3", wallet, custodian, 100),
			},
			Status: domain.FetchComplete,
			Pages:  1,
		})
	tm.fetcher.EXPECT().
		Fetch(gomock.Any(), contractA, wallet, domain.DirectionTo, 20).
		Return(indexer.FetchResult{
			Records: []domain.TransferRecord{record(contractA, "2", custodian, wallet, 200)},
			Status:  domain.FetchComplete,
			Pages:   1,
		})

	// Contract B: outgoing ledger failed after one delegation was read
	tm.fetcher.EXPECT().
		Fetch(gomock.Any(), contractB, wallet, domain.DirectionFrom, 20).
		Return(indexer.FetchResult{
			Records: []domain.TransferRecord{record(contractB, "9", wallet, custodian, 50)},
			Status:  domain.FetchFailed,
			Pages:   1,
		})
	tm.fetcher.EXPECT().
		Fetch(gomock.Any(), contractB, wallet, domain.DirectionTo, 20).
		Return(indexer.FetchResult{Status: domain.FetchComplete, Pages: 1})

	view, err := svc.Holdings(context.Background(), "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)

	assert.Equal(t, wallet, view.Wallet)
	assert.Equal(t, custodian, view.Custodian)
	assert.Equal(t, 1, view.Direct)
	assert.Equal(t, 2, view.Delegated)
	require.Len(t, view.Holdings, 3)

	keys := make([]string, 0, len(view.Holdings))
	for _, h := range view.Holdings {
		keys = append(keys, h.Identity.Key())
	}
	assert.Equal(t, []string{contractA + ":1", contractA + ":3", contractB + ":9"}, keys)
	assert.False(t, view.Holdings[0].Delegated)
	assert.True(t, view.Holdings[1].Delegated)

	assert.Equal(t, domain.FetchComplete, view.Sources.Tokens)
	assert.Equal(t, domain.FetchComplete, view.Sources.Contracts)
	require.Len(t, view.Sources.Ledgers, 2)
	assert.Equal(t, contractA, view.Sources.Ledgers[0].Contract)
	assert.Equal(t, 1, view.Sources.Ledgers[0].Delegated)
	assert.Equal(t, domain.FetchFailed, view.Sources.Ledgers[1].Outgoing)
}

func TestService_Holdings_DuplicatePagesDedupedBeforeCount(t *testing.T) {
	tm, svc := setupTestService(t, nil)
	defer tm.ctrl.Finish()

	// Token 2 repeats across a page boundary; the reported total counts distinct tokens
	tm.lister.EXPECT().
		ListTokens(gomock.Any(), wallet).
		Return(indexer.TokenListing{
			Records: []domain.HoldingRecord{
				holding(contractA, "1", true),
				holding(contractA, "2", true),
				holding(contractA, "2", true),
				holding(contractA, "3", true),
			},
			Total:  3,
			Status: domain.FetchComplete,
		})
	tm.lister.EXPECT().
		ListContracts(gomock.Any(), custodian).
		Return(nil, domain.FetchComplete)

	view, err := svc.Holdings(context.Background(), wallet)
	require.NoError(t, err)
	require.Len(t, view.Holdings, 3)
	assert.Equal(t, 3, view.Direct)
	assert.Equal(t, contractA+":3", view.Holdings[2].Identity.Key())
}

func TestService_Holdings_AllowList(t *testing.T) {
	tm, svc := setupTestService(t, []string{contractC})
	defer tm.ctrl.Finish()

	tm.lister.EXPECT().
		ListTokens(gomock.Any(), wallet).
		Return(indexer.TokenListing{Total: -1, Status: domain.FetchComplete})
	tm.lister.EXPECT().
		ListContracts(gomock.Any(), custodian).
		Return([]indexer.ContractBalance{{Contract: contractA}, {Contract: contractC}}, domain.FetchComplete)

	tm.fetcher.EXPECT().
		Fetch(gomock.Any(), contractC, wallet, gomock.Any(), 20).
		Return(indexer.FetchResult{Status: domain.FetchComplete}).
		Times(2)

	view, err := svc.Holdings(context.Background(), wallet)
	require.NoError(t, err)
	assert.Empty(t, view.Holdings)
	require.Len(t, view.Sources.Ledgers, 1)
	assert.Equal(t, contractC, view.Sources.Ledgers[0].Contract)
}

func TestService_Holdings_SourcesFailed(t *testing.T) {
	tm, svc := setupTestService(t, nil)
	defer tm.ctrl.Finish()

	tm.lister.EXPECT().
		ListTokens(gomock.Any(), wallet).
		Return(indexer.TokenListing{Total: -1, Status: domain.FetchFailed})
	tm.lister.EXPECT().
		ListContracts(gomock.Any(), custodian).
		Return(nil, domain.FetchFailed)

	view, err := svc.Holdings(context.Background(), wallet)
	require.NoError(t, err)
	assert.Empty(t, view.Holdings)
	assert.Equal(t, domain.FetchFailed, view.Sources.Tokens)
	assert.Equal(t, domain.FetchFailed, view.Sources.Contracts)
}

func TestService_Holdings_ManyContractsNoDuplicates(t *testing.T) {
	tm, svc := setupTestService(t, nil)
	defer tm.ctrl.Finish()

	contracts := make([]indexer.ContractBalance, 0, 10)
	for i := 0; i < 10; i++ {
		contracts = append(contracts, indexer.ContractBalance{Contract: "0x" + strconv.Itoa(1000000+i) + "000000000000000000000000000000000"})
	}

	tm.lister.EXPECT().
		ListTokens(gomock.Any(), wallet).
		Return(indexer.TokenListing{Total: -1, Status: domain.FetchComplete})
	tm.lister.EXPECT().
		ListContracts(gomock.Any(), custodian).
		Return(contracts, domain.FetchComplete)

	// Every contract's ledger reports the same identity; it must be emitted once
	shared := record(contractA, "77", wallet, custodian, 10)
	tm.fetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any(), wallet, domain.DirectionFrom, 20).
		Return(indexer.FetchResult{Records: []domain.TransferRecord{shared}, Status: domain.FetchComplete}).
		Times(10)
	tm.fetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any(), wallet, domain.DirectionTo, 20).
		Return(indexer.FetchResult{Status: domain.FetchComplete}).
		Times(10)

	view, err := svc.Holdings(context.Background(), wallet)
	require.NoError(t, err)
	require.Len(t, view.Holdings, 1)
	assert.Equal(t, "77", view.Holdings[0].Identity.TokenID)
}

func TestService_Holdings_InvalidWallet(t *testing.T) {
	tm, svc := setupTestService(t, nil)
	defer tm.ctrl.Finish()

	_, err := svc.Holdings(context.Background(), "not-an-address")
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}
