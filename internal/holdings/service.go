package holdings

import (
	"context"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-holdings-reconciler/internal/config"
	"github.com/feral-file/ff-holdings-reconciler/internal/delegation"
	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
	"github.com/feral-file/ff-holdings-reconciler/internal/providers/indexer"
)

// ContractResolution reports how the ledger of one candidate contract was read
type ContractResolution struct {
	Contract  string             `json:"contract"`
	Outgoing  domain.FetchStatus `json:"outgoing"`
	Incoming  domain.FetchStatus `json:"incoming"`
	Delegated int                `json:"delegated"`
}

// Sources reports the outcome of every source a holdings view was built from
type Sources struct {
	Tokens    domain.FetchStatus   `json:"tokens"`
	Contracts domain.FetchStatus   `json:"contracts"`
	Ledgers   []ContractResolution `json:"ledgers"`
}

// View is the effective holdings of one wallet
type View struct {
	Wallet    string                 `json:"wallet"`
	Custodian string                 `json:"custodian"`
	Holdings  []domain.HoldingRecord `json:"holdings"`
	Direct    int                    `json:"direct"`
	Delegated int                    `json:"delegated"`
	Sources   Sources                `json:"sources"`
}

// Service builds holdings views
//
//go:generate mockgen -source=service.go -destination=../mocks/holdings_service.go -package=mocks -mock_names=Service=MockHoldingsService
type Service interface {
	// Holdings returns the wallet's direct holdings plus the tokens it has delegated to the custodian.
	// Only an invalid wallet address is an error; source failures are reported in View.Sources.
	Holdings(ctx context.Context, wallet string) (*View, error)
}

type service struct {
	lister          indexer.TokenLister
	fetcher         indexer.LedgerFetcher
	resolver        *delegation.Resolver
	allowList       map[string]struct{}
	transferPageCap int
	workerPoolSize  int
}

// NewService creates a holdings service
func NewService(lister indexer.TokenLister, fetcher indexer.LedgerFetcher, resolver *delegation.Resolver, cfg config.DelegationConfig, transferPageCap int) Service {
	allowList := make(map[string]struct{}, len(cfg.Contracts))
	for _, c := range cfg.Contracts {
		allowList[domain.NormalizeAddress(c)] = struct{}{}
	}

	workerPoolSize := cfg.WorkerPoolSize
	if workerPoolSize <= 0 {
		workerPoolSize = 8
	}

	return &service{
		lister:          lister,
		fetcher:         fetcher,
		resolver:        resolver,
		allowList:       allowList,
		transferPageCap: transferPageCap,
		workerPoolSize:  workerPoolSize,
	}
}

// Holdings builds the holdings view of one wallet
func (s *service) Holdings(ctx context.Context, wallet string) (*View, error) {
	wallet, err := domain.ValidateAddress(wallet)
	if err != nil {
		return nil, err
	}
	if logger.RunID(ctx) == "" {
		ctx = logger.WithRunID(ctx)
	}

	custodian := s.resolver.Custodian()
	view := &View{Wallet: wallet, Custodian: custodian}

	listing := s.lister.ListTokens(ctx, wallet)
	direct := ReconcileCount(ctx, Merge(listing.Records, nil), listing.Total)
	view.Sources.Tokens = listing.Status

	balances, contractsStatus := s.lister.ListContracts(ctx, custodian)
	view.Sources.Contracts = contractsStatus

	var delegated []domain.HoldingRecord
	if wallet != custodian {
		contracts := s.candidateContracts(balances)
		delegated, view.Sources.Ledgers = s.resolveContracts(ctx, wallet, contracts, direct)
	}

	view.Holdings = Merge(direct, delegated)
	view.Direct = len(direct)
	view.Delegated = len(view.Holdings) - len(direct)

	logger.InfoCtx(ctx, "Holdings reconciled",
		zap.String("wallet", wallet),
		zap.Int("direct", view.Direct),
		zap.Int("delegated", view.Delegated),
		zap.String("tokens_status", string(view.Sources.Tokens)),
		zap.String("contracts_status", string(view.Sources.Contracts)),
	)

	return view, nil
}

// candidateContracts dedupes the custodian's contracts and applies the allow-list when one is configured
func (s *service) candidateContracts(balances []indexer.ContractBalance) []string {
	seen := make(map[string]struct{}, len(balances))
	contracts := make([]string, 0, len(balances))
	for _, b := range balances {
		c := domain.NormalizeAddress(b.Contract)
		if c == "" {
			continue
		}
		if len(s.allowList) > 0 {
			if _, ok := s.allowList[c]; !ok {
				continue
			}
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		contracts = append(contracts, c)
	}
	return contracts
}

// resolveContracts reads both ledger directions of every contract concurrently and runs the resolver.
// The accounted-for set is scoped to this call and seeded with the wallet's direct holdings.
func (s *service) resolveContracts(ctx context.Context, wallet string, contracts []string, direct []domain.HoldingRecord) ([]domain.HoldingRecord, []ContractResolution) {
	if len(contracts) == 0 {
		return nil, nil
	}

	ids := make([]domain.NFTIdentity, 0, len(direct))
	for _, h := range direct {
		ids = append(ids, h.Identity)
	}
	accounted := domain.NewIdentitySet(ids...)

	resolutions := make([]ContractResolution, len(contracts))
	results := make([][]domain.HoldingRecord, len(contracts))

	pool := pond.NewPool(min(s.workerPoolSize, len(contracts)))
	for i, contract := range contracts {
		pool.Submit(func() {
			outgoing := s.fetcher.Fetch(ctx, contract, wallet, domain.DirectionFrom, s.transferPageCap)
			incoming := s.fetcher.Fetch(ctx, contract, wallet, domain.DirectionTo, s.transferPageCap)
			results[i] = s.resolver.Resolve(ctx, wallet, outgoing.Records, incoming.Records, accounted)
			resolutions[i] = ContractResolution{
				Contract:  contract,
				Outgoing:  outgoing.Status,
				Incoming:  incoming.Status,
				Delegated: len(results[i]),
			}
		})
	}
	// Wait for all contracts to resolve
	pool.StopAndWait()

	var delegated []domain.HoldingRecord
	for _, r := range results {
		delegated = append(delegated, r...)
	}
	return delegated, resolutions
}
