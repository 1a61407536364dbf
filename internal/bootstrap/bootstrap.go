package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-holdings-reconciler/internal/adapter"
	"github.com/feral-file/ff-holdings-reconciler/internal/claim"
	"github.com/feral-file/ff-holdings-reconciler/internal/config"
	"github.com/feral-file/ff-holdings-reconciler/internal/delegation"
	"github.com/feral-file/ff-holdings-reconciler/internal/holdings"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
	"github.com/feral-file/ff-holdings-reconciler/internal/providers/cache"
	"github.com/feral-file/ff-holdings-reconciler/internal/providers/ethereum"
	"github.com/feral-file/ff-holdings-reconciler/internal/providers/indexer"
	"github.com/feral-file/ff-holdings-reconciler/internal/providers/subgraph"
	"github.com/feral-file/ff-holdings-reconciler/internal/ratelimit"
	"github.com/feral-file/ff-holdings-reconciler/internal/rewards"
	"github.com/feral-file/ff-holdings-reconciler/internal/vesting"
)

// Components holds the wired services shared by the binaries
type Components struct {
	Holdings holdings.Service
	Claims   claim.Service
	Queue    ratelimit.Queue

	ethClient adapter.EthClient
}

// Build wires both pipelines from configuration
func Build(ctx context.Context, cfg *config.ReconcilerConfig, dialer adapter.EthClientDialer) (*Components, error) {
	if cfg.Ethereum.RPCURL == "" {
		return nil, errors.New("ethereum.rpc_url is required")
	}
	if cfg.Ethereum.VestingContractAddress == "" {
		return nil, errors.New("ethereum.vesting_contract_address is required")
	}
	if cfg.Subgraph.URL == "" {
		return nil, errors.New("subgraph.url is required")
	}

	// Initialize adapters
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	httpClient := adapter.NewHTTPClient(cfg.Indexer.Timeout, adapter.DefaultRetryConfig())

	// Holdings pipeline
	indexerClient := indexer.NewClient(httpClient, cfg.Indexer.URL, cfg.Indexer.APIKey, jsonAdapter)
	lister := indexer.NewTokenLister(indexerClient, cfg.Indexer.PageSize, cfg.Indexer.TokenPageCap, cfg.Indexer.BalancesPageSize)
	fetcher := indexer.NewLedgerFetcher(indexerClient, cfg.Indexer.PageSize, cfg.Indexer.TransferPageCap)
	resolver := delegation.NewResolver(cfg.Delegation)
	holdingsService := holdings.NewService(lister, fetcher, resolver, cfg.Delegation, cfg.Indexer.TransferPageCap)

	// Claim pipeline
	ethClient, err := dialer.Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial ethereum rpc: %w", err)
	}
	logger.InfoCtx(ctx, "Connected to Ethereum RPC")

	contract, err := ethereum.NewVestingContract(ethClient, cfg.Ethereum.VestingContractAddress, cfg.Ethereum.TokenDecimals, cfg.Ethereum.CallTimeout)
	if err != nil {
		ethClient.Close()
		return nil, err
	}

	queue := ratelimit.NewQueue(cfg.Queue, clock)

	var cacheClient cache.Client
	if cfg.Cache.Enabled {
		cacheClient = cache.NewClient(httpClient, cfg.Cache.URL, cfg.Cache.APIKey, jsonAdapter)
		logger.InfoCtx(ctx, "Claim cache enabled", zap.String("url", cfg.Cache.URL))
	} else {
		logger.WarnCtx(ctx, "Claim cache not configured, every lookup reads the contract")
	}

	subgraphClient, err := subgraph.NewClient(httpClient, cfg.Subgraph.URL, cfg.Subgraph.TokenDecimals, jsonAdapter)
	if err != nil {
		_ = queue.Close()
		ethClient.Close()
		return nil, err
	}
	rewardsAggregator := rewards.NewAggregator(subgraphClient, cfg.Subgraph)

	schedule, err := scheduleFrom(cfg.Vesting)
	if err != nil {
		_ = queue.Close()
		ethClient.Close()
		return nil, err
	}

	claimAggregator := claim.NewAggregator(cacheClient, contract, queue, clock, cfg.Claims, cfg.Ethereum.CallSpacing)
	claimService := claim.NewService(claimAggregator, rewardsAggregator, schedule, clock)

	return &Components{
		Holdings:  holdingsService,
		Claims:    claimService,
		Queue:     queue,
		ethClient: ethClient,
	}, nil
}

// Close releases the queue and the RPC connection
func (c *Components) Close() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			logger.Error(fmt.Errorf("failed to close request queue: %w", err))
		}
	}
	if c.ethClient != nil {
		c.ethClient.Close()
	}
}

// scheduleFrom builds the milestone schedule, falling back to the default calendar
func scheduleFrom(cfg config.VestingConfig) (vesting.Schedule, error) {
	if len(cfg.MilestoneDates) == 0 {
		return vesting.DefaultSchedule(), nil
	}
	dates, err := cfg.MilestoneTimes()
	if err != nil {
		return nil, err
	}
	return vesting.NewSchedule(dates)
}
