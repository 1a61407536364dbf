package rewards

import (
	"context"
	"sync"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-holdings-reconciler/internal/config"
	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
	"github.com/feral-file/ff-holdings-reconciler/internal/providers/subgraph"
)

// DEFAULT_CHUNK_SIZE is the number of token ids sent in one subgraph query
const DEFAULT_CHUNK_SIZE = 2000

// Result is the merged outcome of a batch lookup. Rewards holds only the tokens some chunk returned;
// an absent token means its reward is unknown.
type Result struct {
	Rewards      map[string]domain.RewardInfo
	Chunks       int
	FailedChunks int
}

// Known reports whether the reward of tokenID was resolved
func (r Result) Known(tokenID string) bool {
	_, ok := r.Rewards[tokenID]
	return ok
}

// Aggregator resolves reward figures for sets of tokens
//
//go:generate mockgen -source=aggregator.go -destination=../mocks/rewards_aggregator.go -package=mocks -mock_names=Aggregator=MockRewardsAggregator
type Aggregator interface {
	// ResolveMany looks up every token in chunks issued concurrently. Failed chunks contribute nothing.
	ResolveMany(ctx context.Context, tokenIDs []string) Result

	// Resolve looks up one token; ok is false when its reward is unknown
	Resolve(ctx context.Context, tokenID string) (info domain.RewardInfo, ok bool)
}

type aggregator struct {
	client        subgraph.Client
	chunkSize     int
	maxConcurrent int
}

// NewAggregator creates a batch reward aggregator over the subgraph client
func NewAggregator(client subgraph.Client, cfg config.SubgraphConfig) Aggregator {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DEFAULT_CHUNK_SIZE
	}
	maxConcurrent := cfg.MaxConcurrentChunks
	if maxConcurrent <= 0 {
		maxConcurrent = 16
	}

	return &aggregator{
		client:        client,
		chunkSize:     chunkSize,
		maxConcurrent: maxConcurrent,
	}
}

// Chunk splits ids into consecutive groups of at most size
func Chunk(ids []string, size int) [][]string {
	if size <= 0 {
		size = DEFAULT_CHUNK_SIZE
	}

	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// ResolveMany looks up every token in chunks issued concurrently
func (a *aggregator) ResolveMany(ctx context.Context, tokenIDs []string) Result {
	ids := dedupe(tokenIDs)
	chunks := Chunk(ids, a.chunkSize)

	result := Result{
		Rewards: make(map[string]domain.RewardInfo, len(ids)),
		Chunks:  len(chunks),
	}
	if len(chunks) == 0 {
		return result
	}

	var mu sync.Mutex
	pool := pond.NewPool(min(a.maxConcurrent, len(chunks)))
	for i, chunk := range chunks {
		pool.Submit(func() {
			infos, err := a.client.GetNFTs(ctx, chunk)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				result.FailedChunks++
				logger.WarnCtx(ctx, "Reward chunk failed",
					zap.Int("chunk", i),
					zap.Int("size", len(chunk)),
					zap.Error(err),
				)
				return
			}
			for _, info := range infos {
				result.Rewards[info.TokenID] = info
			}
		})
	}
	pool.StopAndWait()

	logger.DebugCtx(ctx, "Rewards resolved",
		zap.Int("tokens", len(ids)),
		zap.Int("known", len(result.Rewards)),
		zap.Int("chunks", result.Chunks),
		zap.Int("failed_chunks", result.FailedChunks),
	)

	return result
}

// Resolve looks up one token
func (a *aggregator) Resolve(ctx context.Context, tokenID string) (domain.RewardInfo, bool) {
	info, err := a.client.GetNFT(ctx, tokenID)
	if err != nil {
		logger.WarnCtx(ctx, "Reward lookup failed", zap.String("token_id", tokenID), zap.Error(err))
		return domain.RewardInfo{}, false
	}
	if info == nil {
		return domain.RewardInfo{}, false
	}
	return *info, true
}

// dedupe drops empty and repeated ids, keeping first-seen order
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
