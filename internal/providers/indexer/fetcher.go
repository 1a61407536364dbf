package indexer

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
)

// FetchResult is one directional ledger slice plus how the fetch ended
type FetchResult struct {
	Records []domain.TransferRecord
	Status  domain.FetchStatus
	Pages   int
}

// LedgerFetcher fetches directional transfer ledger slices
//
//go:generate mockgen -source=fetcher.go -destination=../../mocks/ledger_fetcher.go -package=mocks -mock_names=LedgerFetcher=MockLedgerFetcher
type LedgerFetcher interface {
	// Fetch pages through the transfers of contract sent by (DirectionFrom) or received by (DirectionTo) address.
	// It never fails: a page error ends the fetch and the records accumulated so far are returned.
	Fetch(ctx context.Context, contract, address string, direction domain.Direction, pageCap int) FetchResult
}

type ledgerFetcher struct {
	client         Client
	pageSize       int
	defaultPageCap int
}

// NewLedgerFetcher creates a ledger fetcher. pageCap values <= 0 passed to Fetch fall back to defaultPageCap.
func NewLedgerFetcher(client Client, pageSize int, defaultPageCap int) LedgerFetcher {
	if pageSize <= 0 {
		pageSize = 100
	}
	if defaultPageCap <= 0 {
		defaultPageCap = 20
	}
	return &ledgerFetcher{
		client:         client,
		pageSize:       pageSize,
		defaultPageCap: defaultPageCap,
	}
}

// Fetch pages sequentially. The cursor for the next page is, in order of preference, the page's next field,
// its cursor field, or the running offset when the page was full.
func (f *ledgerFetcher) Fetch(ctx context.Context, contract, address string, direction domain.Direction, pageCap int) FetchResult {
	if pageCap <= 0 {
		pageCap = f.defaultPageCap
	}

	result := FetchResult{Status: domain.FetchComplete}
	cursor := ""
	offset := 0

	for {
		if result.Pages >= pageCap {
			result.Status = domain.FetchTruncated
			logger.DebugCtx(ctx, "Transfer ledger page cap reached",
				zap.String("contract", contract),
				zap.String("address", address),
				zap.String("direction", string(direction)),
				zap.Int("pages", result.Pages),
			)
			return result
		}

		page, err := f.client.GetTransfers(ctx, TransferQuery{
			Contract:  contract,
			Address:   address,
			Direction: direction,
			Cursor:    cursor,
			Limit:     f.pageSize,
		})
		if err != nil {
			result.Status = domain.FetchFailed
			logger.WarnCtx(ctx, "Transfer ledger fetch terminated",
				zap.String("contract", contract),
				zap.String("address", address),
				zap.String("direction", string(direction)),
				zap.Int("pages", result.Pages),
				zap.Int("records", len(result.Records)),
				zap.Error(err),
			)
			return result
		}

		result.Pages++
		result.Records = append(result.Records, page.Records...)
		offset += page.Count

		if page.Count == 0 || page.Count < f.pageSize {
			return result
		}

		next := page.Next
		if next == "" {
			next = page.Cursor
		}
		if next == "" {
			next = strconv.Itoa(offset)
		}
		if next == cursor {
			// The indexer handed back the cursor we just used
			return result
		}
		cursor = next
	}
}
