package indexer

import (
	"context"

	"go.uber.org/zap"

	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
)

// TokenListing is an owner's direct holdings as paged from the indexer
type TokenListing struct {
	Records []domain.HoldingRecord
	// Total is the authoritative count reported by the indexer, -1 when none was reported
	Total  int
	Status domain.FetchStatus
}

// TokenLister lists the tokens and contracts an owner holds directly
//
//go:generate mockgen -source=lister.go -destination=../../mocks/token_lister.go -package=mocks -mock_names=TokenLister=MockTokenLister
type TokenLister interface {
	// ListTokens pages through the owner's token listing
	ListTokens(ctx context.Context, owner string) TokenListing

	// ListContracts returns the contracts the owner holds tokens of
	ListContracts(ctx context.Context, owner string) ([]ContractBalance, domain.FetchStatus)
}

type tokenLister struct {
	client           Client
	pageSize         int
	pageCap          int
	balancesPageSize int
}

// NewTokenLister creates a token lister
func NewTokenLister(client Client, pageSize, pageCap, balancesPageSize int) TokenLister {
	if pageSize <= 0 {
		pageSize = 100
	}
	if pageCap <= 0 {
		pageCap = 50
	}
	if balancesPageSize <= 0 {
		balancesPageSize = 200
	}
	return &tokenLister{
		client:           client,
		pageSize:         pageSize,
		pageCap:          pageCap,
		balancesPageSize: balancesPageSize,
	}
}

// ListTokens follows the next cursor when the indexer returns one, otherwise it advances the page number
func (l *tokenLister) ListTokens(ctx context.Context, owner string) TokenListing {
	listing := TokenListing{Total: -1, Status: domain.FetchComplete}
	cursor := ""
	pageNumber := 1

	for pages := 0; ; pages++ {
		if pages >= l.pageCap {
			listing.Status = domain.FetchTruncated
			logger.WarnCtx(ctx, "Token listing page cap reached",
				zap.String("owner", owner),
				zap.Int("pages", pages),
			)
			return listing
		}

		page, err := l.client.GetTokens(ctx, TokenQuery{
			Owner:  owner,
			Limit:  l.pageSize,
			Cursor: cursor,
			Page:   pageNumber,
		})
		if err != nil {
			listing.Status = domain.FetchFailed
			logger.WarnCtx(ctx, "Token listing terminated",
				zap.String("owner", owner),
				zap.Int("pages", pages),
				zap.Int("records", len(listing.Records)),
				zap.Error(err),
			)
			return listing
		}

		listing.Records = append(listing.Records, page.Records...)
		if page.Total >= 0 {
			listing.Total = page.Total
		}

		if page.Count == 0 || page.Count < l.pageSize {
			return listing
		}
		if listing.Total >= 0 && len(listing.Records) >= listing.Total {
			return listing
		}

		if page.Next != "" {
			if page.Next == cursor {
				return listing
			}
			cursor = page.Next
		} else {
			cursor = ""
			pageNumber++
		}
	}
}

// ListContracts returns the contracts the owner holds tokens of
func (l *tokenLister) ListContracts(ctx context.Context, owner string) ([]ContractBalance, domain.FetchStatus) {
	balances, err := l.client.GetBalances(ctx, owner, l.balancesPageSize)
	if err != nil {
		logger.WarnCtx(ctx, "Contract balance listing failed",
			zap.String("owner", owner),
			zap.Error(err),
		)
		return nil, domain.FetchFailed
	}
	return balances, domain.FetchComplete
}
