package delegation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/feral-file/ff-holdings-reconciler/internal/config"
	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
)

// Resolver turns ledger slices into the holdings a wallet has delegated to the custodian
type Resolver struct {
	custodian        string
	imageURLTemplate string
	placeholderName  string
	placeholderURI   string
}

// NewResolver creates a resolver for the configured custodian
func NewResolver(cfg config.DelegationConfig) *Resolver {
	return &Resolver{
		custodian:        domain.NormalizeAddress(cfg.CustodianAddress),
		imageURLTemplate: cfg.ImageURLTemplate,
		placeholderName:  cfg.PlaceholderName,
		placeholderURI:   cfg.PlaceholderURI,
	}
}

// Custodian returns the normalized custodian address
func (r *Resolver) Custodian() string {
	return r.custodian
}

// Resolve returns the identities in the wallet's outgoing and incoming slices that are currently held by the custodian.
// Identities already in accounted are skipped; every emitted identity is added to it.
func (r *Resolver) Resolve(ctx context.Context, wallet string, outgoing, incoming []domain.TransferRecord, accounted *domain.IdentitySet) []domain.HoldingRecord {
	wallet = domain.NormalizeAddress(wallet)
	history := BuildHistory(r.custodian, outgoing, incoming)

	var delegated []domain.HoldingRecord
	for _, id := range history.Order {
		if accounted.Has(id) {
			continue
		}

		if Classify(history.Records[id], wallet, r.custodian) != domain.CustodyDelegated {
			continue
		}

		// Another contract batch may have claimed it in the meantime
		if !accounted.Claim(id) {
			continue
		}

		delegated = append(delegated, r.placeholder(id))
	}

	logger.DebugCtx(ctx, "Resolved delegated identities",
		zap.String("wallet", wallet),
		zap.Int("identities", len(history.Order)),
		zap.Int("delegated", len(delegated)),
	)

	return delegated
}

// placeholder builds the holding emitted for a delegated identity
func (r *Resolver) placeholder(id domain.NFTIdentity) domain.HoldingRecord {
	return domain.HoldingRecord{
		Identity:  id,
		TokenURI:  format(r.placeholderURI, id.TokenID),
		Name:      format(r.placeholderName, id.TokenID),
		Image:     format(r.imageURLTemplate, id.TokenID),
		Balance:   "1",
		Standard:  domain.StandardERC721,
		Delegated: true,
	}
}

// format fills a single %s verb with the token id; templates without a verb are returned as is
func format(template, tokenID string) string {
	if template == "" || !strings.Contains(template, "%s") {
		return template
	}
	return fmt.Sprintf(template, tokenID)
}
