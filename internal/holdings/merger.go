package holdings

import (
	"context"

	"go.uber.org/zap"

	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
)

// Merge unions direct and delegated holdings keyed by identity. The first record seen for an identity keeps its
// position; a later record replaces it only when the later one carries metadata and the first does not.
func Merge(direct, delegated []domain.HoldingRecord) []domain.HoldingRecord {
	merged := make([]domain.HoldingRecord, 0, len(direct)+len(delegated))
	index := make(map[domain.NFTIdentity]int, len(direct)+len(delegated))

	for _, set := range [][]domain.HoldingRecord{direct, delegated} {
		for _, record := range set {
			if !record.Identity.Valid() {
				continue
			}
			if i, ok := index[record.Identity]; ok {
				if !merged[i].HasMetadata() && record.HasMetadata() {
					merged[i] = record
				}
				continue
			}
			index[record.Identity] = len(merged)
			merged = append(merged, record)
		}
	}

	return merged
}

// ReconcileCount checks paged records against the total the listing endpoint reported.
// Excess records are truncated; a shortfall is only logged. A negative total means none was reported.
func ReconcileCount(ctx context.Context, records []domain.HoldingRecord, total int) []domain.HoldingRecord {
	if total < 0 {
		return records
	}

	switch {
	case len(records) > total:
		logger.WarnCtx(ctx, "Paged holdings exceed reported total, truncating",
			zap.Int("records", len(records)),
			zap.Int("total", total),
		)
		return records[:total]
	case len(records) < total:
		logger.WarnCtx(ctx, "Paged holdings short of reported total",
			zap.Int("records", len(records)),
			zap.Int("total", total),
		)
	}

	return records
}
