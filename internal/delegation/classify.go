package delegation

import (
	"sort"

	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
)

// BuildHistory merges directional ledger slices into one history keyed by identity.
// Records that neither come from nor go to the custodian are dropped.
func BuildHistory(custodian string, slices ...[]domain.TransferRecord) *domain.TransferHistory {
	history := domain.NewTransferHistory()
	for _, slice := range slices {
		for _, record := range slice {
			if !record.Identity.Valid() {
				continue
			}
			if domain.SameAddress(record.From, custodian) || domain.SameAddress(record.To, custodian) {
				history.Add(record)
			}
		}
	}
	return history
}

// Classify decides the current custody of one identity from its custodian-related records.
//
// Records with a timestamp or block number are ordered latest first and the latest one decides.
// When several records share the latest position and any of them is a return, the identity is not delegated.
// Without any positioned record, a delegation with no return counts as delegated.
func Classify(records []domain.TransferRecord, wallet, custodian string) domain.CustodyStatus {
	valid := make([]domain.TransferRecord, 0, len(records))
	for _, r := range records {
		if r.HasPosition() {
			valid = append(valid, r)
		}
	}

	if len(valid) == 0 {
		delegated, returned := false, false
		for _, r := range records {
			if r.IsDelegation(wallet, custodian) {
				delegated = true
			}
			if r.IsReturn(wallet, custodian) {
				returned = true
			}
		}
		if delegated && !returned {
			return domain.CustodyDelegated
		}
		return domain.CustodyNotDelegated
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return later(valid[i], valid[j])
	})

	head := valid[0]
	for _, r := range valid {
		if later(head, r) {
			break
		}
		if r.IsReturn(wallet, custodian) {
			return domain.CustodyNotDelegated
		}
	}

	if head.IsDelegation(wallet, custodian) {
		return domain.CustodyDelegated
	}
	return domain.CustodyNotDelegated
}

// later reports whether a happened strictly after b
func later(a, b domain.TransferRecord) bool {
	if a.Timestamp != b.Timestamp {
		return a.Timestamp > b.Timestamp
	}
	return a.BlockNumber > b.BlockNumber
}
