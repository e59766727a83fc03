package usecase

import "transaction-reconciler/internal/domain"

// Reconcile diffs the source feed against the system of record.
// It never fails: empty inputs produce a report with empty sections.
func Reconcile(source, system []domain.NormalizedRecord) *domain.ReconciliationReport {
	return reconcileIndexes(BuildIndex(source), BuildIndex(system))
}

func reconcileIndexes(sourceIdx, systemIdx *RecordIndex) *domain.ReconciliationReport {
	report := domain.NewReconciliationReport()

	// Missing in internal: in source but not in system
	for _, id := range sourceIdx.ids {
		if !systemIdx.Has(id) {
			report.MissingInInternal = append(report.MissingInInternal, domain.EntryFromRecord(sourceIdx.records[id]))
		}
	}

	// Missing in source: in system but not in source
	for _, id := range systemIdx.ids {
		if !sourceIdx.Has(id) {
			report.MissingInSource = append(report.MissingInSource, domain.EntryFromRecord(systemIdx.records[id]))
		}
	}

	for _, id := range sourceIdx.ids {
		sysRec, ok := systemIdx.Get(id)
		if !ok {
			continue
		}
		d := compareRecords(sourceIdx.records[id], sysRec)
		if d.Empty() {
			continue
		}
		report.MismatchedTransactions = append(report.MismatchedTransactions, domain.MismatchedTransaction{
			TransactionID: id,
			Discrepancies: d,
		})
	}

	return report
}

// compareRecords checks amount and status only; currency and raw fields
// are not compared.
func compareRecords(src, sys domain.NormalizedRecord) domain.Discrepancies {
	var d domain.Discrepancies
	if !src.Amount.Equal(sys.Amount) {
		d.Amount = &domain.AmountDiff{Source: src.Amount, System: sys.Amount}
	}
	if src.Status != sys.Status {
		d.Status = &domain.StatusDiff{Source: src.Status, System: sys.Status}
	}
	return d
}
