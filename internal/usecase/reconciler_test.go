package usecase

import (
	"encoding/json"
	"testing"

	"transaction-reconciler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name   string
		source []domain.NormalizedRecord
		system []domain.NormalizedRecord
		want   *domain.ReconciliationReport
	}{
		{
			name: "transaction missing in source",
			source: []domain.NormalizedRecord{
				rec("tx1", "678.34", "USD", "Paid"),
			},
			system: []domain.NormalizedRecord{
				rec("tx1", "678.34", "USD", "Paid"),
				rec("tx2", "100", "USD", "completed"),
			},
			want: &domain.ReconciliationReport{
				MissingInInternal: []domain.TransactionEntry{},
				MissingInSource: []domain.TransactionEntry{
					{ID: "tx2", Amount: domain.ParseAmount("100"), Currency: "USD", Status: "completed"},
				},
				MismatchedTransactions: []domain.MismatchedTransaction{},
			},
		},
		{
			name: "transaction missing in internal",
			source: []domain.NormalizedRecord{
				rec("tx1", "678.34", "USD", "Paid"),
				rec("tx2", "100", "USD", "completed"),
			},
			system: []domain.NormalizedRecord{
				rec("tx1", "678.34", "USD", "Paid"),
			},
			want: &domain.ReconciliationReport{
				MissingInInternal: []domain.TransactionEntry{
					{ID: "tx2", Amount: domain.ParseAmount("100"), Currency: "USD", Status: "completed"},
				},
				MissingInSource:        []domain.TransactionEntry{},
				MismatchedTransactions: []domain.MismatchedTransaction{},
			},
		},
		{
			name: "amount and status mismatch",
			source: []domain.NormalizedRecord{
				rec("tx1", "100", "USD", "completed"),
			},
			system: []domain.NormalizedRecord{
				rec("tx1", "678.34", "USD", "Paid"),
			},
			want: &domain.ReconciliationReport{
				MissingInInternal: []domain.TransactionEntry{},
				MissingInSource:   []domain.TransactionEntry{},
				MismatchedTransactions: []domain.MismatchedTransaction{
					{
						TransactionID: "tx1",
						Discrepancies: domain.Discrepancies{
							Amount: &domain.AmountDiff{Source: domain.ParseAmount("100"), System: domain.ParseAmount("678.34")},
							Status: &domain.StatusDiff{Source: "completed", System: "Paid"},
						},
					},
				},
			},
		},
		{
			name: "status only mismatch",
			source: []domain.NormalizedRecord{
				rec("tx1", "10", "USD", "pending"),
			},
			system: []domain.NormalizedRecord{
				rec("tx1", "10.00", "USD", ""),
			},
			want: &domain.ReconciliationReport{
				MissingInInternal: []domain.TransactionEntry{},
				MissingInSource:   []domain.TransactionEntry{},
				MismatchedTransactions: []domain.MismatchedTransaction{
					{
						TransactionID: "tx1",
						Discrepancies: domain.Discrepancies{
							Status: &domain.StatusDiff{Source: "pending", System: ""},
						},
					},
				},
			},
		},
		{
			name: "currency differences are not reported",
			source: []domain.NormalizedRecord{
				rec("tx1", "10", "USD", "Paid"),
			},
			system: []domain.NormalizedRecord{
				rec("tx1", "10", "EUR", "Paid"),
			},
			want: domain.NewReconciliationReport(),
		},
		{
			name:   "both inputs empty",
			source: nil,
			system: []domain.NormalizedRecord{},
			want:   domain.NewReconciliationReport(),
		},
		{
			name: "duplicate id uses first record",
			source: []domain.NormalizedRecord{
				rec("tx1", "50", "USD", "Paid"),
				rec("tx1", "75", "USD", "refunded"),
				rec("tx9", "1", "USD", "Paid"),
				rec("tx9", "2", "USD", "Paid"),
			},
			system: []domain.NormalizedRecord{
				rec("tx1", "60", "USD", "Paid"),
			},
			want: &domain.ReconciliationReport{
				MissingInInternal: []domain.TransactionEntry{
					{ID: "tx9", Amount: domain.ParseAmount("1"), Currency: "USD", Status: "Paid"},
				},
				MissingInSource: []domain.TransactionEntry{},
				MismatchedTransactions: []domain.MismatchedTransaction{
					{
						TransactionID: "tx1",
						Discrepancies: domain.Discrepancies{
							Amount: &domain.AmountDiff{Source: domain.ParseAmount("50"), System: domain.ParseAmount("60")},
						},
					},
				},
			},
		},
		{
			name: "records without id are ignored",
			source: []domain.NormalizedRecord{
				rec("", "50", "USD", "Paid"),
			},
			system: []domain.NormalizedRecord{
				rec("", "60", "USD", "Paid"),
				rec("tx2", "5", "USD", "Paid"),
			},
			want: &domain.ReconciliationReport{
				MissingInInternal: []domain.TransactionEntry{},
				MissingInSource: []domain.TransactionEntry{
					{ID: "tx2", Amount: domain.ParseAmount("5"), Currency: "USD", Status: "Paid"},
				},
				MismatchedTransactions: []domain.MismatchedTransaction{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.source, tt.system)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconcile_OrderFollowsFirstSeen(t *testing.T) {
	source := []domain.NormalizedRecord{
		rec("c", "1", "USD", "Paid"),
		rec("a", "1", "USD", "Paid"),
		rec("b", "1", "USD", "Paid"),
		rec("m2", "1", "USD", "Paid"),
		rec("m1", "1", "USD", "Paid"),
	}
	system := []domain.NormalizedRecord{
		rec("z", "1", "USD", "Paid"),
		rec("m1", "2", "USD", "Paid"),
		rec("y", "1", "USD", "Paid"),
		rec("m2", "2", "USD", "Paid"),
	}

	got := Reconcile(source, system)

	assert.Equal(t, []string{"c", "a", "b"}, entryIDs(got.MissingInInternal))
	assert.Equal(t, []string{"z", "y"}, entryIDs(got.MissingInSource))
	require.Len(t, got.MismatchedTransactions, 2)
	assert.Equal(t, "m2", got.MismatchedTransactions[0].TransactionID)
	assert.Equal(t, "m1", got.MismatchedTransactions[1].TransactionID)
}

func TestReconcile_Symmetry(t *testing.T) {
	a := []domain.NormalizedRecord{
		rec("tx1", "1", "USD", "Paid"),
		rec("tx2", "2", "USD", "Paid"),
		rec("tx3", "3", "USD", "Paid"),
	}
	b := []domain.NormalizedRecord{
		rec("tx3", "3", "USD", "Paid"),
		rec("tx4", "4", "USD", "failed"),
	}

	ab := Reconcile(a, b)
	ba := Reconcile(b, a)

	assert.Equal(t, ab.MissingInInternal, ba.MissingInSource)
	assert.Equal(t, ab.MissingInSource, ba.MissingInInternal)
}

func TestReconcile_Completeness(t *testing.T) {
	source := []domain.NormalizedRecord{
		rec("tx1", "1", "USD", "Paid"),
		rec("tx2", "2", "USD", "Paid"),
		rec("tx2", "9", "USD", "Paid"),
		rec("tx3", "3", "USD", "Paid"),
		rec("", "3", "USD", "Paid"),
	}
	system := []domain.NormalizedRecord{
		rec("tx2", "2", "USD", "Paid"),
		rec("tx3", "4", "USD", "Paid"),
		rec("tx5", "5", "USD", "Paid"),
	}

	got := Reconcile(source, system)
	sourceIdx, systemIdx := BuildIndex(source), BuildIndex(system)

	counts := map[string]int{}
	for _, e := range got.MissingInInternal {
		counts[e.ID]++
	}
	for _, e := range got.MissingInSource {
		counts[e.ID]++
	}
	for _, id := range sourceIdx.ids {
		if systemIdx.Has(id) {
			counts[id]++
		}
	}

	all := map[string]bool{}
	for _, id := range append(append([]string{}, sourceIdx.ids...), systemIdx.ids...) {
		all[id] = true
	}
	assert.Len(t, counts, len(all))
	for id := range all {
		assert.Equal(t, 1, counts[id], "id %s must appear in exactly one section", id)
	}
}

func TestReconcile_NoFalseMismatches(t *testing.T) {
	source := []domain.NormalizedRecord{
		rec("tx1", "100", "USD", "Paid"),
		rec("tx2", "0.10", "USD", ""),
		rec("tx3", "N/A", "USD", "Paid"),
	}
	system := []domain.NormalizedRecord{
		rec("tx1", "100.00", "EUR", "Paid"),
		rec("tx2", "0.1", "USD", ""),
		rec("tx3", "N/A", "USD", "Paid"),
	}

	got := Reconcile(source, system)

	assert.Empty(t, got.MismatchedTransactions)
	assert.Empty(t, got.MissingInInternal)
	assert.Empty(t, got.MissingInSource)
}

func TestReconcile_DoesNotMutateInputs(t *testing.T) {
	source := []domain.NormalizedRecord{rec("tx1", "1", "USD", "Paid"), rec("tx1", "2", "USD", "Paid")}
	system := []domain.NormalizedRecord{rec("tx2", "1", "USD", "Paid")}
	sourceCopy := append([]domain.NormalizedRecord(nil), source...)
	systemCopy := append([]domain.NormalizedRecord(nil), system...)

	Reconcile(source, system)

	assert.Equal(t, sourceCopy, source)
	assert.Equal(t, systemCopy, system)
}

func TestReconcile_JSONShape(t *testing.T) {
	got := Reconcile(
		[]domain.NormalizedRecord{rec("tx1", "100", "USD", "completed")},
		[]domain.NormalizedRecord{rec("tx1", "678.34", "USD", "Paid"), rec("tx2", "100", "USD", "completed")},
	)

	out, err := json.Marshal(got)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"missing_in_internal": [],
		"missing_in_source": [{"id": "tx2", "amount": 100, "currency": "USD", "status": "completed"}],
		"mismatched_transactions": [{
			"transactionId": "tx1",
			"discrepancies": {
				"amount": {"source": 100, "system": 678.34},
				"status": {"source": "completed", "system": "Paid"}
			}
		}]
	}`, string(out))
}

func entryIDs(entries []domain.TransactionEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}
