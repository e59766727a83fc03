package domain

// TransactionEntry is a record reported as present on one side only.
type TransactionEntry struct {
	ID       string `json:"id" yaml:"id"`
	Amount   Amount `json:"amount" yaml:"amount"`
	Currency string `json:"currency" yaml:"currency"`
	Status   string `json:"status" yaml:"status"`
}

// AmountDiff carries both sides of a differing amount.
type AmountDiff struct {
	Source Amount `json:"source" yaml:"source"`
	System Amount `json:"system" yaml:"system"`
}

// StatusDiff carries both sides of a differing status.
type StatusDiff struct {
	Source string `json:"source" yaml:"source"`
	System string `json:"system" yaml:"system"`
}

// Discrepancies lists only the fields that differ.
type Discrepancies struct {
	Amount *AmountDiff `json:"amount,omitempty" yaml:"amount,omitempty"`
	Status *StatusDiff `json:"status,omitempty" yaml:"status,omitempty"`
}

// Empty reports whether no field differs.
func (d Discrepancies) Empty() bool {
	return d.Amount == nil && d.Status == nil
}

// MismatchedTransaction is an id present on both sides with differing fields.
type MismatchedTransaction struct {
	TransactionID string        `json:"transactionId" yaml:"transactionId"`
	Discrepancies Discrepancies `json:"discrepancies" yaml:"discrepancies"`
}

// ReconciliationReport is the top-level structure for the final output.
type ReconciliationReport struct {
	MissingInInternal      []TransactionEntry      `json:"missing_in_internal" yaml:"missing_in_internal"`
	MissingInSource        []TransactionEntry      `json:"missing_in_source" yaml:"missing_in_source"`
	MismatchedTransactions []MismatchedTransaction `json:"mismatched_transactions" yaml:"mismatched_transactions"`
}

// NewReconciliationReport returns a report with empty, non-nil sections so
// that every section serializes as a list.
func NewReconciliationReport() *ReconciliationReport {
	return &ReconciliationReport{
		MissingInInternal:      make([]TransactionEntry, 0),
		MissingInSource:        make([]TransactionEntry, 0),
		MismatchedTransactions: make([]MismatchedTransaction, 0),
	}
}

// EntryFromRecord projects a record onto the reported fields.
func EntryFromRecord(r NormalizedRecord) TransactionEntry {
	return TransactionEntry{
		ID:       r.ID,
		Amount:   r.Amount,
		Currency: r.Currency,
		Status:   r.Status,
	}
}
