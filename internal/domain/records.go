package domain

// NormalizedRecord is one transaction row after ingestion.
// RawFields keeps the original header-to-value mapping for audit and is
// never used in comparison.
type NormalizedRecord struct {
	ID        string            `json:"id"`
	Amount    Amount            `json:"amount"`
	Currency  string            `json:"currency"`
	Status    string            `json:"status"`
	RawFields map[string]string `json:"raw_fields,omitempty"`
}

// Valid reports whether the record carries an identifier.
func (r NormalizedRecord) Valid() bool {
	return r.ID != ""
}
