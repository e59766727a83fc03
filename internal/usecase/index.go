package usecase

import "transaction-reconciler/internal/domain"

// RecordIndex maps ids to the first record seen with that id and remembers
// insertion order, so iteration is stable across runs.
type RecordIndex struct {
	ids     []string
	records map[string]domain.NormalizedRecord
}

func newRecordIndex(capacity int) *RecordIndex {
	return &RecordIndex{
		ids:     make([]string, 0, capacity),
		records: make(map[string]domain.NormalizedRecord, capacity),
	}
}

// BuildIndex indexes records in input order. Records without an id are
// skipped and later duplicates of an id are discarded.
func BuildIndex(records []domain.NormalizedRecord) *RecordIndex {
	idx := newRecordIndex(len(records))
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		idx.insertIfAbsent(r)
	}
	return idx
}

func (idx *RecordIndex) insertIfAbsent(r domain.NormalizedRecord) {
	if _, ok := idx.records[r.ID]; ok {
		return
	}
	idx.records[r.ID] = r
	idx.ids = append(idx.ids, r.ID)
}

// Get returns the record indexed under id.
func (idx *RecordIndex) Get(id string) (domain.NormalizedRecord, bool) {
	r, ok := idx.records[id]
	return r, ok
}

// Has reports whether id is indexed.
func (idx *RecordIndex) Has(id string) bool {
	_, ok := idx.records[id]
	return ok
}

// Len returns the number of distinct valid ids.
func (idx *RecordIndex) Len() int {
	return len(idx.ids)
}
