package service

import "marksentry/internal/model"

// RecordStore is an append-only, insertion-ordered list of student records.
// It is not safe for concurrent use; callers serialise access (see Form).
type RecordStore struct {
	records []model.StudentRecord
}

func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

func (s *RecordStore) Append(rec model.StudentRecord) {
	s.records = append(s.records, rec)
}

func (s *RecordStore) Len() int {
	return len(s.records)
}

// Records returns a copy of every record in insertion order.
func (s *RecordStore) Records() []model.StudentRecord {
	out := make([]model.StudentRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Page returns one page of records in insertion order together with the
// total count and number of pages.
func (s *RecordStore) Page(page, limit int) ([]model.StudentRecord, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total := len(s.records)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	// page and limit come from callers unchecked; compare before multiplying.
	if page > totalPages {
		return []model.StudentRecord{}, total, totalPages
	}
	start := (page - 1) * limit
	end := min(start+limit, total)

	out := make([]model.StudentRecord, end-start)
	copy(out, s.records[start:end])
	return out, total, totalPages
}
