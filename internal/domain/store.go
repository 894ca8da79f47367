package domain

import "slices"

// Store is the ordered, in-memory collection of Records for one session.
// Insertion order is load order. A Store is not safe for concurrent use.
type Store struct {
	records []Record
}

// NewStore creates a Store holding a copy of records.
func NewStore(records []Record) *Store {
	return &Store{records: slices.Clone(records)}
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of the stored records in order.
func (s *Store) Records() []Record {
	return slices.Clone(s.records)
}

// Count returns how many records carry the given date.
func (s *Store) Count(date Date) int {
	n := 0
	for i := range s.records {
		if s.records[i].Date == date {
			n++
		}
	}
	return n
}

// FilterRange returns the records dated between the first day of start and the
// last day of end, both inclusive, in stored order. A start after end yields
// an empty result.
func (s *Store) FilterRange(start, end YearMonth) ([]Record, error) {
	if err := start.Validate(); err != nil {
		return nil, err
	}
	if err := end.Validate(); err != nil {
		return nil, err
	}
	return FilterDates(s.records, start.FirstDay(), end.LastDay()), nil
}

// FilterDates returns the records with from <= date <= to, in input order.
func FilterDates(records []Record, from, to Date) []Record {
	out := []Record{}
	for _, r := range records {
		if r.Date.Compare(from) >= 0 && r.Date.Compare(to) <= 0 {
			out = append(out, r)
		}
	}
	return out
}

// Delete removes every record with the given date and reports whether any
// was removed. The order of the remaining records is preserved.
func (s *Store) Delete(date Date) bool {
	return s.DeleteAll(date) > 0
}

// DeleteAll is Delete returning the number of records removed.
func (s *Store) DeleteAll(date Date) int {
	before := len(s.records)
	s.records = slices.DeleteFunc(s.records, func(r Record) bool {
		return r.Date == date
	})
	return before - len(s.records)
}

// Correct overwrites the measurements of the first record with the given date.
// The date itself never changes. It reports whether a record was found.
func (s *Store) Correct(date Date, m Measurements) bool {
	i := slices.IndexFunc(s.records, func(r Record) bool {
		return r.Date == date
	})
	if i < 0 {
		return false
	}
	s.records[i].Measurements = m
	return true
}
