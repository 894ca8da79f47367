package session

import (
	"github.com/couchcryptid/weather-history/internal/domain"
)

// DeleteRequest removes every record of Date.
type DeleteRequest struct {
	Date domain.Date
}

// DeleteResult reports how many records a delete removed.
type DeleteResult struct {
	Date    domain.Date `json:"date"`
	Removed int         `json:"removed"`
}

// CorrectRequest replaces the measurements of the first record of Date.
type CorrectRequest struct {
	Date         domain.Date
	Measurements domain.Measurements
}

// CorrectResult reports the corrected record. Duplicates counts the other
// records of the same date, which keep their old values.
type CorrectResult struct {
	Record     domain.Record `json:"record"`
	Duplicates int           `json:"duplicates"`
}

// ParseDeleteRequest validates a dd/mm/yyyy date.
func ParseDeleteRequest(date string) (DeleteRequest, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return DeleteRequest{}, err
	}
	return DeleteRequest{Date: d}, nil
}

// ParseCorrectRequest validates the date and all five measurements. Nothing
// is returned unless every value parses.
func ParseCorrectRequest(date string, fields [5]string) (CorrectRequest, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return CorrectRequest{}, err
	}
	m, err := domain.ParseMeasurements(fields)
	if err != nil {
		return CorrectRequest{}, err
	}
	return CorrectRequest{Date: d, Measurements: m}, nil
}

// Delete removes all records dated req.Date. It returns ErrNotFound when
// there are none.
func (s *Session) Delete(req DeleteRequest) (DeleteResult, error) {
	removed := s.store.DeleteAll(req.Date)
	if removed == 0 {
		err := notFound(req.Date)
		s.Reject("delete", err)
		return DeleteResult{}, err
	}

	s.invalidate()
	s.metrics.RecordsDeleted.Add(float64(removed))
	s.logger.Info("records deleted", "date", req.Date.String(), "removed", removed)
	return DeleteResult{Date: req.Date, Removed: removed}, nil
}

// Correct overwrites the measurements of the first record dated req.Date.
func (s *Session) Correct(req CorrectRequest) (CorrectResult, error) {
	n := s.store.Count(req.Date)
	if n == 0 || !s.store.Correct(req.Date, req.Measurements) {
		err := notFound(req.Date)
		s.Reject("correct", err)
		return CorrectResult{}, err
	}

	s.invalidate()
	s.metrics.RecordsCorrected.Inc()
	if n > 1 {
		s.logger.Warn("duplicate dates, only the first record was corrected", "date", req.Date.String(), "records", n)
	}
	s.logger.Info("record corrected", "date", req.Date.String())
	return CorrectResult{
		Record:     domain.Record{Date: req.Date, Measurements: req.Measurements},
		Duplicates: n - 1,
	}, nil
}
