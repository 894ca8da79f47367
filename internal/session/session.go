package session

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-history/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-history/internal/adapter/xlsx"
	"github.com/couchcryptid/weather-history/internal/domain"
	"github.com/couchcryptid/weather-history/internal/observability"
)

var (
	// ErrNotFound is returned when no stored record carries the requested date.
	ErrNotFound = errors.New("record not found")

	// ErrNoAverages is returned when averages are exported before any were computed.
	ErrNoAverages = errors.New("no averages computed")
)

// Session owns the loaded records and the last computed averages.
// It is not safe for concurrent use.
type Session struct {
	store   *domain.Store
	source  string
	logger  *slog.Logger
	metrics *observability.Metrics

	averages *domain.AverageMap
}

// New creates a session over records that were already loaded.
func New(records []domain.Record, logger *slog.Logger, metrics *observability.Metrics) *Session {
	s := &Session{
		store:   domain.NewStore(records),
		logger:  logger,
		metrics: metrics,
	}
	metrics.RecordsLoaded.Add(float64(len(records)))
	metrics.StoreRecords.Set(float64(s.store.Len()))
	return s
}

// Open loads the observation file at path and starts a session over it.
func Open(path string, logger *slog.Logger, metrics *observability.Metrics) (*Session, error) {
	records, stats, err := csvfile.LoadFile(path)
	if err != nil {
		return nil, err
	}

	metrics.RowsRead.Add(float64(stats.Rows + stats.Broken))
	metrics.RowsSkipped.Add(float64(stats.Skipped + stats.Broken))
	if stats.Skipped+stats.Broken > 0 {
		logger.Debug("malformed rows skipped", "path", path, "skipped", stats.Skipped, "broken", stats.Broken)
	}
	logger.Info("observations loaded", "path", path, "records", len(records), "rows", stats.Rows)

	s := New(records, logger, metrics)
	s.source = path
	return s, nil
}

// Source returns the path the session was loaded from, if any.
func (s *Session) Source() string {
	return s.source
}

// Len returns the number of records currently held.
func (s *Session) Len() int {
	return s.store.Len()
}

// Records returns a copy of the current records in order.
func (s *Session) Records() []domain.Record {
	return s.store.Records()
}

// RangeRequest selects the months to list, both ends inclusive.
type RangeRequest struct {
	From domain.YearMonth
	To   domain.YearMonth
}

// Range returns the records between the first day of req.From and the last
// day of req.To.
func (s *Session) Range(req RangeRequest) ([]domain.Record, error) {
	records, err := s.store.FilterRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	s.metrics.Queries.WithLabelValues("range").Inc()
	return records, nil
}

// WettestMonth returns the month with the highest precipitation total. The
// second value is false when the session holds no records.
func (s *Session) WettestMonth() (domain.MonthlyTotal, bool) {
	s.metrics.Queries.WithLabelValues("wettest_month").Inc()
	return domain.WettestMonth(s.store.Records())
}

// MonthlyAverages computes the per-year average minimum temperature of month
// and keeps the result for ExportAverages.
func (s *Session) MonthlyAverages(month time.Month) (domain.AverageMap, error) {
	if err := domain.ValidateMonth(month); err != nil {
		return domain.AverageMap{}, err
	}
	s.metrics.Queries.WithLabelValues("averages").Inc()
	if s.averages != nil && s.averages.Month == month {
		return *s.averages, nil
	}
	avg, err := domain.AnnualAvgTempMin(s.store.Records(), month)
	if err != nil {
		return domain.AverageMap{}, err
	}
	s.averages = &avg
	return avg, nil
}

// CachedAverages returns the last computed averages, if still valid.
func (s *Session) CachedAverages() (domain.AverageMap, bool) {
	if s.averages == nil {
		return domain.AverageMap{}, false
	}
	return *s.averages, true
}

// ExportRecords writes the current records to name and returns the path written.
func (s *Session) ExportRecords(name string) (string, error) {
	return s.export("records", func() (string, error) {
		return csvfile.ExportRecords(s.store.Records(), name)
	})
}

// ExportRecordsWorkbook writes the current records to an .xlsx workbook.
func (s *Session) ExportRecordsWorkbook(name string) (string, error) {
	return s.export("xlsx", func() (string, error) {
		return xlsx.ExportRecords(s.store.Records(), name)
	})
}

// ExportAverages writes the cached averages to name.
func (s *Session) ExportAverages(name string) (string, error) {
	if s.averages == nil {
		return "", ErrNoAverages
	}
	avg := *s.averages
	return s.export("averages", func() (string, error) {
		return csvfile.ExportAverages(avg, name)
	})
}

// ExportAveragesWorkbook writes the cached averages to an .xlsx workbook.
func (s *Session) ExportAveragesWorkbook(name string) (string, error) {
	if s.averages == nil {
		return "", ErrNoAverages
	}
	avg := *s.averages
	return s.export("xlsx", func() (string, error) {
		return xlsx.ExportAverages(avg, name)
	})
}

func (s *Session) export(kind string, write func() (string, error)) (string, error) {
	path, err := write()
	if err != nil {
		s.metrics.Exports.WithLabelValues(kind, "error").Inc()
		return "", err
	}
	s.metrics.Exports.WithLabelValues(kind, "success").Inc()
	attrs := []any{"kind", kind, "path", path, "records", s.store.Len()}
	if s.averages != nil {
		attrs = append(attrs, "month", domain.MonthName(s.averages.Month))
	}
	s.logger.Info("exported", attrs...)
	return path, nil
}

func (s *Session) invalidate() {
	s.averages = nil
	s.metrics.StoreRecords.Set(float64(s.store.Len()))
}

// Reject counts a failed delete or correct request by reason.
func (s *Session) Reject(op string, err error) {
	reason := "not_found"
	switch {
	case errors.Is(err, domain.ErrInvalidDate):
		reason = "invalid_date"
	case errors.Is(err, domain.ErrInvalidMeasurement):
		reason = "invalid_measurement"
	}
	s.metrics.MutationFailures.WithLabelValues(op, reason).Inc()
}

func notFound(date domain.Date) error {
	return fmt.Errorf("%w: %s", ErrNotFound, date)
}

// Metrics returns the collectors the session reports to.
func (s *Session) Metrics() *observability.Metrics {
	return s.metrics
}
