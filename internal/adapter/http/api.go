package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/couchcryptid/weather-history/internal/domain"
	"github.com/couchcryptid/weather-history/internal/session"
)

// API serves the observation queries and mutations of one session.
// Requests are serialized because a Session is not safe for concurrent use.
type API struct {
	mu        sync.Mutex
	sess      *session.Session
	exportDir string
	logger    *slog.Logger
}

// NewAPI creates the JSON API over sess. Exports are written under exportDir.
func NewAPI(sess *session.Session, exportDir string, logger *slog.Logger) *API {
	return &API{sess: sess, exportDir: exportDir, logger: logger}
}

// CheckReadiness reports ready once a session is attached.
func (a *API) CheckReadiness(_ context.Context) error {
	if a.sess == nil {
		return errors.New("no observations loaded")
	}
	return nil
}

func (a *API) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/session", a.handleSession)
	mux.HandleFunc("GET /api/records", a.handleRange)
	mux.HandleFunc("GET /api/wettest-month", a.handleWettest)
	mux.HandleFunc("GET /api/averages", a.handleAverages)
	mux.HandleFunc("DELETE /api/records/{date}", a.handleDelete)
	mux.HandleFunc("PUT /api/records/{date}", a.handleCorrect)
	mux.HandleFunc("POST /api/export", a.handleExport)
}

type sessionResponse struct {
	Source        string `json:"source"`
	Records       int    `json:"records"`
	AveragesMonth string `json:"averages_month,omitempty"`
}

func (a *API) handleSession(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	resp := sessionResponse{Source: a.sess.Source(), Records: a.sess.Len()}
	if avg, ok := a.sess.CachedAverages(); ok {
		resp.AveragesMonth = domain.MonthName(avg.Month)
	}
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

type recordsResponse struct {
	Count   int             `json:"count"`
	Records []domain.Record `json:"records"`
}

func (a *API) handleRange(w http.ResponseWriter, r *http.Request) {
	from, err := domain.ParseYearMonth(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := domain.ParseYearMonth(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, err)
		return
	}

	a.mu.Lock()
	records, err := a.sess.Range(session.RangeRequest{From: from, To: to})
	a.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordsResponse{Count: len(records), Records: records})
}

type wettestResponse struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

func (a *API) handleWettest(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	best, ok := a.sess.WettestMonth()
	a.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no records loaded"})
		return
	}
	writeJSON(w, http.StatusOK, wettestResponse{
		Year:  best.Key.Year,
		Month: int(best.Key.Month),
		Name:  domain.MonthName(best.Key.Month),
		Total: best.Total,
	})
}

type averagesResponse struct {
	Month   string               `json:"month"`
	Entries []domain.YearAverage `json:"entries"`
	Overall *float64             `json:"overall"`
}

func (a *API) handleAverages(w http.ResponseWriter, r *http.Request) {
	month, err := domain.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, err)
		return
	}

	a.mu.Lock()
	avg, err := a.sess.MonthlyAverages(month)
	a.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	resp := averagesResponse{Month: domain.MonthName(avg.Month), Entries: avg.Entries}
	if overall, ok := domain.OverallAverage(avg); ok {
		resp.Overall = &overall
	}
	writeJSON(w, http.StatusOK, resp)
}

// pathDate accepts dd-mm-yyyy in URL paths as well as an escaped dd/mm/yyyy.
func pathDate(r *http.Request) string {
	return strings.ReplaceAll(r.PathValue("date"), "-", "/")
}

func (a *API) handleDelete(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	req, err := session.ParseDeleteRequest(pathDate(r))
	if err != nil {
		a.sess.Reject("delete", err)
		writeError(w, err)
		return
	}
	res, err := a.sess.Delete(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// measurementsBody requires every field; a missing value rejects the whole correction.
type measurementsBody struct {
	Precipitation *float64 `json:"precipitation"`
	TempMax       *float64 `json:"temp_max"`
	TempMin       *float64 `json:"temp_min"`
	Humidity      *float64 `json:"humidity"`
	Wind          *float64 `json:"wind"`
}

func (b measurementsBody) measurements() (domain.Measurements, error) {
	vals := [5]*float64{b.Precipitation, b.TempMax, b.TempMin, b.Humidity, b.Wind}
	for i, v := range vals {
		if v == nil {
			return domain.Measurements{}, fmt.Errorf("%w: %s is required", domain.ErrInvalidMeasurement, domain.MeasurementFields[i])
		}
	}
	return domain.Measurements{
		Precipitation: *b.Precipitation,
		TempMax:       *b.TempMax,
		TempMin:       *b.TempMin,
		Humidity:      *b.Humidity,
		Wind:          *b.Wind,
	}, nil
}

func (a *API) handleCorrect(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	date, err := domain.ParseDate(pathDate(r))
	if err != nil {
		a.sess.Reject("correct", err)
		writeError(w, err)
		return
	}

	var body measurementsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrInvalidMeasurement, err)
		a.sess.Reject("correct", err)
		writeError(w, err)
		return
	}
	m, err := body.measurements()
	if err != nil {
		a.sess.Reject("correct", err)
		writeError(w, err)
		return
	}

	res, err := a.sess.Correct(session.CorrectRequest{Date: date, Measurements: m})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// exportRequest selects what to export. Format is "csv" (default) or "xlsx".
type exportRequest struct {
	Kind   string `json:"kind"`
	Format string `json:"format"`
	Name   string `json:"name"`
}

var errBadExport = errors.New("invalid export request")

func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadExport, err))
		return
	}
	if req.Name == "" || req.Name != filepath.Base(req.Name) || strings.HasPrefix(req.Name, ".") {
		writeError(w, fmt.Errorf("%w: name must be a plain file name", errBadExport))
		return
	}
	target := filepath.Join(a.exportDir, req.Name)

	a.mu.Lock()
	defer a.mu.Unlock()

	var (
		path string
		err  error
	)
	switch {
	case req.Format != "" && req.Format != "csv" && req.Format != "xlsx":
		err = fmt.Errorf("%w: unknown format %q", errBadExport, req.Format)
	case req.Kind == "records" && req.Format == "xlsx":
		path, err = a.sess.ExportRecordsWorkbook(target)
	case req.Kind == "records":
		path, err = a.sess.ExportRecords(target)
	case req.Kind == "averages" && req.Format == "xlsx":
		path, err = a.sess.ExportAveragesWorkbook(target)
	case req.Kind == "averages":
		path, err = a.sess.ExportAverages(target)
	default:
		err = fmt.Errorf("%w: unknown kind %q", errBadExport, req.Kind)
	}
	if err != nil {
		a.logger.Warn("export failed", "kind", req.Kind, "format", req.Format, "name", req.Name, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrNoAverages):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidMeasurement),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrInvalidYear),
		errors.Is(err, domain.ErrInvalidYearMonth),
		errors.Is(err, errBadExport):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
