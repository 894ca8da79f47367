package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/weather-history/internal/adapter/http"
	"github.com/couchcryptid/weather-history/internal/domain"
	"github.com/couchcryptid/weather-history/internal/observability"
	"github.com/couchcryptid/weather-history/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, nil, observability.DiscardLogger())
}

func testRecords() []domain.Record {
	mk := func(day int, month time.Month, year int, precip, tmin float64) domain.Record {
		return domain.Record{
			Date:         domain.Date{Year: year, Month: month, Day: day},
			Measurements: domain.Measurements{Precipitation: precip, TempMax: tmin + 10, TempMin: tmin, Humidity: 80, Wind: 2},
		}
	}
	return []domain.Record{
		mk(1, time.January, 2010, 1.0, 12.0),
		mk(2, time.January, 2010, 2.0, 13.0),
		mk(1, time.February, 2010, 4.0, 20.0),
		mk(2, time.February, 2010, 6.0, 21.0),
		mk(1, time.March, 2010, 3.0, 18.0),
	}
}

func newAPIServer(t *testing.T) (*httpadapter.Server, *session.Session, string) {
	t.Helper()
	logger := observability.DiscardLogger()
	sess := session.New(testRecords(), logger, observability.NewMetricsForTesting())
	dir := t.TempDir()
	api := httpadapter.NewAPI(sess, dir, logger)
	return httpadapter.NewServer(":0", api, api, logger), sess, dir
}

func do(t *testing.T, srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "observations loaded", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(fmt.Errorf("not ready yet"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "observations not loaded", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestReadyzWithoutSession(t *testing.T) {
	logger := observability.DiscardLogger()
	api := httpadapter.NewAPI(nil, t.TempDir(), logger)
	srv := httpadapter.NewServer(":0", api, nil, logger)

	rec := do(t, srv, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAPIRoutesAbsentWithoutAPI(t *testing.T) {
	srv := newTestServer(nil)
	rec := do(t, srv, http.MethodGet, "/api/wettest-month", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRecords(t *testing.T) {
	srv, _, _ := newAPIServer(t)

	rec := do(t, srv, http.MethodGet, "/api/records?from=2010-02&to=2010-03", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int             `json:"count"`
		Records []domain.Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Count)
	require.Len(t, body.Records, 3)
	assert.Equal(t, domain.Date{Year: 2010, Month: time.February, Day: 1}, body.Records[0].Date)
}

func TestGetRecords_StartAfterEnd(t *testing.T) {
	srv, _, _ := newAPIServer(t)

	rec := do(t, srv, http.MethodGet, "/api/records?from=2010-03&to=2010-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode(t, rec)["count"])
}

func TestGetRecords_BadInput(t *testing.T) {
	srv, _, _ := newAPIServer(t)

	for _, q := range []string{"from=2010-13&to=2010-03", "from=abc&to=2010-03", "to=2010-03"} {
		rec := do(t, srv, http.MethodGet, "/api/records?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestGetWettestMonth(t *testing.T) {
	srv, _, _ := newAPIServer(t)

	rec := do(t, srv, http.MethodGet, "/api/wettest-month", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.EqualValues(t, 2010, body["year"])
	assert.EqualValues(t, 2, body["month"])
	assert.Equal(t, "fevereiro", body["name"])
	assert.InDelta(t, 10.0, body["total"], 1e-9)
}

func TestGetWettestMonth_Empty(t *testing.T) {
	logger := observability.DiscardLogger()
	api := httpadapter.NewAPI(session.New(nil, logger, observability.NewMetricsForTesting()), t.TempDir(), logger)
	srv := httpadapter.NewServer(":0", api, api, logger)

	rec := do(t, srv, http.MethodGet, "/api/wettest-month", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAverages(t *testing.T) {
	srv, _, _ := newAPIServer(t)

	rec := do(t, srv, http.MethodGet, "/api/averages?month=janeiro", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Month   string               `json:"month"`
		Entries []domain.YearAverage `json:"entries"`
		Overall *float64             `json:"overall"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "janeiro", body.Month)
	require.Len(t, body.Entries, 11)
	require.NotNil(t, body.Entries[4].Value)
	assert.Equal(t, "janeiro2010", body.Entries[4].Key)
	assert.InDelta(t, 12.5, *body.Entries[4].Value, 1e-9)
	assert.Nil(t, body.Entries[0].Value)
	require.NotNil(t, body.Overall)
	assert.InDelta(t, 12.5, *body.Overall, 1e-9)
}

func TestGetAverages_NoData(t *testing.T) {
	srv, _, _ := newAPIServer(t)

	rec := do(t, srv, http.MethodGet, "/api/averages?month=12", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode(t, rec)["overall"])

	rec = do(t, srv, http.MethodGet, "/api/averages?month=13", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteRecord(t *testing.T) {
	srv, sess, _ := newAPIServer(t)

	rec := do(t, srv, http.MethodDelete, "/api/records/01-01-2010", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["removed"])
	assert.Equal(t, 4, sess.Len())

	rec = do(t, srv, http.MethodDelete, "/api/records/01-01-2010", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/records/1-1-2010", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 4, sess.Len())
}

func TestCorrectRecord(t *testing.T) {
	srv, sess, _ := newAPIServer(t)

	body := `{"precipitation":7.5,"temp_max":30,"temp_min":17,"humidity":60,"wind":1.2}`
	rec := do(t, srv, http.MethodPut, "/api/records/02-01-2010", body)
	require.Equal(t, http.StatusOK, rec.Code)

	got := sess.Records()[1]
	assert.InDelta(t, 7.5, got.Precipitation, 1e-9)
	assert.InDelta(t, 17.0, got.TempMin, 1e-9)
}

func TestCorrectRecord_Rejected(t *testing.T) {
	srv, sess, _ := newAPIServer(t)
	before := sess.Records()

	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"missing field", "/api/records/02-01-2010", `{"precipitation":1,"temp_max":2,"temp_min":3,"humidity":4}`, http.StatusBadRequest},
		{"not a number", "/api/records/02-01-2010", `{"precipitation":"x","temp_max":2,"temp_min":3,"humidity":4,"wind":5}`, http.StatusBadRequest},
		{"bad date", "/api/records/2010-01-02", `{"precipitation":1,"temp_max":2,"temp_min":3,"humidity":4,"wind":5}`, http.StatusBadRequest},
		{"unknown date", "/api/records/15-06-2012", `{"precipitation":1,"temp_max":2,"temp_min":3,"humidity":4,"wind":5}`, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPut, tc.target, tc.body)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
	assert.Equal(t, before, sess.Records())
}

func TestExport(t *testing.T) {
	srv, _, dir := newAPIServer(t)

	rec := do(t, srv, http.MethodPost, "/api/export", `{"kind":"averages","name":"janeiro"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/averages?month=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/export", `{"kind":"averages","name":"janeiro"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, filepath.Join(dir, "janeiro.csv"), decode(t, rec)["path"])

	rec = do(t, srv, http.MethodPost, "/api/export", `{"kind":"records","name":"all.csv"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	data, err := os.ReadFile(filepath.Join(dir, "all.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "01/01/2010,1.00,22.00,12.00,80.00,2.00\r\n"))
}

func TestExport_BadRequest(t *testing.T) {
	srv, _, _ := newAPIServer(t)

	for _, body := range []string{
		`{"kind":"records","name":"../escape"}`,
		`{"kind":"records","name":""}`,
		`{"kind":"chart","name":"x"}`,
		`not json`,
	} {
		rec := do(t, srv, http.MethodPost, "/api/export", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestGetSession(t *testing.T) {
	srv, _, _ := newAPIServer(t)

	rec := do(t, srv, http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"source":"","records":5}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/averages?month=3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/session", "")
	assert.JSONEq(t, `{"source":"","records":5,"averages_month":"março"}`, rec.Body.String())

	rec = do(t, srv, http.MethodDelete, "/api/records/01-03-2010", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/session", "")
	assert.JSONEq(t, `{"source":"","records":4}`, rec.Body.String())
}

func TestExport_Workbooks(t *testing.T) {
	srv, _, dir := newAPIServer(t)

	rec := do(t, srv, http.MethodPost, "/api/export", `{"kind":"records","format":"xlsx","name":"registros"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, filepath.Join(dir, "registros.xlsx"), decode(t, rec)["path"])
	assert.FileExists(t, filepath.Join(dir, "registros.xlsx"))

	rec = do(t, srv, http.MethodPost, "/api/export", `{"kind":"averages","format":"xlsx","name":"medias"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/averages?month=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/export", `{"kind":"averages","format":"xlsx","name":"medias"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.FileExists(t, filepath.Join(dir, "medias.xlsx"))

	rec = do(t, srv, http.MethodPost, "/api/export", `{"kind":"records","format":"ods","name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
