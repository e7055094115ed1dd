package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fxagg-service/internal/application"
	"fxagg-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func setup() http.Handler {
	svc := NewInMemoryService()
	srv := NewServer(svc)
	return NewRouter(srv)
}

func TestHealthz(t *testing.T) {
	h := setup()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}

func TestEuroBankRates_XMLPassthrough(t *testing.T) {
	h := setup()
	req := httptest.NewRequest(http.MethodGet, "/api/exchgrate", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "gesmes:Envelope")
}

func TestDailyRates_CacheHitEnvelope(t *testing.T) {
	h := setup()
	req := httptest.NewRequest(http.MethodGet, "/api/daily-rates", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var out application.RatesMap
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, out.Success)
	require.Equal(t, "EUR", out.Base)
	require.Len(t, out.Rates, 2)
}

func TestWeeklyRates_ExactBucketCount(t *testing.T) {
	h := setup()
	req := httptest.NewRequest(http.MethodGet, "/api/weekly-rates/7", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out application.WindowRates
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, out.Success)
	require.Len(t, out.Rates, 7)
	// Yesterday's seeded row lands in the first bucket.
	require.Len(t, out.Rates[0].Rates, 1)
}

func TestWeeklyRates_ClampsTo90(t *testing.T) {
	h := setup()
	req := httptest.NewRequest(http.MethodGet, "/api/weekly-rates/255", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out application.WindowRates
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Rates, application.MaxWindowDays)
}

func TestWeeklyRates_NonNumericParam(t *testing.T) {
	h := setup()
	req := httptest.NewRequest(http.MethodGet, "/api/weekly-rates/soon", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var out struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "bad_request", out.Error.Code)
}

func TestLiveRates_JSONArray(t *testing.T) {
	h := setup()
	req := httptest.NewRequest(http.MethodGet, "/api/live-rates", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []domain.LiveQuote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	require.Equal(t, "EUR/USD", out[0].Pair)
}

func TestLiveRates_SSEFraming(t *testing.T) {
	h := setup()
	req := httptest.NewRequest(http.MethodGet, "/api/live-rates", nil)
	req.Header.Set("Accept", "text/event-stream")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	require.True(t, strings.HasPrefix(body, "event: message\n"))
	require.Equal(t, 1, strings.Count(body, "data: "))
	require.Contains(t, body, "EUR/USD")
}
