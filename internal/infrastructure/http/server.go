package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"fxagg-service/internal/application"
	"fxagg-service/internal/infrastructure/logx"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Server struct {
	svc  *application.RatesService
	ping func(ctx context.Context) error
}

type ServerOption func(*Server)

// WithPing wires the readiness probe to a storage ping.
func WithPing(f func(ctx context.Context) error) ServerOption {
	return func(s *Server) { s.ping = f }
}

func NewServer(svc *application.RatesService, opts ...ServerOption) *Server {
	s := &Server{svc: svc}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EuroBankRates proxies the bank-published XML feed body unchanged.
func (s *Server) EuroBankRates(w http.ResponseWriter, r *http.Request) {
	body, err := s.svc.BankFeed(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// DailyRates serves the store-built envelope on a cache hit and the raw
// upstream JSON on a miss.
func (s *Server) DailyRates(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.DailyRates(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if res.Cached {
		writeJSON(w, http.StatusOK, res.Set)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Raw)
}

func (s *Server) WeeklyRates(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.ParseUint(chi.URLParam(r, "days"), 10, 8)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "day count must be 0-255")
		return
	}
	out, err := s.svc.WindowRates(r.Context(), int(days))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// LiveRates serves the scraped quotes as a JSON array, or as a single
// server-sent event when the client asks for an event stream.
func (s *Server) LiveRates(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.svc.LiveRates(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		writeSSE(w, quotes)
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	rid, _ := r.Context().Value(requestIDKey).(string)
	logx.L().Error("request_failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", rid),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, application.ErrUpstream):
		writeError(w, http.StatusBadGateway, "upstream_error", "upstream fetch failed")
	case errors.Is(err, application.ErrMalformed):
		writeError(w, http.StatusBadGateway, "malformed_upstream", "upstream payload could not be parsed")
	case errors.Is(err, application.ErrStore):
		writeError(w, http.StatusInternalServerError, "store_error", "rate store unavailable")
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	default:
		writeError(w, http.StatusInternalServerError, "internal", http.StatusText(http.StatusInternalServerError))
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeSSE(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: message\nretry: 1000\ndata: %s\n\n", data)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
