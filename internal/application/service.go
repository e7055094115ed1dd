package application

import (
	"context"
	"fmt"

	"fxagg-service/internal/domain"
)

// RatesMap is the daily-rates response envelope, matching the upstream wire
// shape so cache hits and passthrough misses look alike to clients.
type RatesMap struct {
	Success   bool               `json:"success"`
	Timestamp int64              `json:"timestamp"`
	Base      string             `json:"base"`
	Date      string             `json:"date"`
	Rates     map[string]float32 `json:"rates"`
}

// DailyResult carries either a store-sourced envelope (Cached) or the raw
// upstream body to pass through verbatim.
type DailyResult struct {
	Cached bool
	Set    RatesMap
	Raw    []byte
}

type RatesService struct {
	store    RateStore
	provider SnapshotProvider
	feed     BankFeed
	scraper  LiveScraper
	lock     FetchLock
	base     string
	clock    Clock
}

type Option func(*RatesService)

func WithClock(c Clock) Option { return func(s *RatesService) { s.clock = c } }

func NewRatesService(store RateStore, provider SnapshotProvider, feed BankFeed, scraper LiveScraper, lock FetchLock, base string, opts ...Option) *RatesService {
	s := &RatesService{
		store:    store,
		provider: provider,
		feed:     feed,
		scraper:  scraper,
		lock:     lock,
		base:     base,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.lock == nil {
		s.lock = NoopFetchLock{}
	}
	return s
}

// DailyRates serves today's rates from the store when at least one row for
// today exists, otherwise fetches from the upstream provider, persists the
// batch, and passes the fetched body through as the response.
func (s *RatesService) DailyRates(ctx context.Context) (DailyResult, error) {
	now := s.clock.Now()
	today := domain.Day(now)

	n, err := s.store.CountForDate(ctx, today)
	if err != nil {
		return DailyResult{}, fmt.Errorf("%w: count for %s: %v", ErrStore, today, err)
	}
	if n > 0 {
		recs, err := s.store.ListForDate(ctx, today)
		if err != nil {
			return DailyResult{}, fmt.Errorf("%w: list for %s: %v", ErrStore, today, err)
		}
		rates := make(map[string]float32, len(recs))
		for _, r := range recs {
			rates[r.Currency] = r.Rate
		}
		return DailyResult{
			Cached: true,
			Set: RatesMap{
				Success:   true,
				Timestamp: now.UnixMilli(),
				Base:      s.base,
				Date:      today,
				Rates:     rates,
			},
		}, nil
	}

	snap, err := s.provider.Latest(ctx)
	if err != nil {
		return DailyResult{}, err
	}

	recs := make([]domain.RateRecord, 0, len(snap.Rates))
	for currency, rate := range snap.Rates {
		recs = append(recs, domain.RateRecord{
			Date:     snap.Date,
			Base:     s.base,
			Currency: currency,
			Rate:     rate,
		})
	}

	// Reserve the day before writing; the loser of a concurrent miss serves
	// its fetched body without persisting. A lock backend error degrades to
	// the tolerant write-anyway behavior.
	reserved, lockErr := s.lock.TryReserve(ctx, DayLockKey(snap.Date))
	if lockErr != nil || reserved {
		if _, err := s.store.InsertBatch(ctx, recs); err != nil {
			return DailyResult{}, fmt.Errorf("%w: insert batch for %s: %v", ErrStore, snap.Date, err)
		}
	}
	return DailyResult{Raw: snap.Raw}, nil
}

// BankFeed returns the bank-published XML document unmodified.
func (s *RatesService) BankFeed(ctx context.Context) ([]byte, error) {
	body, err := s.feed.FetchXML(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: bank feed: %v", ErrUpstream, err)
	}
	return body, nil
}
