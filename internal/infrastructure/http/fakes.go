package httpserver

import (
	"context"
	"time"

	"fxagg-service/internal/application"
	"fxagg-service/internal/domain"
)

var _ application.RateStore = (*memRateStore)(nil)
var _ application.SnapshotProvider = (*memProvider)(nil)
var _ application.BankFeed = (*memFeed)(nil)
var _ application.LiveScraper = (*memScraper)(nil)

// NewInMemoryService builds a RatesService over in-memory collaborators,
// seeded with two days of rates. Used by router tests and local smoke runs.
func NewInMemoryService() *application.RatesService {
	now := time.Now().UTC()
	today := domain.Day(now)
	yesterday := domain.Day(now.AddDate(0, 0, -1))
	store := &memRateStore{rows: []domain.RateRecord{
		{Date: today, Base: "EUR", Currency: "USD", Rate: 1.08},
		{Date: today, Base: "EUR", Currency: "MXN", Rate: 18.25},
		{Date: yesterday, Base: "EUR", Currency: "USD", Rate: 1.07},
	}}
	return application.NewRatesService(
		store,
		&memProvider{},
		&memFeed{body: []byte(`<?xml version="1.0" encoding="UTF-8"?><gesmes:Envelope xmlns:gesmes="http://www.gesmes.org/xml/2002-08-01"></gesmes:Envelope>`)},
		&memScraper{quotes: []domain.LiveQuote{
			{Pair: "EUR/USD", Bid: 1.0834, Ask: 1.0836, High: 1.0901, Low: 1.0799},
		}},
		application.NoopFetchLock{},
		"EUR",
	)
}

type memRateStore struct {
	rows []domain.RateRecord
}

func (m *memRateStore) CountForDate(_ context.Context, date string) (int64, error) {
	var n int64
	for _, r := range m.rows {
		if r.Date == date {
			n++
		}
	}
	return n, nil
}

func (m *memRateStore) ListForDate(_ context.Context, date string) ([]domain.RateRecord, error) {
	var out []domain.RateRecord
	for _, r := range m.rows {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRateStore) ListRange(_ context.Context, start, end string) ([]domain.RateRecord, error) {
	var out []domain.RateRecord
	for _, r := range m.rows {
		if r.Date >= start && r.Date <= end {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRateStore) InsertBatch(_ context.Context, recs []domain.RateRecord) (int64, error) {
	m.rows = append(m.rows, recs...)
	return int64(len(recs)), nil
}

type memProvider struct{}

func (memProvider) Latest(context.Context) (application.RateSnapshot, error) {
	today := domain.Day(time.Now())
	return application.RateSnapshot{
		Date:  today,
		Base:  "EUR",
		Rates: map[string]float32{"USD": 1.08},
		Raw:   []byte(`{"success":true,"base":"EUR","date":"` + today + `","rates":{"USD":1.08}}`),
	}, nil
}

type memFeed struct{ body []byte }

func (f *memFeed) FetchXML(context.Context) ([]byte, error) { return f.body, nil }

type memScraper struct{ quotes []domain.LiveQuote }

func (s *memScraper) Scrape(context.Context) ([]domain.LiveQuote, error) { return s.quotes, nil }
