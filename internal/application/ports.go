package application

import (
	"context"

	"fxagg-service/internal/domain"
)

// RateStore is the persisted table of per-day conversion rates. Access is
// read-or-append only; nothing updates rows in place.
type RateStore interface {
	// CountForDate reports how many rows exist for the given day.
	CountForDate(ctx context.Context, date string) (int64, error)
	ListForDate(ctx context.Context, date string) ([]domain.RateRecord, error)
	// ListRange returns all rows with start <= date <= end, ordered by date
	// descending.
	ListRange(ctx context.Context, start, end string) ([]domain.RateRecord, error)
	InsertBatch(ctx context.Context, recs []domain.RateRecord) (int64, error)
}

// RateSnapshot is a parsed upstream latest-rates response. Raw keeps the
// exact body so a cache miss can serve it back unmodified.
type RateSnapshot struct {
	Date  string
	Base  string
	Rates map[string]float32
	Raw   []byte
}

type SnapshotProvider interface {
	Latest(ctx context.Context) (RateSnapshot, error)
}

// BankFeed fetches the bank-published reference-rate document as raw bytes.
type BankFeed interface {
	FetchXML(ctx context.Context) ([]byte, error)
}

type LiveScraper interface {
	Scrape(ctx context.Context) ([]domain.LiveQuote, error)
}

// FetchLock serializes the persist step of concurrent same-day cache misses.
// The loser still answers from its own fetched body; it just skips the write.
type FetchLock interface {
	// TryReserve returns true if key was absent and is now reserved.
	TryReserve(ctx context.Context, key string) (bool, error)
}

// NoopFetchLock always wins the reservation; with it the service falls back
// to the tolerant duplicate-insert behavior.
type NoopFetchLock struct{}

func (NoopFetchLock) TryReserve(context.Context, string) (bool, error) { return true, nil }

// DayLockKey names the reservation for one calendar day's upstream fetch.
func DayLockKey(date string) string { return "daily-fetch:" + date }

// Worker represents a background processor. Implementations must run until
// the context is canceled.
type Worker interface {
	Start(ctx context.Context)
}
