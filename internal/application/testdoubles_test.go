package application

import (
	"context"
	"errors"
	"sort"
	"time"

	"fxagg-service/internal/domain"
)

var ErrRepo = errors.New("repo error")

type fakeRateStore struct {
	rows     []domain.RateRecord
	inserted [][]domain.RateRecord

	countErr  error
	listErr   error
	rangeErr  error
	insertErr error
}

func (f *fakeRateStore) CountForDate(_ context.Context, date string) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	var n int64
	for _, r := range f.rows {
		if r.Date == date {
			n++
		}
	}
	return n, nil
}

func (f *fakeRateStore) ListForDate(_ context.Context, date string) ([]domain.RateRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.RateRecord
	for _, r := range f.rows {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRateStore) ListRange(_ context.Context, start, end string) ([]domain.RateRecord, error) {
	if f.rangeErr != nil {
		return nil, f.rangeErr
	}
	var out []domain.RateRecord
	for _, r := range f.rows {
		if r.Date >= start && r.Date <= end {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (f *fakeRateStore) InsertBatch(_ context.Context, recs []domain.RateRecord) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted = append(f.inserted, recs)
	f.rows = append(f.rows, recs...)
	return int64(len(recs)), nil
}

type fakeProvider struct {
	snap RateSnapshot
	err  error

	calls int
}

func (f *fakeProvider) Latest(context.Context) (RateSnapshot, error) {
	f.calls++
	if f.err != nil {
		return RateSnapshot{}, f.err
	}
	return f.snap, nil
}

type fakeFeed struct {
	body []byte
	err  error
}

func (f *fakeFeed) FetchXML(context.Context) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

type fakeScraper struct {
	quotes []domain.LiveQuote
	err    error
	block  chan struct{}
}

func (f *fakeScraper) Scrape(context.Context) ([]domain.LiveQuote, error) {
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

type fakeLock struct {
	held map[string]bool
	err  error

	reserved []string
}

func (f *fakeLock) TryReserve(_ context.Context, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.held[key] {
		return false, nil
	}
	if f.held == nil {
		f.held = map[string]bool{}
	}
	f.held[key] = true
	f.reserved = append(f.reserved, key)
	return true, nil
}

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }
