package application

import (
	"context"
	"fmt"

	"fxagg-service/internal/domain"
)

// MaxWindowDays caps the historical window; larger requests are clamped, not
// rejected.
const MaxWindowDays = 90

// WindowRates is the historical-window response envelope. DateRange keeps the
// original "start - end" wire key.
type WindowRates struct {
	Success   bool              `json:"success"`
	Timestamp int64             `json:"timestamp"`
	Base      string            `json:"base"`
	DateRange string            `json:"date"`
	Rates     domain.RateWindow `json:"rates"`
}

// WindowRates reconstructs a dense series of the last `days` days from the
// possibly sparse store contents. Rows are grouped by date up front, so bucket
// placement never depends on the store's sort order; exactly `days` buckets
// are emitted, from yesterday down to today-days.
func (s *RatesService) WindowRates(ctx context.Context, days int) (WindowRates, error) {
	if days > MaxWindowDays {
		days = MaxWindowDays
	}
	if days < 0 {
		days = 0
	}
	now := s.clock.Now().UTC()
	today := domain.Day(now)
	start := domain.Day(now.AddDate(0, 0, -days))

	rows, err := s.store.ListRange(ctx, start, today)
	if err != nil {
		return WindowRates{}, fmt.Errorf("%w: range %s..%s: %v", ErrStore, start, today, err)
	}

	byDate := make(map[string]map[string]float32, len(rows))
	for _, r := range rows {
		day := byDate[r.Date]
		if day == nil {
			day = make(map[string]float32)
			byDate[r.Date] = day
		}
		day[r.Currency] = r.Rate
	}

	window := make(domain.RateWindow, 0, days)
	for i := 1; i <= days; i++ {
		date := domain.Day(now.AddDate(0, 0, -i))
		rates := byDate[date]
		if rates == nil {
			rates = map[string]float32{}
		}
		window = append(window, domain.DailyRateSet{Date: date, Rates: rates})
	}

	return WindowRates{
		Success:   true,
		Timestamp: now.UnixMilli(),
		Base:      s.base,
		DateRange: start + " - " + today,
		Rates:     window,
	}, nil
}
