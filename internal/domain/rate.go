package domain

import "time"

// DateLayout is the canonical day format. Dates are carried as strings in
// this form so equality and range comparisons stay lexicographic-safe all the
// way down to the store.
const DateLayout = "2006-01-02"

// Day formats t as a canonical UTC calendar day.
func Day(t time.Time) string { return t.UTC().Format(DateLayout) }

// RateRecord is one persisted conversion rate for a single day. Records are
// append-only; there is no update or retraction path.
type RateRecord struct {
	Date     string
	Base     string
	Currency string
	Rate     float32
}

// DailyRateSet groups the rates of one calendar day keyed by currency code.
type DailyRateSet struct {
	Date  string             `json:"date"`
	Rates map[string]float32 `json:"rates"`
}

// RateWindow is a dense, most-recent-first series of daily rate sets. Days
// with no persisted rows carry an empty (never nil) Rates map, so the length
// always equals the requested day count.
type RateWindow []DailyRateSet
