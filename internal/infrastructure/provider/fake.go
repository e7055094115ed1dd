package provider

import (
	"context"
	"encoding/json"
	"time"

	"fxagg-service/internal/application"
	"fxagg-service/internal/domain"
)

// Ensure Fake implements application.SnapshotProvider.
var _ application.SnapshotProvider = (*Fake)(nil)

// Fake serves a fixed rate table dated today; useful for local runs without
// an API key.
type Fake struct {
	rates map[string]float32
}

func NewFake(rates map[string]float32) *Fake {
	if rates == nil {
		rates = map[string]float32{"USD": 1.0835, "MXN": 18.25, "GBP": 0.8412}
	}
	return &Fake{rates: rates}
}

func (f *Fake) Latest(context.Context) (application.RateSnapshot, error) {
	today := domain.Day(time.Now())
	raw, _ := json.Marshal(map[string]any{
		"success":   true,
		"timestamp": time.Now().Unix(),
		"base":      "EUR",
		"date":      today,
		"rates":     f.rates,
	})
	return application.RateSnapshot{
		Date:  today,
		Base:  "EUR",
		Rates: f.rates,
		Raw:   raw,
	}, nil
}
