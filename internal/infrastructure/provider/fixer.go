package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"fxagg-service/internal/application"
	"fxagg-service/internal/infrastructure/httpx"
)

const fixerLatestPath = "/api/latest"

// FixerProvider fetches the latest daily rates from the rate-limited
// commercial API. The raw body is kept on the snapshot for passthrough.
type FixerProvider struct {
	BaseURL string
	APIKey  string
	Fetch   *httpx.Client
}

var _ application.SnapshotProvider = (*FixerProvider)(nil)

type fixerLatestResp struct {
	Success   bool               `json:"success"`
	Timestamp int64              `json:"timestamp"`
	Base      string             `json:"base"`
	Date      string             `json:"date"`
	Rates     map[string]float32 `json:"rates"`
	Error     *struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
}

func (p *FixerProvider) Latest(ctx context.Context) (application.RateSnapshot, error) {
	if p.BaseURL == "" || p.APIKey == "" {
		return application.RateSnapshot{}, errors.New("fixer: missing configuration")
	}

	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return application.RateSnapshot{}, fmt.Errorf("fixer: invalid base url: %w", err)
	}
	u.Path = fixerLatestPath
	q := u.Query()
	q.Set("access_key", p.APIKey)
	q.Set("format", "1")
	u.RawQuery = q.Encode()

	fetch := p.Fetch
	if fetch == nil {
		fetch = &httpx.Client{}
	}
	body, err := fetch.Fetch(ctx, u.String())
	if err != nil {
		return application.RateSnapshot{}, fmt.Errorf("%w: fixer: %v", application.ErrUpstream, err)
	}

	var parsed fixerLatestResp
	if err := json.Unmarshal(body, &parsed); err != nil {
		return application.RateSnapshot{}, fmt.Errorf("%w: fixer: decode: %v", application.ErrMalformed, err)
	}
	if parsed.Error != nil {
		return application.RateSnapshot{}, fmt.Errorf("%w: fixer: %d %s", application.ErrUpstream, parsed.Error.Code, parsed.Error.Info)
	}
	if parsed.Date == "" || parsed.Rates == nil {
		return application.RateSnapshot{}, fmt.Errorf("%w: fixer: missing rates or date", application.ErrMalformed)
	}

	return application.RateSnapshot{
		Date:  parsed.Date,
		Base:  parsed.Base,
		Rates: parsed.Rates,
		Raw:   body,
	}, nil
}
