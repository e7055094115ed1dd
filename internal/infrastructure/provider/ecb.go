package provider

import (
	"context"
	"errors"

	"fxagg-service/internal/application"
	"fxagg-service/internal/infrastructure/httpx"
)

// EuroBankFeed fetches the bank-published reference-rate XML document as-is;
// no parsing happens on this path.
type EuroBankFeed struct {
	URL   string
	Fetch *httpx.Client
}

var _ application.BankFeed = (*EuroBankFeed)(nil)

func (f *EuroBankFeed) FetchXML(ctx context.Context) ([]byte, error) {
	if f.URL == "" {
		return nil, errors.New("eurobank: missing feed url")
	}
	fetch := f.Fetch
	if fetch == nil {
		fetch = &httpx.Client{}
	}
	return fetch.Fetch(ctx, f.URL)
}
