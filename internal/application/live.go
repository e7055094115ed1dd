package application

import (
	"context"

	"fxagg-service/internal/domain"
)

type liveResult struct {
	quotes []domain.LiveQuote
	err    error
}

// LiveRates runs the scrape in its own goroutine and waits for the one-shot
// result. The channel is buffered so the sender always completes; a canceled
// receiver drops the in-flight result instead of leaking a blocked goroutine.
func (s *RatesService) LiveRates(ctx context.Context) ([]domain.LiveQuote, error) {
	out := make(chan liveResult, 1)
	go func() {
		quotes, err := s.scraper.Scrape(ctx)
		out <- liveResult{quotes: quotes, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-out:
		if r.err != nil {
			return nil, r.err
		}
		if r.quotes == nil {
			r.quotes = []domain.LiveQuote{}
		}
		return r.quotes, nil
	}
}
