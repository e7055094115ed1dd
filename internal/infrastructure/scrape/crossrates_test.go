package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fxagg-service/internal/domain"
	"fxagg-service/internal/infrastructure/httpx"

	"github.com/stretchr/testify/require"
)

const fixtureTwoPairs = `<html><body>
<table class="crossRatesTbl">
  <tr id="pair_1">
    <td><a href="/eur-usd">EUR/USD</a></td>
    <td class="pid-1-bid">1.0834</td>
    <td class="pid-1-ask">1.0836</td>
    <td class="pid-1-high">1.0901</td>
    <td class="pid-1-low">1.0799</td>
  </tr>
  <tr id="pair_2">
    <td><a href="/gbp-usd">GBP/USD</a></td>
    <td class="pid-2-bid">1,260.5</td>
    <td class="pid-2-ask">1.2607</td>
    <td class="pid-2-high">1.2688</td>
    <td class="pid-2-low">1.2599</td>
  </tr>
</table>
</body></html>`

func TestExtractCrossRates_TwoPairs(t *testing.T) {
	t.Parallel()
	quotes, skipped, err := ExtractCrossRates([]byte(fixtureTwoPairs))
	require.NoError(t, err)
	require.Zero(t, skipped)
	require.Len(t, quotes, 2)

	require.Equal(t, "EUR/USD", quotes[0].Pair)
	require.InDelta(t, 1.0834, quotes[0].Bid, 1e-9)
	require.InDelta(t, 1.0836, quotes[0].Ask, 1e-9)
	require.InDelta(t, 1.0901, quotes[0].High, 1e-9)
	require.InDelta(t, 1.0799, quotes[0].Low, 1e-9)

	// Thousands separator is stripped before parsing.
	require.Equal(t, "GBP/USD", quotes[1].Pair)
	require.InDelta(t, 1260.5, quotes[1].Bid, 1e-9)
}

func TestExtractCrossRates_BadFieldGetsSentinel(t *testing.T) {
	t.Parallel()
	fixture := `<html><body>
<div class="crossRatesTbl">
  <div id="pair_7">
    <a>USD/JPY</a>
    <span class="pid-7-bid">n/a</span>
    <span class="pid-7-ask">149.52</span>
    <span class="pid-7-high">150.01</span>
    <span class="pid-7-low">148.90</span>
  </div>
</div>
</body></html>`
	quotes, skipped, err := ExtractCrossRates([]byte(fixture))
	require.NoError(t, err)
	require.Zero(t, skipped)
	require.Len(t, quotes, 1)
	require.EqualValues(t, domain.SentinelRate, quotes[0].Bid)
	require.InDelta(t, 149.52, quotes[0].Ask, 1e-9)
	require.InDelta(t, 150.01, quotes[0].High, 1e-9)
	require.InDelta(t, 148.90, quotes[0].Low, 1e-9)
}

func TestExtractCrossRates_MissingNodeSkipsPairOnly(t *testing.T) {
	t.Parallel()
	fixture := `<html><body>
<div class="crossRatesTbl">
  <div id="pair_1">
    <a>EUR/USD</a>
    <span class="pid-1-bid">1.0834</span>
    <span class="pid-1-ask">1.0836</span>
    <span class="pid-1-high">1.0901</span>
    <span class="pid-1-low">1.0799</span>
  </div>
  <div id="pair_2">
    <a>GBP/USD</a>
    <span class="pid-2-ask">1.2607</span>
    <span class="pid-2-high">1.2688</span>
    <span class="pid-2-low">1.2599</span>
  </div>
</div>
</body></html>`
	quotes, skipped, err := ExtractCrossRates([]byte(fixture))
	require.NoError(t, err)
	require.Equal(t, 1, skipped)
	require.Len(t, quotes, 1)
	require.Equal(t, "EUR/USD", quotes[0].Pair)
}

func TestExtractCrossRates_DuplicatePairIDsDeduplicated(t *testing.T) {
	t.Parallel()
	fixture := `<html><body>
<div class="crossRatesTbl">
  <div id="pair_1" class="pair_1">
    <a>EUR/USD</a>
    <span class="pid-1-bid">1.0834</span>
    <span class="pid-1-ask">1.0836</span>
    <span class="pid-1-high">1.0901</span>
    <span class="pid-1-low">1.0799</span>
  </div>
</div>
</body></html>`
	quotes, skipped, err := ExtractCrossRates([]byte(fixture))
	require.NoError(t, err)
	require.Zero(t, skipped)
	require.Len(t, quotes, 1)
}

func TestExtractCrossRates_NoContainerIsError(t *testing.T) {
	t.Parallel()
	_, _, err := ExtractCrossRates([]byte(`<html><body><p>maintenance</p></body></html>`))
	require.ErrorIs(t, err, ErrNoRateTable)
}

func TestScrape_EmptyBodyYieldsEmptyResult(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(nil)
	}))
	defer srv.Close()

	s := &Scraper{URL: srv.URL, Fetch: &httpx.Client{HTTP: srv.Client()}}
	quotes, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.NotNil(t, quotes)
	require.Empty(t, quotes)
}

func TestScrape_FetchFailureYieldsEmptyResult(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := &Scraper{URL: srv.URL, Fetch: &httpx.Client{HTTP: srv.Client()}}
	quotes, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Empty(t, quotes)
}

func TestScrape_ExtractsFromServedPage(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(fixtureTwoPairs))
	}))
	defer srv.Close()

	s := &Scraper{URL: srv.URL, Fetch: &httpx.Client{HTTP: srv.Client()}}
	quotes, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 2)
}
