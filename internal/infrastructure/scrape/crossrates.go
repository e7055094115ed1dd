package scrape

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"fxagg-service/internal/application"
	"fxagg-service/internal/domain"
	"fxagg-service/internal/infrastructure/httpx"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

var pairIDRe = regexp.MustCompile(`pair_\d+`)

// ErrNoRateTable means the page markup is structurally different from what
// the extractor expects; missing individual pairs are tolerated, this is not.
var ErrNoRateTable = errors.New("scrape: cross-rates table not found")

// Scraper pulls live cross-rate quotes out of the configured quotes page.
// Each pair row carries id pair_<n>; its cells carry classes
// pid-<n>-bid|ask|high|low and the pair label sits in the row's first anchor.
type Scraper struct {
	URL   string
	Fetch *httpx.Client
	Log   *zap.Logger
}

var _ application.LiveScraper = (*Scraper)(nil)

// Scrape fetches the page and extracts one quote per pair. An unreachable or
// empty page yields an empty result, not an error.
func (s *Scraper) Scrape(ctx context.Context) ([]domain.LiveQuote, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	fetch := s.Fetch
	if fetch == nil {
		fetch = &httpx.Client{}
	}
	body, err := fetch.Fetch(ctx, s.URL)
	if err != nil {
		log.Warn("scrape.fetch_failed", zap.String("url", s.URL), zap.Error(err))
		return []domain.LiveQuote{}, nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []domain.LiveQuote{}, nil
	}

	quotes, skipped, err := ExtractCrossRates(body)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Warn("scrape.pairs_skipped", zap.Int("skipped", skipped))
	}
	return quotes, nil
}

// ExtractCrossRates parses the quotes markup. Pairs missing any expected node
// are skipped and counted rather than failing the whole extraction; only a
// missing table container is fatal.
func ExtractCrossRates(body []byte) ([]domain.LiveQuote, int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}

	table := doc.Find(".crossRatesTbl").First()
	if table.Length() == 0 {
		return nil, 0, ErrNoRateTable
	}
	markup, err := table.Html()
	if err != nil {
		return nil, 0, err
	}

	seen := make(map[string]bool)
	quotes := make([]domain.LiveQuote, 0)
	skipped := 0
	for _, pairID := range pairIDRe.FindAllString(markup, -1) {
		if seen[pairID] {
			continue
		}
		seen[pairID] = true

		idx := strings.SplitN(pairID, "_", 2)[1]
		row := doc.Find("#" + pairID).First()
		if row.Length() == 0 {
			skipped++
			continue
		}
		label := row.Find("a").First()
		bid := row.Find(".pid-" + idx + "-bid").First()
		ask := row.Find(".pid-" + idx + "-ask").First()
		high := row.Find(".pid-" + idx + "-high").First()
		low := row.Find(".pid-" + idx + "-low").First()
		if label.Length() == 0 || bid.Length() == 0 || ask.Length() == 0 || high.Length() == 0 || low.Length() == 0 {
			skipped++
			continue
		}

		quotes = append(quotes, domain.LiveQuote{
			Pair: strings.TrimSpace(label.Text()),
			Bid:  parseQuoteField(bid.Text()),
			Ask:  parseQuoteField(ask.Text()),
			High: parseQuoteField(high.Text()),
			Low:  parseQuoteField(low.Text()),
		})
	}
	return quotes, skipped, nil
}

// parseQuoteField strips thousands separators; text that still fails to parse
// resolves to the sentinel instead of discarding the pair.
func parseQuoteField(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.SentinelRate
	}
	return v
}
