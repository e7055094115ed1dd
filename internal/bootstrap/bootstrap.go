package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"fxagg-service/internal/application"
	"fxagg-service/internal/config"
	"fxagg-service/internal/infrastructure/httpx"
	"fxagg-service/internal/infrastructure/logx"
	"fxagg-service/internal/infrastructure/pg"
	"fxagg-service/internal/infrastructure/provider"
	redisstore "fxagg-service/internal/infrastructure/redis"
	"fxagg-service/internal/infrastructure/scrape"
	"fxagg-service/internal/infrastructure/worker"

	"github.com/redis/go-redis/v9"
)

type Repos struct {
	RateStore application.RateStore
}

type Services struct {
	Lock application.FetchLock
}

// BuildDB connects to Postgres and runs migrations.
func BuildDB(ctx context.Context, cfg config.Config) (*pg.DB, func(), error) {
	log := logx.L()
	if cfg.DatabaseURL == "" {
		return nil, func() {}, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, func() {}, err
	}
	if err := pg.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, func() {}, err
	}
	cleanup := func() {
		log.Info("closing pg")
		db.Close()
	}
	return db, cleanup, nil
}

func BuildRepos(db *pg.DB) Repos {
	return Repos{RateStore: pg.NewRateRepo(db)}
}

// BuildDayLock builds the per-day fetch lock; falls back to Noop when the
// backend is disabled.
func BuildDayLock(cfg config.Config) (Services, func(), error) {
	if cfg.DayLockBackend != "redis" {
		return Services{Lock: application.NoopFetchLock{}}, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := redisstore.New(client, cfg.DayLockTTL)
	return Services{Lock: store}, func() { _ = client.Close() }, nil
}

// BuildFetcher is the shared raw-fetch collaborator. The scrape target wants
// a browser user agent; the JSON/XML upstreams ignore it.
func BuildFetcher(cfg config.Config) *httpx.Client {
	return &httpx.Client{
		HTTP:      &http.Client{Timeout: cfg.RequestTimeout},
		UserAgent: "Mozilla/5.0",
	}
}

func BuildProvider(cfg config.Config, fetch *httpx.Client) application.SnapshotProvider {
	switch cfg.Provider {
	case "fixer":
		return &provider.FixerProvider{
			BaseURL: cfg.ExchangeAPIBase,
			APIKey:  cfg.ExchangeAPIKey,
			Fetch:   fetch,
		}
	default:
		return provider.NewFake(nil)
	}
}

func BuildBankFeed(cfg config.Config, fetch *httpx.Client) application.BankFeed {
	return &provider.EuroBankFeed{URL: cfg.EuroRateURL, Fetch: fetch}
}

func BuildScraper(cfg config.Config, fetch *httpx.Client) application.LiveScraper {
	return &scrape.Scraper{URL: cfg.LiveRateURL, Fetch: fetch, Log: logx.L()}
}

func BuildService(cfg config.Config, r Repos, s Services, fetch *httpx.Client) *application.RatesService {
	return application.NewRatesService(
		r.RateStore,
		BuildProvider(cfg, fetch),
		BuildBankFeed(cfg, fetch),
		BuildScraper(cfg, fetch),
		s.Lock,
		cfg.BaseCurrency,
	)
}

// BuildRefreshWorker constructs the background pre-warm worker.
func BuildRefreshWorker(cfg config.Config, r Repos, s Services, fetch *httpx.Client) application.Worker {
	return &worker.RefreshWorker{
		Store:     r.RateStore,
		Provider:  BuildProvider(cfg, fetch),
		Lock:      s.Lock,
		Base:      cfg.BaseCurrency,
		PollEvery: cfg.RefreshPoll,
		Log:       logx.L(),
	}
}
