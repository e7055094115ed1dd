package worker

import (
	"context"
	"time"

	"fxagg-service/internal/application"
	"fxagg-service/internal/domain"
	infraconfig "fxagg-service/internal/infrastructure/config"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

var _ application.Worker = (*RefreshWorker)(nil)

// RefreshWorker keeps today's snapshot persisted so the first request of the
// day hits the store instead of the rate-limited upstream. Fetches here may
// retry; the request path never does.
type RefreshWorker struct {
	Store    application.RateStore
	Provider application.SnapshotProvider
	Lock     application.FetchLock
	Base     string

	PollEvery time.Duration
	Clock     application.Clock
	Log       *zap.Logger
}

func (w *RefreshWorker) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	if w.PollEvery <= 0 {
		w.PollEvery = infraconfig.DefaultRefreshPoll
	}
	if w.Lock == nil {
		w.Lock = application.NoopFetchLock{}
	}

	t := time.NewTicker(w.PollEvery)
	defer t.Stop()

	log.Info("refresh_worker_started", zap.Duration("poll_every", w.PollEvery))
	w.tick(ctx, log)
	for {
		select {
		case <-ctx.Done():
			log.Info("refresh_worker_stopped")
			return
		case <-t.C:
			w.tick(ctx, log)
		}
	}
}

func (w *RefreshWorker) tick(ctx context.Context, log *zap.Logger) {
	now := time.Now()
	if w.Clock != nil {
		now = w.Clock.Now()
	}
	today := domain.Day(now)

	n, err := w.Store.CountForDate(ctx, today)
	if err != nil {
		log.Warn("refresh_count_failed", zap.Error(err))
		return
	}
	if n > 0 {
		return
	}

	var snap application.RateSnapshot
	exp := backoff.NewExponentialBackOff()
	exp.MaxElapsedTime = 30 * time.Second
	err = backoff.Retry(func() error {
		s, err := w.Provider.Latest(ctx)
		if err != nil {
			return err
		}
		snap = s
		return nil
	}, backoff.WithContext(exp, ctx))
	if err != nil {
		log.Warn("refresh_fetch_failed", zap.Error(err))
		return
	}

	reserved, lockErr := w.Lock.TryReserve(ctx, application.DayLockKey(snap.Date))
	if lockErr == nil && !reserved {
		// Another process is persisting this day.
		return
	}

	recs := make([]domain.RateRecord, 0, len(snap.Rates))
	for currency, rate := range snap.Rates {
		recs = append(recs, domain.RateRecord{
			Date:     snap.Date,
			Base:     w.Base,
			Currency: currency,
			Rate:     rate,
		})
	}
	if _, err := w.Store.InsertBatch(ctx, recs); err != nil {
		log.Warn("refresh_persist_failed", zap.Error(err))
		return
	}
	log.Info("refresh_done", zap.String("date", snap.Date), zap.Int("currencies", len(recs)))
}
