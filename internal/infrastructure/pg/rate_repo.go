package pg

import (
	"context"

	"fxagg-service/internal/application"
	"fxagg-service/internal/domain"
	"fxagg-service/internal/infrastructure/logx"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RateRepo struct{ db *DB }

var _ application.RateStore = (*RateRepo)(nil)

func NewRateRepo(db *DB) *RateRepo { return &RateRepo{db: db} }

func (r *RateRepo) CountForDate(ctx context.Context, date string) (int64, error) {
	const q = `SELECT COUNT(*) FROM fx_rates WHERE rate_dt=$1`
	var n int64
	if err := r.db.Pool.QueryRow(ctx, q, date).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *RateRepo) ListForDate(ctx context.Context, date string) ([]domain.RateRecord, error) {
	const q = `
        SELECT rate_dt, base, currency, rate
        FROM fx_rates WHERE rate_dt=$1`
	rows, err := r.db.Pool.Query(ctx, q, date)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

func (r *RateRepo) ListRange(ctx context.Context, start, end string) ([]domain.RateRecord, error) {
	const q = `
        SELECT rate_dt, base, currency, rate
        FROM fx_rates
        WHERE rate_dt BETWEEN $1 AND $2
        ORDER BY rate_dt DESC`
	rows, err := r.db.Pool.Query(ctx, q, start, end)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

func (r *RateRepo) InsertBatch(ctx context.Context, recs []domain.RateRecord) (int64, error) {
	const ins = `
        INSERT INTO fx_rates(rate_dt, base, currency, rate)
        VALUES ($1, $2, $3, $4)`
	log := logx.L().With(
		zap.String("repo", "rate"),
		zap.String("operation", "InsertBatch"),
		zap.Int("batch_size", len(recs)),
	)
	var batch pgx.Batch
	for _, rec := range recs {
		batch.Queue(ins, rec.Date, rec.Base, rec.Currency, rec.Rate)
	}
	br := r.db.Pool.SendBatch(ctx, &batch)
	defer br.Close()
	var inserted int64
	for range recs {
		tag, err := br.Exec()
		if err != nil {
			log.Error("sql.batch_failed", zap.Error(err))
			return inserted, err
		}
		inserted += tag.RowsAffected()
	}
	log.Info("sql.batch_success", zap.Int64("rows_affected", inserted))
	return inserted, nil
}

func scanRecords(rows pgx.Rows) ([]domain.RateRecord, error) {
	defer rows.Close()
	var out []domain.RateRecord
	for rows.Next() {
		var rec domain.RateRecord
		if err := rows.Scan(&rec.Date, &rec.Base, &rec.Currency, &rec.Rate); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
