package history

import (
	"context"
	"fmt"
	"strings"

	market "main/internal/domain/entity/market"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores historical OHLC rows in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

const createHistoricalPricesTable = `
	CREATE TABLE IF NOT EXISTS historical_prices (
		id     BIGSERIAL PRIMARY KEY,
		symbol TEXT NOT NULL,
		date   TEXT NOT NULL,
		open   DOUBLE PRECISION NOT NULL,
		high   DOUBLE PRECISION NOT NULL,
		low    DOUBLE PRECISION NOT NULL,
		close  DOUBLE PRECISION NOT NULL,
		UNIQUE (symbol, date)
	)`

// NewPostgresRepository connects the pool and ensures the schema.
func NewPostgresRepository(ctx context.Context, dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if _, err := pool.Exec(ctx, createHistoricalPricesTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate historical_prices: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

const upsertHistoricalPriceQuery = `
	INSERT INTO historical_prices (symbol, date, open, high, low, close)
	VALUES ($1,$2,$3,$4,$5,$6)
	ON CONFLICT (symbol, date)
	DO UPDATE SET open=EXCLUDED.open, high=EXCLUDED.high,
	              low=EXCLUDED.low, close=EXCLUDED.close`

func (r *PostgresRepository) Upsert(ctx context.Context, row market.HistoricalPrice) error {
	_, err := r.pool.Exec(ctx, upsertHistoricalPriceQuery,
		strings.ToUpper(row.Symbol),
		row.Date,
		row.Open,
		row.High,
		row.Low,
		row.Close,
	)
	return err
}

// FetchForSymbol returns up to limit rows, oldest first.
func (r *PostgresRepository) FetchForSymbol(ctx context.Context, symbol string, limit int) ([]market.HistoricalPrice, error) {
	const query = `
		SELECT symbol, date, open, high, low, close
		FROM historical_prices
		WHERE symbol=$1
		ORDER BY date ASC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, strings.ToUpper(symbol), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.HistoricalPrice
	for rows.Next() {
		var row market.HistoricalPrice
		if err := rows.Scan(&row.Symbol, &row.Date, &row.Open, &row.High, &row.Low, &row.Close); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Recent returns up to limit rows, newest first.
func (r *PostgresRepository) Recent(ctx context.Context, symbol string, limit int) ([]market.HistoricalPrice, error) {
	const query = `
		SELECT symbol, date, open, high, low, close
		FROM historical_prices
		WHERE symbol=$1
		ORDER BY date DESC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, strings.ToUpper(symbol), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.HistoricalPrice
	for rows.Next() {
		var row market.HistoricalPrice
		if err := rows.Scan(&row.Symbol, &row.Date, &row.Open, &row.High, &row.Low, &row.Close); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ClearSymbol(ctx context.Context, symbol string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM historical_prices WHERE symbol=$1`, strings.ToUpper(symbol))
	return err
}
