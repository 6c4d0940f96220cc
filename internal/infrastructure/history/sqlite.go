package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	market "main/internal/domain/entity/market"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores historical OHLC rows in a SQLite file. It is
// the default backend when no Postgres DSN is configured.
type SQLiteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRepository opens (or creates) the database and ensures the
// schema.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS historical_prices (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			date   TEXT NOT NULL,
			open   REAL NOT NULL,
			high   REAL NOT NULL,
			low    REAL NOT NULL,
			close  REAL NOT NULL,
			UNIQUE (symbol, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_historical_symbol ON historical_prices(symbol)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate historical_prices: %w", err)
		}
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() {
	if r == nil || r.db == nil {
		return
	}
	r.db.Close()
}

func (r *SQLiteRepository) Upsert(ctx context.Context, row market.HistoricalPrice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO historical_prices (symbol, date, open, high, low, close)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT (symbol, date)
		DO UPDATE SET open=excluded.open, high=excluded.high,
		              low=excluded.low, close=excluded.close`,
		strings.ToUpper(row.Symbol), row.Date, row.Open, row.High, row.Low, row.Close,
	)
	return err
}

// FetchForSymbol returns up to limit rows, oldest first.
func (r *SQLiteRepository) FetchForSymbol(ctx context.Context, symbol string, limit int) ([]market.HistoricalPrice, error) {
	return r.query(ctx, symbol, limit, "ASC")
}

// Recent returns up to limit rows, newest first.
func (r *SQLiteRepository) Recent(ctx context.Context, symbol string, limit int) ([]market.HistoricalPrice, error) {
	return r.query(ctx, symbol, limit, "DESC")
}

func (r *SQLiteRepository) query(ctx context.Context, symbol string, limit int, order string) ([]market.HistoricalPrice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, date, open, high, low, close
		FROM historical_prices
		WHERE symbol=?
		ORDER BY date `+order+`
		LIMIT ?`,
		strings.ToUpper(symbol), limit,
	)
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

func (r *SQLiteRepository) ClearSymbol(ctx context.Context, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `DELETE FROM historical_prices WHERE symbol=?`, strings.ToUpper(symbol))
	return err
}
