package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"klinetime"
	"klinetime/internal/domain"
	"klinetime/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.KlineRepository using SQLite. Series rows are
// keyed by (symbol, interval, open_time_ms) so re-fetching a range is an
// idempotent upsert.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/klines.db" // Default path
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// WAL mode for better concurrency.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("%w: failed to open database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("%w: failed to ping database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from a
	// single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "SQLite kline store ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS klines (
		symbol        TEXT    NOT NULL,
		interval      TEXT    NOT NULL,
		open_time_ms  INTEGER NOT NULL,
		close_time_ms INTEGER NOT NULL,
		open          REAL    NOT NULL,
		high          REAL    NOT NULL,
		low           REAL    NOT NULL,
		close         REAL    NOT NULL,
		volume        REAL    NOT NULL,
		is_final      INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (symbol, interval, open_time_ms)
	);
	CREATE INDEX IF NOT EXISTS idx_klines_symbol_interval ON klines (symbol, interval);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite kline store")
		return r.db.Close()
	}
	return nil
}

// Upsert inserts or replaces klines in a single transaction. Every kline is
// validated first; a misaligned or malformed record aborts the whole batch
// before anything is written.
func (r *Repository) Upsert(ctx context.Context, klines []*domain.Kline) error {
	if len(klines) == 0 {
		return nil
	}
	for _, k := range klines {
		if err := k.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ports.ErrMisalignedKline, err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", ports.ErrQueryFailed, err)
	}
	defer tx.Rollback()

	const query = `
	INSERT OR REPLACE INTO klines
		(symbol, interval, open_time_ms, close_time_ms, open, high, low, close, volume, is_final)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: failed to prepare upsert: %v", ports.ErrQueryFailed, err)
	}
	defer stmt.Close()

	for _, k := range klines {
		_, err := stmt.ExecContext(ctx,
			k.Symbol, string(k.Bucket.Interval()), k.Bucket.OpenMillis(), k.Bucket.CloseMillis(),
			k.Open, k.High, k.Low, k.Close, k.Volume, k.IsFinal)
		if err != nil {
			return fmt.Errorf("%w: failed to upsert kline for %s at %d: %v",
				ports.ErrQueryFailed, k.Symbol, k.Bucket.OpenMillis(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit upsert: %v", ports.ErrQueryFailed, err)
	}

	r.logger.Debug(ctx, "Upserted klines", map[string]interface{}{"count": len(klines)})
	return nil
}

// Range retrieves stored klines whose bucket opens lie in
// [start.OpenMillis(), end.OpenMillis()], ordered by open ascending.
func (r *Repository) Range(ctx context.Context, symbol string, start, end klinetime.KlineTimestamp) ([]*domain.Kline, error) {
	if start.Interval() != end.Interval() {
		return nil, fmt.Errorf("%w: %s vs %s", ports.ErrIntervalMismatch, start.Interval(), end.Interval())
	}

	const query = `
	SELECT open_time_ms, open, high, low, close, volume, is_final
	FROM klines
	WHERE symbol = ? AND interval = ? AND open_time_ms BETWEEN ? AND ?
	ORDER BY open_time_ms ASC`

	rows, err := r.db.QueryContext(ctx, query,
		symbol, string(start.Interval()), start.OpenMillis(), end.OpenMillis())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query kline range for %s: %v", ports.ErrQueryFailed, symbol, err)
	}
	defer rows.Close()

	var klines []*domain.Kline
	for rows.Next() {
		var openMS int64
		k := &domain.Kline{Symbol: symbol}
		if err := rows.Scan(&openMS, &k.Open, &k.High, &k.Low, &k.Close, &k.Volume, &k.IsFinal); err != nil {
			return nil, fmt.Errorf("%w: failed to scan kline row for %s: %v", ports.ErrQueryFailed, symbol, err)
		}
		bucket, err := klinetime.New(openMS, start.Interval())
		if err != nil {
			return nil, fmt.Errorf("stored kline has invalid bucket: %w", err)
		}
		k.Bucket = bucket
		klines = append(klines, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating kline rows for %s: %v", ports.ErrQueryFailed, symbol, err)
	}

	return klines, nil
}

// LatestOpen returns the most recent stored bucket for the symbol/interval.
func (r *Repository) LatestOpen(ctx context.Context, symbol string, interval klinetime.Interval) (klinetime.KlineTimestamp, error) {
	const query = `
	SELECT MAX(open_time_ms) FROM klines WHERE symbol = ? AND interval = ?`

	var openMS sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, symbol, string(interval)).Scan(&openMS)
	if err != nil {
		return klinetime.KlineTimestamp{}, fmt.Errorf("%w: failed to query latest open for %s: %v", ports.ErrQueryFailed, symbol, err)
	}
	if !openMS.Valid {
		return klinetime.KlineTimestamp{}, fmt.Errorf("%w: no %s klines stored for %s", ports.ErrNotFound, interval, symbol)
	}
	return klinetime.New(openMS.Int64, interval)
}
