package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS print_quotes (
	id            UUID PRIMARY KEY,
	created_at    TIMESTAMPTZ NOT NULL,
	file_name     TEXT NOT NULL DEFAULT '',
	format        TEXT NOT NULL,
	width_mm      DOUBLE PRECISION NOT NULL,
	height_mm     DOUBLE PRECISION NOT NULL,
	depth_mm      DOUBLE PRECISION NOT NULL,
	volume_mm3    DOUBLE PRECISION NOT NULL,
	weight_grams  DOUBLE PRECISION NOT NULL,
	cost_student  DOUBLE PRECISION NOT NULL,
	cost_guest    DOUBLE PRECISION NOT NULL,
	orientation   TEXT NOT NULL DEFAULT '',
	degraded      BOOLEAN NOT NULL DEFAULT FALSE
)`

const quoteColumns = `id, created_at, file_name, format, width_mm, height_mm, depth_mm,
	volume_mm3, weight_grams, cost_student, cost_guest, orientation, degraded`

const selectColumns = `id::text, created_at, file_name, format, width_mm, height_mm, depth_mm,
	volume_mm3, weight_grams, cost_student, cost_guest, orientation, degraded`

// Postgres is a QuoteStore backed by a pgx connection pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres connects to dsn and ensures the quote table exists.
func NewPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create quote table: %w", err)
	}

	logger.Info("quote store connected", zap.String("driver", "postgres"))
	return &Postgres{pool: pool, logger: logger}, nil
}

func (p *Postgres) Save(ctx context.Context, rec *QuoteRecord) error {
	prepare(rec, time.Now)

	_, err := p.pool.Exec(ctx,
		`INSERT INTO print_quotes (`+quoteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rec.ID, rec.CreatedAt, rec.FileName, rec.Format,
		rec.Width, rec.Height, rec.Depth,
		rec.VolumeMm3, rec.WeightGrams, rec.CostStudent, rec.CostGuest,
		rec.Orientation, rec.Degraded,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*QuoteRecord, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	row := p.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM print_quotes WHERE id = $1`, id)
	rec, err := scanQuote(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load quote: %w", err)
	}
	return rec, nil
}

func (p *Postgres) Recent(ctx context.Context, limit int) ([]QuoteRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := p.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM print_quotes ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	var out []QuoteRecord
	for rows.Next() {
		rec, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func scanQuote(row pgx.Row) (*QuoteRecord, error) {
	var rec QuoteRecord
	err := row.Scan(
		&rec.ID, &rec.CreatedAt, &rec.FileName, &rec.Format,
		&rec.Width, &rec.Height, &rec.Depth,
		&rec.VolumeMm3, &rec.WeightGrams, &rec.CostStudent, &rec.CostGuest,
		&rec.Orientation, &rec.Degraded,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
