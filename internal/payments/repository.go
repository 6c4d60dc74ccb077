package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists the payment journal.
type Repository interface {
	Record(ctx context.Context, payment Payment) error
	ListByAccount(ctx context.Context, address string, limit int) ([]Payment, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS payments (
    id          UUID PRIMARY KEY,
    hash        TEXT NOT NULL UNIQUE,
    ledger      INTEGER NOT NULL,
    source      TEXT NOT NULL,
    destination TEXT NOT NULL,
    amount      NUMERIC(20, 7) NOT NULL,
    memo        TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS payments_source_idx ON payments (source, created_at DESC);
CREATE INDEX IF NOT EXISTS payments_destination_idx ON payments (destination, created_at DESC);`

// PostgresRepository stores the journal in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the payments table and its indexes when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}

// Record inserts a journal entry keyed by transaction hash.
func (r *PostgresRepository) Record(ctx context.Context, p Payment) error {
	if p.Hash == "" {
		return errors.New("payment hash is required")
	}
	id := uuid.New()
	if p.ID != "" {
		parsed, err := uuid.Parse(p.ID)
		if err != nil {
			return err
		}
		id = parsed
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	tag, err := r.db.Exec(ctx, `INSERT INTO payments (id, hash, ledger, source, destination, amount, memo, created_at)
        VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8)
        ON CONFLICT (hash) DO NOTHING`,
		id, p.Hash, p.Ledger, p.Source, p.Destination, p.Amount, p.Memo, p.CreatedAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicatePayment
	}
	return nil
}

// ListByAccount returns payments sent or received by address, newest first.
func (r *PostgresRepository) ListByAccount(ctx context.Context, address string, limit int) ([]Payment, error) {
	rows, err := r.db.Query(ctx, `SELECT id, hash, ledger, source, destination, amount::text, memo, created_at
        FROM payments WHERE source = $1 OR destination = $1
        ORDER BY created_at DESC LIMIT $2`, address, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		var id uuid.UUID
		var createdAt time.Time
		if err := rows.Scan(&id, &p.Hash, &p.Ledger, &p.Source, &p.Destination, &p.Amount, &p.Memo, &createdAt); err != nil {
			return nil, err
		}
		p.ID = id.String()
		p.CreatedAt = createdAt.UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}
