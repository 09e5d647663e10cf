// Package postgres keeps stock reservation counters in PostgreSQL so that
// several service instances share one ledger.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"ordercore/domain/inventory"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `CREATE TABLE IF NOT EXISTS stock_reservations (
	product_id TEXT PRIMARY KEY,
	reserved   INTEGER NOT NULL CHECK (reserved >= 0),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// The conflict branch only fires when the new total stays within $3, so
// the check and the increment are one statement.
const reserveSQL = `INSERT INTO stock_reservations (product_id, reserved) VALUES ($1, $2)
ON CONFLICT (product_id) DO UPDATE
	SET reserved = stock_reservations.reserved + EXCLUDED.reserved, updated_at = now()
	WHERE stock_reservations.reserved + EXCLUDED.reserved <= $3
RETURNING reserved`

const releaseSQL = `UPDATE stock_reservations
SET reserved = GREATEST(reserved - $2, 0), updated_at = now()
WHERE product_id = $1`

const reservedSQL = `SELECT reserved FROM stock_reservations WHERE product_id = $1`

// DB is satisfied by *pgxpool.Pool and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ReservationStore struct {
	db DB
}

func NewReservationStore(db DB) *ReservationStore {
	return &ReservationStore{db: db}
}

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func (s *ReservationStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create stock_reservations: %w", err)
	}
	return nil
}

func (s *ReservationStore) TryReserve(ctx context.Context, productID string, quantity, limit int) (bool, error) {
	if quantity > limit {
		return false, nil
	}
	var reserved int
	err := s.db.QueryRow(ctx, reserveSQL, productID, quantity, limit).Scan(&reserved)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reserve %d of %s: %w", quantity, productID, err)
	}
	return true, nil
}

func (s *ReservationStore) Release(ctx context.Context, productID string, quantity int) error {
	if _, err := s.db.Exec(ctx, releaseSQL, productID, quantity); err != nil {
		return fmt.Errorf("release %d of %s: %w", quantity, productID, err)
	}
	return nil
}

func (s *ReservationStore) Reserved(ctx context.Context, productID string) (int, error) {
	var reserved int
	err := s.db.QueryRow(ctx, reservedSQL, productID).Scan(&reserved)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read reservation of %s: %w", productID, err)
	}
	return reserved, nil
}

var _ inventory.ReservationStore = (*ReservationStore)(nil)
