package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SlotPG keeps named slots in the postgres "slots" table (see db/migrations).
type SlotPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewSlotPG(db *pgxpool.Pool, timeout time.Duration) *SlotPG {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &SlotPG{db: db, timeout: timeout}
}

func (repo *SlotPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, repo.timeout)
}

func (repo *SlotPG) Load(ctx context.Context, name string) ([]byte, error) {
	const query = `SELECT data FROM slots WHERE name = $1`
	timeoutCtx, cancel := repo.withTimeout(ctx)
	defer cancel()

	var data []byte
	if err := repo.db.QueryRow(timeoutCtx, query, name).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (repo *SlotPG) Save(ctx context.Context, name string, data []byte) error {
	const upsertSQL = `
		INSERT INTO slots (name, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`
	timeoutCtx, cancel := repo.withTimeout(ctx)
	defer cancel()
	_, err := repo.db.Exec(timeoutCtx, upsertSQL, name, data)
	return err
}

func (repo *SlotPG) Ping(ctx context.Context) error {
	return repo.db.Ping(ctx)
}

func (repo *SlotPG) Close() error {
	repo.db.Close()
	return nil
}
