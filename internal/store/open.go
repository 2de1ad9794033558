package store

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Slots is a set of named blobs that survive restarts.
type Slots interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Slots = &SlotPG{}
	_ Slots = &SlotSQLite{}
)

type Options struct {
	Driver       string
	DSN          string
	SQLitePath   string
	QueryTimeout time.Duration
}

// Open returns the slot store selected by opts.Driver.
func Open(ctx context.Context, opts Options) (Slots, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		s, err := OpenSlotSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Printf("storage driver=sqlite path=%s", opts.SQLitePath)
		return s, nil
	case DriverPostgres:
		pool, err := pgxpool.New(ctx, opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("cannot create db pool: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("cannot ping database (%s): %w", RedactDSN(opts.DSN), err)
		}
		log.Printf("storage driver=postgres dsn=%s", RedactDSN(opts.DSN))
		return NewSlotPG(pool, opts.QueryTimeout), nil
	case DriverMemory:
		log.Printf("storage driver=memory (read list is not persisted)")
		return NewSlotMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", opts.Driver)
	}
}

// RedactDSN hides the credentials part of a URL style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
