package keyvalue

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayware/sessionkit/pkg/pg"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Postgres backs a Store with a single key-value table. Set is an upsert, so
// concurrent writers converge on the last write without unique violations.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres-backed store on an existing pool. Call
// MigratePostgres first on fresh databases.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	if pool == nil {
		panic("keyvalue: postgres store requires a pool")
	}
	return &Postgres{pool: pool}
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	var value []byte
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&value)
	if pg.IsNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("keyvalue: failed to read %s: %w", key, err)
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("keyvalue: failed to store %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if _, err := p.pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("keyvalue: failed to delete %s: %w", key, err)
	}
	return nil
}

// MigratePostgres applies the embedded schema migrations for the kv_entries
// table.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	if err := pg.Migrate(ctx, pool, migrationsFS, "migrations", slog.Default()); err != nil {
		return fmt.Errorf("keyvalue: failed to apply migrations: %w", err)
	}
	return nil
}
