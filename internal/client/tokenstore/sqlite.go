package tokenstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/policyinsight/internal/client/tokenstore/migrations"
	"github.com/dmitrijs2005/policyinsight/internal/dbx"
	"github.com/dmitrijs2005/policyinsight/internal/filex"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteBackend stores credentials in the credentials table of a local
// SQLite database. Expiry is kept as unix milliseconds; NULL means none.
type SQLiteBackend struct {
	db  *sql.DB
	now func() time.Time
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection avoids SQLITE_BUSY between writers of the same file
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewSQLiteBackend(db), nil
}

// NewSQLiteBackend wraps an already migrated database.
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db, now: time.Now}
}

func toMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func upsert(ctx context.Context, db dbx.DBTX, name, value string, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO credentials (name, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, name, value, toMillis(expiresAt))
	if err != nil {
		return fmt.Errorf("failed to set credential[%s]: %w", name, err)
	}
	return nil
}

func (b *SQLiteBackend) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	return upsert(ctx, b.db, name, value, expiry(b.now(), ttl))
}

func (b *SQLiteBackend) SetMany(ctx context.Context, entries []Entry) error {
	now := b.now()
	return dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, e := range entries {
			if err := upsert(ctx, tx, e.Name, e.Value, expiry(now, e.TTL)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *SQLiteBackend) Get(ctx context.Context, name string) (string, bool, error) {
	var (
		value     string
		expiresAt sql.NullInt64
	)
	err := b.db.QueryRowContext(ctx, `SELECT value, expires_at FROM credentials WHERE name = ?`, name).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get credential[%s]: %w", name, err)
	}

	if expiresAt.Valid && expired(b.now(), time.UnixMilli(expiresAt.Int64)) {
		if err := b.Delete(ctx, name); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return value, true, nil
}

func (b *SQLiteBackend) Delete(ctx context.Context, name string) error {
	_, err := b.db.ExecContext(ctx, `DELETE FROM credentials WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete credential[%s]: %w", name, err)
	}
	return nil
}

func (b *SQLiteBackend) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range AllKinds {
			if _, err := tx.ExecContext(ctx, `DELETE FROM credentials WHERE name = ?`, string(k)); err != nil {
				return fmt.Errorf("failed to clear credentials: %w", err)
			}
		}
		return nil
	})
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
