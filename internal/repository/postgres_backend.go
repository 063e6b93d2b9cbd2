package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
)

const createDocumentsTable = `
	CREATE TABLE IF NOT EXISTS documents (
		namespace  TEXT NOT NULL,
		key        TEXT NOT NULL,
		body       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (namespace, key)
	)
`

// PostgresBackend stores documents as rows of a shared table, partitioned by
// namespace.
type PostgresBackend struct {
	db        *sql.DB
	namespace string
}

func NewPostgresBackend(ctx context.Context, db *sql.DB, namespace string) (*PostgresBackend, error) {
	if _, err := db.ExecContext(ctx, createDocumentsTable); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &PostgresBackend{db: db, namespace: namespace}, nil
}

func (b *PostgresBackend) Read(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT body FROM documents WHERE namespace = $1 AND key = $2`

	var body []byte
	err := b.db.QueryRowContext(ctx, query, b.namespace, key).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		slog.Info(err.Error())
		return nil, err
	}
	return body, nil
}

func (b *PostgresBackend) Write(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO documents (namespace, key, body, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key)
		DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`
	if _, err := b.db.ExecContext(ctx, query, b.namespace, key, string(data)); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM documents WHERE namespace = $1 AND key = $2`
	if _, err := b.db.ExecContext(ctx, query, b.namespace, key); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (b *PostgresBackend) Keys(ctx context.Context) ([]string, error) {
	query := `SELECT key FROM documents WHERE namespace = $1 ORDER BY key`

	rows, err := b.db.QueryContext(ctx, query, b.namespace)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
