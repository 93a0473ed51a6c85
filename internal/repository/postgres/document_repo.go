package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS budget_documents (
    key        TEXT PRIMARY KEY,
    body       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const getDocument = `SELECT body::text FROM budget_documents WHERE key = $1`

const upsertDocument = `
INSERT INTO budget_documents (key, body, updated_at)
VALUES ($1, $2::jsonb, NOW())
ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`

// DocumentRepository implements domain.DocumentStore using a PostgreSQL JSONB table
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// Migrate creates the documents table when missing
func (r *DocumentRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createDocumentsTable); err != nil {
		return fmt.Errorf("failed to create budget_documents table: %w", err)
	}
	return nil
}

// Get retrieves the document stored under key
func (r *DocumentRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var body string
	err := r.pool.QueryRow(ctx, getDocument, key).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, err
	}
	return []byte(body), nil
}

// Put inserts or replaces the document stored under key
func (r *DocumentRepository) Put(ctx context.Context, key string, data []byte) error {
	_, err := r.pool.Exec(ctx, upsertDocument, key, string(data))
	return err
}
