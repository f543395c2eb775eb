package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/arcade-hub-api/internal/models"
)

// ContentRepository stores keyed JSON documents (rosters, timetable, settings).
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository constructs the repository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Get returns the document or sql.ErrNoRows when it does not exist.
func (r *ContentRepository) Get(ctx context.Context, id string) (*models.ContentDocument, error) {
	const query = `SELECT id, payload, updated_by, updated_at FROM content_documents WHERE id = $1`
	var doc models.ContentDocument
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get content %s: %w", id, err)
	}
	return &doc, nil
}

// Put replaces the whole document.
func (r *ContentRepository) Put(ctx context.Context, doc *models.ContentDocument) error {
	doc.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO content_documents (id, payload, updated_by, updated_at)
VALUES (:id, :payload, :updated_by, :updated_at)
ON CONFLICT (id)
DO UPDATE SET payload = EXCLUDED.payload, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return fmt.Errorf("put content %s: %w", doc.ID, err)
	}
	return nil
}

// Merge overwrites only the top-level keys present in doc.Payload, creating the document when absent.
func (r *ContentRepository) Merge(ctx context.Context, doc *models.ContentDocument) error {
	doc.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO content_documents (id, payload, updated_by, updated_at)
VALUES (:id, :payload, :updated_by, :updated_at)
ON CONFLICT (id)
DO UPDATE SET payload = content_documents.payload || EXCLUDED.payload, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return fmt.Errorf("merge content %s: %w", doc.ID, err)
	}
	return nil
}

// Seed writes doc only when no document with the same id exists. It reports whether a write happened.
func (r *ContentRepository) Seed(ctx context.Context, doc *models.ContentDocument) (bool, error) {
	doc.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO content_documents (id, payload, updated_by, updated_at)
VALUES (:id, :payload, :updated_by, :updated_at)
ON CONFLICT (id) DO NOTHING`
	result, err := r.db.NamedExecContext(ctx, query, doc)
	if err != nil {
		return false, fmt.Errorf("seed content %s: %w", doc.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check seeded content rows: %w", err)
	}
	return affected > 0, nil
}
