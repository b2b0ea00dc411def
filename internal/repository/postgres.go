package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
)

// PostgresStore keeps user documents in a JSONB column keyed by document path
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore initializes a new document store
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save writes the user's document, replacing any previous version
func (s *PostgresStore) Save(ctx context.Context, userID string, data *models.AppData) error {
	b, err := Encode(data)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO documents (path, data, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (path) DO UPDATE SET data = EXCLUDED.data, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, query, DocumentKey(userID), b); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// Load reads the user's document
func (s *PostgresStore) Load(ctx context.Context, userID string) (*models.AppData, error) {
	var b []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM documents WHERE path = $1`, DocumentKey(userID)).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return Decode(b)
}

// Delete removes the user's document
func (s *PostgresStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path = $1`, DocumentKey(userID)); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
