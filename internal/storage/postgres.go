package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/romangod6/sitemap-xml-plugin/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS build_records (
            id UUID PRIMARY KEY,
            mode VARCHAR(32) NOT NULL,
            domain VARCHAR(255) NOT NULL,
            file_name VARCHAR(1024),
            entry_count INTEGER NOT NULL DEFAULT 0,
            size INTEGER NOT NULL DEFAULT 0,
            status VARCHAR(32) NOT NULL,
            error TEXT,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_build_records_created_at ON build_records(created_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *PostgresStore) CreateBuildRecord(ctx context.Context, record *models.BuildRecord) error {
	query := `
        INSERT INTO build_records (id, mode, domain, file_name, entry_count, size, status, error, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `

	_, err := s.db.ExecContext(ctx, query,
		record.ID.String(),
		record.Mode,
		record.Domain,
		record.FileName,
		record.EntryCount,
		record.Size,
		record.Status,
		record.Error,
		record.CreatedAt,
	)

	return err
}

func (s *PostgresStore) GetBuildRecord(ctx context.Context, id uuid.UUID) (*models.BuildRecord, error) {
	query := `
        SELECT id::text, mode, domain, file_name, entry_count, size, status, error, created_at
        FROM build_records
        WHERE id = $1
    `

	rows, err := s.db.QueryContext(ctx, query, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanBuildRecord(rows)
}

func (s *PostgresStore) ListBuildRecords(ctx context.Context, limit, offset int) ([]*models.BuildRecord, error) {
	query := `
        SELECT id::text, mode, domain, file_name, entry_count, size, status, error, created_at
        FROM build_records
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.BuildRecord
	for rows.Next() {
		record, err := scanBuildRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
