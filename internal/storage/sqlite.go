package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/romangod6/sitemap-xml-plugin/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS build_records (
            id TEXT PRIMARY KEY,
            mode TEXT NOT NULL,
            domain TEXT NOT NULL,
            file_name TEXT,
            entry_count INTEGER NOT NULL DEFAULT 0,
            size INTEGER NOT NULL DEFAULT 0,
            status TEXT NOT NULL,
            error TEXT,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
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

func (s *SQLiteStore) CreateBuildRecord(ctx context.Context, record *models.BuildRecord) error {
	query := `
        INSERT INTO build_records (id, mode, domain, file_name, entry_count, size, status, error, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
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

func (s *SQLiteStore) GetBuildRecord(ctx context.Context, id uuid.UUID) (*models.BuildRecord, error) {
	query := `
        SELECT id, mode, domain, file_name, entry_count, size, status, error, created_at
        FROM build_records
        WHERE id = ?
    `

	records, err := s.queryBuildRecords(ctx, query, id.String())
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

func (s *SQLiteStore) ListBuildRecords(ctx context.Context, limit, offset int) ([]*models.BuildRecord, error) {
	query := `
        SELECT id, mode, domain, file_name, entry_count, size, status, error, created_at
        FROM build_records
        ORDER BY created_at DESC
        LIMIT ? OFFSET ?
    `

	return s.queryBuildRecords(ctx, query, limit, offset)
}

func (s *SQLiteStore) queryBuildRecords(ctx context.Context, query string, args ...interface{}) ([]*models.BuildRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
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

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanBuildRecord reads one row in the column order shared by both stores.
func scanBuildRecord(rows *sql.Rows) (*models.BuildRecord, error) {
	var record models.BuildRecord
	var idStr string
	var fileName, errText sql.NullString

	err := rows.Scan(
		&idStr,
		&record.Mode,
		&record.Domain,
		&fileName,
		&record.EntryCount,
		&record.Size,
		&record.Status,
		&errText,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid build record id %q: %w", idStr, err)
	}
	record.FileName = fileName.String
	record.Error = errText.String

	return &record, nil
}
