package storage

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/romangod6/sitemap-xml-plugin/internal/models"
)

// Store is the build ledger.
type Store interface {
	Initialize() error
	Close() error

	CreateBuildRecord(ctx context.Context, record *models.BuildRecord) error
	GetBuildRecord(ctx context.Context, id uuid.UUID) (*models.BuildRecord, error)
	ListBuildRecords(ctx context.Context, limit, offset int) ([]*models.BuildRecord, error)
}

// Open picks the driver from the URL: postgres:// and postgresql:// use
// PostgreSQL, anything else is treated as a SQLite path.
func Open(url string) (Store, error) {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return NewPostgresStore(url)
	}
	return NewSQLiteStore(strings.TrimPrefix(url, "sqlite://"))
}
