package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/romangod6/sitemap-xml-plugin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := Open("sqlite://" + filepath.Join(t.TempDir(), "builds.db"))
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := models.NewBuildRecord("production", "example.com")
	record.Status = models.BuildEmitted
	record.FileName = "sitemap.xml"
	record.EntryCount = 3
	record.Size = 512
	require.NoError(t, store.CreateBuildRecord(ctx, record))

	got, err := store.GetBuildRecord(ctx, record.ID)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, "production", got.Mode)
	assert.Equal(t, "example.com", got.Domain)
	assert.Equal(t, "sitemap.xml", got.FileName)
	assert.Equal(t, 3, got.EntryCount)
	assert.Equal(t, 512, got.Size)
	assert.Equal(t, models.BuildEmitted, got.Status)
	assert.Empty(t, got.Error)
	assert.WithinDuration(t, record.CreatedAt, got.CreatedAt, time.Second)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetBuildRecord(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		record := models.NewBuildRecord("production", "example.com")
		record.Status = models.BuildSkipped
		record.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.CreateBuildRecord(ctx, record))
		ids = append(ids, record.ID)
	}

	page, err := store.ListBuildRecords(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	rest, err := store.ListBuildRecords(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, ids[0], rest[0].ID)
}
