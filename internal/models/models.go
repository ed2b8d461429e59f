package models

import (
	"time"

	"github.com/google/uuid"
)

// Build record statuses.
const (
	BuildEmitted = "emitted"
	BuildSkipped = "skipped"
	BuildFailed  = "failed"
)

// BuildRecord is one row of the build ledger.
type BuildRecord struct {
	ID         uuid.UUID `json:"id"`
	Mode       string    `json:"mode"`
	Domain     string    `json:"domain"`
	FileName   string    `json:"fileName,omitempty"`
	EntryCount int       `json:"entryCount"`
	Size       int       `json:"size"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewBuildRecord creates a record with a generated UUID and timestamp
func NewBuildRecord(mode, domain string) *BuildRecord {
	return &BuildRecord{
		ID:        uuid.New(),
		Mode:      mode,
		Domain:    domain,
		CreatedAt: time.Now(),
	}
}
