package audit

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GormRecorder persists entries through GORM.
type GormRecorder struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Recorder = (*GormRecorder)(nil)

// NewGormRecorder creates a recorder on db, creating the table when it is missing.
func NewGormRecorder(db *gorm.DB) (*GormRecorder, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate audit table: %w", err)
	}
	return &GormRecorder{db: db, now: time.Now}, nil
}

// Record inserts the entry, stamping CreatedAt when it is unset.
func (r *GormRecorder) Record(ctx context.Context, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *GormRecorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []Entry
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
