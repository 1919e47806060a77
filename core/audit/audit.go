package audit

import (
	"context"
	"time"
)

// Outcome values recorded for a command.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Entry is one recorded command invocation.
type Entry struct {
	ID        uint      `gorm:"primaryKey"`
	RunID     string    `gorm:"column:run_id;size:36;index"`
	Command   string    `gorm:"column:command;size:64"`
	Bucket    string    `gorm:"column:bucket;size:255"`
	Key       string    `gorm:"column:object_key;size:1024"`
	Outcome   string    `gorm:"column:outcome;size:16"`
	Detail    string    `gorm:"column:detail;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

// TableName overrides the table name used by Entry.
func (Entry) TableName() string {
	return "audit_entries"
}

// Recorder stores and lists command invocations.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Nop discards entries. It is used when the journal is disabled or unreachable.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) Record(context.Context, Entry) error { return nil }

func (Nop) Recent(context.Context, int) ([]Entry, error) { return nil, nil }
