// Package jobs keeps a durable record of every upload's processing job,
// so in-flight and finished work survives a restart and can be inspected.
package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Job statuses, mirroring the remote transcription state machine.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Job is one upload's processing record.
type Job struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"user_id"`
	FileName     string    `json:"file_name"`
	AudioHash    string    `json:"audio_hash"`
	ScratchPath  string    `json:"-"`
	Status       string    `json:"status"`
	Transcript   *string   `json:"transcript,omitempty"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Repository defines the interface for job record data access
type Repository interface {
	// Create inserts a new job record in the queued state
	Create(ctx context.Context, job *Job) error

	// MarkProcessing moves a job to the processing state
	MarkProcessing(ctx context.Context, id uuid.UUID) error

	// MarkCompleted stores the formatted transcript and completes the job
	MarkCompleted(ctx context.Context, id uuid.UUID, transcript string) error

	// MarkFailed records the failure reason
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error

	// GetByID retrieves a job by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)

	// CountActive counts jobs still queued or processing
	CountActive(ctx context.Context) (int, error)
}
