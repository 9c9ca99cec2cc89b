package stt

import (
	"context"
	"fmt"
	"time"
)

// Remote job states. The job self-loops on queued/processing and exits on
// completed or failed.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// JobState is one observation of a remote transcription job.
type JobState struct {
	Status     string      `json:"status"`
	Utterances []Utterance `json:"utterances,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// StatusSource reports the current state of a transcription job. The HTTP
// client implements it; tests substitute a scripted source.
type StatusSource interface {
	JobStatus(ctx context.Context, id string) (JobState, error)
}

// AwaitCompletion polls src at the given interval until the job reports
// completed or failed, the deadline passes (ErrTimeout), or ctx is
// cancelled. Exactly one status request is issued per observed state, and
// polling stops immediately on a terminal state.
func AwaitCompletion(ctx context.Context, src StatusSource, id string, interval, deadline time.Duration) (JobState, error) {
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	for {
		state, err := src.JobStatus(ctx, id)
		if err != nil {
			return JobState{}, fmt.Errorf("polling job %s: %w", id, err)
		}

		switch state.Status {
		case StatusCompleted:
			return state, nil
		case StatusFailed:
			if state.Error != "" {
				return state, fmt.Errorf("%w: %s", ErrTranscriptionFailed, state.Error)
			}
			return state, ErrTranscriptionFailed
		case StatusQueued, StatusProcessing:
			// keep polling
		default:
			return state, fmt.Errorf("job %s reported unknown status %q", id, state.Status)
		}

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return state, ErrTimeout
			}
			return state, ctx.Err()
		}
	}
}
