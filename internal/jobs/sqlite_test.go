package jobs

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

func testRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := InitSchema(db); err != nil {
		t.Fatal(err)
	}
	return NewSQLiteRepo(db)
}

func newTestJob() *Job {
	return &Job{
		ID:          uuid.New(),
		UserID:      "user-1",
		FileName:    "meeting.wav",
		AudioHash:   "abc123",
		ScratchPath: "uploads/1_meeting.wav",
	}
}

func TestCreateAndGet(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	job := newTestJob()
	if err := r.Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.Status != StatusQueued {
		t.Errorf("Create should set status queued, got %q", job.Status)
	}

	got, err := r.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.UserID != "user-1" || got.FileName != "meeting.wav" || got.AudioHash != "abc123" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Transcript != nil || got.ErrorMessage != nil {
		t.Errorf("new job should have nil transcript and error, got %+v", got)
	}
}

func TestStatusTransitions(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	job := newTestJob()
	if err := r.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	if err := r.MarkProcessing(ctx, job.ID); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	got, _ := r.GetByID(ctx, job.ID)
	if got.Status != StatusProcessing {
		t.Errorf("status = %q, want processing", got.Status)
	}

	if err := r.MarkCompleted(ctx, job.ID, "TRANSCRIPTION OF AUDIO"); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	got, _ = r.GetByID(ctx, job.ID)
	if got.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
	if got.Transcript == nil || *got.Transcript != "TRANSCRIPTION OF AUDIO" {
		t.Errorf("transcript not stored: %+v", got)
	}
}

func TestMarkFailed(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	job := newTestJob()
	if err := r.Create(ctx, job); err != nil {
		t.Fatal(err)
	}
	if err := r.MarkFailed(ctx, job.ID, "transcription failed"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	got, _ := r.GetByID(ctx, job.ID)
	if got.Status != StatusFailed {
		t.Errorf("status = %q, want failed", got.Status)
	}
	if got.ErrorMessage == nil || *got.ErrorMessage != "transcription failed" {
		t.Errorf("error message not stored: %+v", got)
	}
}

func TestUpdateMissingJob(t *testing.T) {
	r := testRepo(t)
	if err := r.MarkProcessing(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error updating a job that does not exist")
	}
}

func TestCountActive(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	a, b, c := newTestJob(), newTestJob(), newTestJob()
	for _, j := range []*Job{a, b, c} {
		if err := r.Create(ctx, j); err != nil {
			t.Fatal(err)
		}
	}
	r.MarkProcessing(ctx, a.ID)
	r.MarkCompleted(ctx, b.ID, "done")

	n, err := r.CountActive(ctx)
	if err != nil {
		t.Fatalf("CountActive: %v", err)
	}
	if n != 2 {
		t.Errorf("CountActive = %d, want 2 (one queued, one processing)", n)
	}
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(path, []byte("same bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(t.TempDir(), "b.wav")
	if err := os.WriteFile(other, []byte("same bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	h1, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	h2, err := HashFile(other)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if h1 != h2 {
		t.Error("identical content must hash identically")
	}
	if len(h1) != 64 {
		t.Errorf("expected 32-byte hex digest, got %d chars", len(h1))
	}
}
