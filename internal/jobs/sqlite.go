package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db}
}

// InitSchema creates the jobs table and tunes the connection.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(`
	PRAGMA busy_timeout  = 10000;
	PRAGMA journal_mode  = WAL;
	PRAGMA synchronous   = NORMAL;
	PRAGMA foreign_keys  = ON;

	create table if not exists upload_jobs (
		id            text primary key not null,
		user_id       text not null,
		file_name     text not null,
		audio_hash    text not null,
		scratch_path  text not null,
		status        text not null,
		transcript    text,
		error_message text,
		created_at    text not null,
		updated_at    text not null
	);

	create index if not exists idx_upload_jobs_status on upload_jobs (status);`)
	if err != nil {
		return fmt.Errorf("creating upload_jobs schema: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) Create(ctx context.Context, job *Job) error {
	now := time.Now().UTC()
	job.Status = StatusQueued
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		insert into upload_jobs (id, user_id, file_name, audio_hash, scratch_path, status, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8)`,
		job.ID.String(), job.UserID, job.FileName, job.AudioHash, job.ScratchPath,
		job.Status, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("persisting job into sqlite: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, StatusProcessing, nil, nil)
}

func (r *SQLiteRepo) MarkCompleted(ctx context.Context, id uuid.UUID, transcript string) error {
	return r.setStatus(ctx, id, StatusCompleted, &transcript, nil)
}

func (r *SQLiteRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return r.setStatus(ctx, id, StatusFailed, nil, &errMsg)
}

func (r *SQLiteRepo) setStatus(ctx context.Context, id uuid.UUID, status string, transcript, errMsg *string) error {
	res, err := r.db.ExecContext(ctx, `
		update upload_jobs
		set status = $1,
		    transcript = coalesce($2, transcript),
		    error_message = coalesce($3, error_message),
		    updated_at = $4
		where id = $5`,
		status, transcript, errMsg, time.Now().UTC().Format(time.RFC3339Nano), id.String(),
	)
	if err != nil {
		return fmt.Errorf("updating job %s to %s: %w", id, status, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating job %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("job %s not found", id)
	}
	return nil
}

func (r *SQLiteRepo) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	var (
		job        Job
		idStr      string
		createdAt  string
		updatedAt  string
		transcript sql.NullString
		errMsg     sql.NullString
	)

	err := r.db.QueryRowContext(ctx, `
		select id, user_id, file_name, audio_hash, scratch_path, status, transcript, error_message, created_at, updated_at
		from upload_jobs where id = $1`, id.String(),
	).Scan(&idStr, &job.UserID, &job.FileName, &job.AudioHash, &job.ScratchPath,
		&job.Status, &transcript, &errMsg, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get job by id: %w", err)
	}

	job.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("get job by id: parsing id: %w", err)
	}
	if transcript.Valid {
		job.Transcript = &transcript.String
	}
	if errMsg.Valid {
		job.ErrorMessage = &errMsg.String
	}
	if job.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("get job by id: parsing created_at: %w", err)
	}
	if job.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("get job by id: parsing updated_at: %w", err)
	}

	return &job, nil
}

func (r *SQLiteRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		select count(*) from upload_jobs where status in ($1, $2)`,
		StatusQueued, StatusProcessing,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting active jobs: %w", err)
	}
	return n, nil
}
