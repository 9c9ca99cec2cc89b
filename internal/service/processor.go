// Package service composes the upload pipeline: transcribe, format,
// optionally polish, persist, and keep the job record in step.
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"voicedocs/internal/ai"
	"voicedocs/internal/docstore"
	"voicedocs/internal/jobs"
	"voicedocs/internal/stt"
	"voicedocs/internal/transcript"
)

type Processor struct {
	provider stt.Provider
	store    docstore.Writer
	jobs     jobs.Repository
	polisher *ai.Polisher
	loc      *time.Location
	log      zerolog.Logger
}

func NewProcessor(provider stt.Provider, store docstore.Writer, repo jobs.Repository, polisher *ai.Polisher, loc *time.Location, log zerolog.Logger) *Processor {
	return &Processor{
		provider: provider,
		store:    store,
		jobs:     repo,
		polisher: polisher,
		loc:      loc,
		log:      log.With().Str("component", "processor").Logger(),
	}
}

// Process runs the transcribe → format → store sequence for one job. The
// scratch cleanup runs on every exit path. Nothing is written to the
// document store unless transcription succeeded.
func (p *Processor) Process(ctx context.Context, job *jobs.Job, cleanup func()) (docstore.TranscriptRecord, error) {
	if cleanup != nil {
		defer cleanup()
	}

	log := p.log.With().Str("job_id", job.ID.String()).Str("user_id", job.UserID).Logger()

	if err := p.jobs.MarkProcessing(ctx, job.ID); err != nil {
		log.Error().Err(err).Msg("failed to mark job processing")
	}

	result, err := p.provider.Transcribe(ctx, job.ScratchPath)
	if err != nil {
		log.Error().Err(err).Msg("transcription failed")
		p.markFailed(ctx, job, err, log)
		return docstore.TranscriptRecord{}, err
	}

	formatted := transcript.Format(result.Utterances)

	if p.polisher != nil {
		polished, err := p.polisher.Polish(ctx, formatted)
		if err != nil {
			log.Warn().Err(err).Msg("transcript polish failed, keeping original")
		} else {
			formatted = polished
		}
	}

	rec := docstore.NewTranscriptRecord(formatted, p.loc)
	if err := p.store.WriteTranscript(ctx, job.UserID, job.FileName, rec); err != nil {
		log.Error().Err(err).Msg("store write failed")
		p.markFailed(ctx, job, err, log)
		return docstore.TranscriptRecord{}, err
	}

	if err := p.jobs.MarkCompleted(ctx, job.ID, formatted); err != nil {
		log.Error().Err(err).Msg("failed to mark job completed")
	}

	log.Info().Int("utterances", len(result.Utterances)).Msg("upload processed")
	return rec, nil
}

func (p *Processor) markFailed(ctx context.Context, job *jobs.Job, cause error, log zerolog.Logger) {
	if err := p.jobs.MarkFailed(ctx, job.ID, cause.Error()); err != nil {
		log.Error().Err(err).Msg("failed to mark job failed")
	}
}
