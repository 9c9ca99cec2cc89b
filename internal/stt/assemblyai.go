package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds everything the AssemblyAI client needs. Passing it at
// construction keeps credentials and endpoints out of package state and
// lets tests point the client at a local server.
type Config struct {
	APIKey       string
	BaseURL      string
	PollInterval time.Duration
	PollTimeout  time.Duration

	// HTTPClient overrides the default client (90s per-request timeout).
	HTTPClient *http.Client
}

// AssemblyAIProvider implements STT using the AssemblyAI transcription API
// with speaker diarization enabled.
type AssemblyAIProvider struct {
	cfg    Config
	client *http.Client
	log    zerolog.Logger
}

// NewAssemblyAIProvider creates a new AssemblyAI STT provider
func NewAssemblyAIProvider(cfg Config, log zerolog.Logger) *AssemblyAIProvider {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 90 * time.Second}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 10 * time.Minute
	}
	return &AssemblyAIProvider{
		cfg:    cfg,
		client: client,
		log:    log.With().Str("provider", "assemblyai").Logger(),
	}
}

// Name returns the provider name
func (p *AssemblyAIProvider) Name() string {
	return "assemblyai"
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL      string `json:"audio_url"`
	SpeakerLabels bool   `json:"speaker_labels"`
}

type transcriptResponse struct {
	ID string `json:"id"`
}

// Transcribe uploads the audio file, requests a diarized transcription job
// and polls until the job reaches a terminal state.
func (p *AssemblyAIProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	startTime := time.Now()

	audioBytes, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	p.log.Info().Str("path", audioPath).Int("size_bytes", len(audioBytes)).
		Msg("uploading audio")

	audioURL, err := p.uploadAudio(ctx, audioBytes)
	if err != nil {
		return nil, err
	}

	jobID, err := p.createJob(ctx, audioURL)
	if err != nil {
		return nil, err
	}
	p.log.Info().Str("job_id", jobID).Msg("transcription job created")

	state, err := AwaitCompletion(ctx, p, jobID, p.cfg.PollInterval, p.cfg.PollTimeout)
	if err != nil {
		return nil, err
	}

	p.log.Info().
		Str("job_id", jobID).
		Int("utterances", len(state.Utterances)).
		Dur("duration", time.Since(startTime)).
		Msg("transcription completed")

	return &Result{
		Utterances: state.Utterances,
		JobID:      jobID,
		Provider:   p.Name(),
	}, nil
}

// uploadAudio sends raw bytes to the binary upload endpoint and returns the
// remote audio handle.
func (p *AssemblyAIProvider) uploadAudio(ctx context.Context, audioBytes []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/upload", bytes.NewReader(audioBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("authorization", p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send upload request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		p.log.Error().Int("status", resp.StatusCode).Str("body", preview(body)).
			Msg("upload rejected")
		return "", fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, preview(body))
	}

	var ur uploadResponse
	if err := json.Unmarshal(body, &ur); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	if ur.UploadURL == "" {
		return "", fmt.Errorf("%w: response missing upload_url", ErrUploadFailed)
	}
	return ur.UploadURL, nil
}

// createJob requests a transcription job with speaker_labels enabled and
// returns the remote job id.
func (p *AssemblyAIProvider) createJob(ctx context.Context, audioURL string) (string, error) {
	payload, err := json.Marshal(transcriptRequest{AudioURL: audioURL, SpeakerLabels: true})
	if err != nil {
		return "", fmt.Errorf("failed to encode transcript request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create transcript request: %w", err)
	}
	req.Header.Set("authorization", p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send transcript request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcript response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		p.log.Error().Int("status", resp.StatusCode).Str("body", preview(body)).
			Msg("transcript request rejected")
		return "", fmt.Errorf("%w: status %d: %s", ErrJobRequestFailed, resp.StatusCode, preview(body))
	}

	var tr transcriptResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("failed to parse transcript response: %w", err)
	}
	if tr.ID == "" {
		return "", fmt.Errorf("%w: response missing id", ErrJobRequestFailed)
	}
	return tr.ID, nil
}

// JobStatus issues a single status request. It implements StatusSource so
// the polling loop can be exercised without the network.
func (p *AssemblyAIProvider) JobStatus(ctx context.Context, id string) (JobState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/transcript/"+id, nil)
	if err != nil {
		return JobState{}, fmt.Errorf("failed to create status request: %w", err)
	}
	req.Header.Set("authorization", p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return JobState{}, fmt.Errorf("failed to send status request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return JobState{}, fmt.Errorf("failed to read status response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return JobState{}, fmt.Errorf("status endpoint returned %d: %s", resp.StatusCode, preview(body))
	}

	var state JobState
	if err := json.Unmarshal(body, &state); err != nil {
		return JobState{}, fmt.Errorf("failed to parse status response: %w", err)
	}
	return state, nil
}

func preview(body []byte) string {
	const max = 500
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
