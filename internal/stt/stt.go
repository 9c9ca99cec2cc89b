package stt

import "context"

// Utterance is one diarized segment of speech: a speaker index assigned by
// the remote service and the transcribed text.
type Utterance struct {
	Speaker int    `json:"speaker"`
	Text    string `json:"text"`
}

// Result represents the result of a speech-to-text transcription
type Result struct {
	Utterances []Utterance // ordered as spoken
	JobID      string      // remote transcription job id
	Provider   string      // the provider used (e.g., "assemblyai")
}

// Provider defines the interface for speech-to-text providers
type Provider interface {
	// Transcribe transcribes an audio file and returns the result
	Transcribe(ctx context.Context, audioPath string) (*Result, error)

	// Name returns the name of the provider
	Name() string
}
