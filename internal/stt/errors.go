package stt

import "errors"

var (
	// ErrUploadFailed means the service rejected the raw audio upload.
	ErrUploadFailed = errors.New("audio upload rejected")

	// ErrJobRequestFailed means the transcription job could not be created.
	ErrJobRequestFailed = errors.New("transcription job request rejected")

	// ErrTranscriptionFailed means the remote job reached the failed state.
	ErrTranscriptionFailed = errors.New("transcription failed")

	// ErrTimeout means the job did not reach a terminal state before the
	// poll deadline.
	ErrTimeout = errors.New("transcription did not finish before deadline")
)
