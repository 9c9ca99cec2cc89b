// Package docstore persists formatted transcripts into a per-user,
// per-file slot of a hierarchical document store.
package docstore

import (
	"context"
	"time"
)

// StatusProcessed marks a record whose transcript finished processing.
const StatusProcessed = "processed"

// NotificationOn is the sentinel written to flag the record for client
// notification.
const NotificationOn = "on"

// TranscriptRecord is the payload merged into a user's file document.
type TranscriptRecord struct {
	Response     string `firestore:"Response" json:"Response"`
	Status       string `firestore:"Status" json:"Status"`
	ProcessedAt  string `firestore:"ProcessedAt" json:"ProcessedAt"`
	Notification string `firestore:"Notification" json:"Notification"`
}

// NewTranscriptRecord builds the record for a finished transcript, with the
// server timestamp rendered in the given zone.
func NewTranscriptRecord(formatted string, loc *time.Location) TranscriptRecord {
	return TranscriptRecord{
		Response:     formatted,
		Status:       StatusProcessed,
		ProcessedAt:  time.Now().In(loc).Format(time.RFC3339),
		Notification: NotificationOn,
	}
}

// Writer merge-upserts transcript records. A write preserves any fields
// already present on the target document that are not part of the record.
type Writer interface {
	WriteTranscript(ctx context.Context, userID, fileName string, rec TranscriptRecord) error
}
