package docstore

import (
	"context"
	"testing"
	"time"
)

func TestWriteTranscriptMergesIntoExistingDocument(t *testing.T) {
	w := NewMemoryWriter()
	w.SetField("user-1", "meeting.wav", "Other", "Y")

	rec := NewTranscriptRecord("TRANSCRIPTION OF AUDIO\n\nSpeaker A: Hi", time.UTC)
	if err := w.WriteTranscript(context.Background(), "user-1", "meeting.wav", rec); err != nil {
		t.Fatalf("WriteTranscript: %v", err)
	}

	doc, ok := w.Get("user-1", "meeting.wav")
	if !ok {
		t.Fatal("document not found after write")
	}
	if doc["Other"] != "Y" {
		t.Errorf("merge dropped pre-existing field: %v", doc)
	}
	if doc["Response"] != rec.Response {
		t.Errorf("Response = %v, want %v", doc["Response"], rec.Response)
	}
	if doc["Status"] != StatusProcessed {
		t.Errorf("Status = %v, want %q", doc["Status"], StatusProcessed)
	}
	if doc["Notification"] != NotificationOn {
		t.Errorf("Notification = %v, want %q", doc["Notification"], NotificationOn)
	}
}

func TestWriteTranscriptCreatesDocument(t *testing.T) {
	w := NewMemoryWriter()

	rec := NewTranscriptRecord("text", time.UTC)
	if err := w.WriteTranscript(context.Background(), "user-2", "clip.mp3", rec); err != nil {
		t.Fatalf("WriteTranscript: %v", err)
	}

	if _, ok := w.Get("user-2", "clip.mp3"); !ok {
		t.Fatal("expected document to be created")
	}
}

func TestNewTranscriptRecordTimestampZone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skip("zoneinfo not available")
	}

	rec := NewTranscriptRecord("text", loc)
	ts, err := time.Parse(time.RFC3339, rec.ProcessedAt)
	if err != nil {
		t.Fatalf("ProcessedAt %q is not RFC3339: %v", rec.ProcessedAt, err)
	}
	_, offset := ts.Zone()
	if offset != 5*3600+1800 {
		t.Errorf("expected +05:30 offset, got %d seconds", offset)
	}
}
