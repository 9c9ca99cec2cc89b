package docstore

import (
	"context"
	"sync"
)

// MemoryWriter keeps documents in process memory. It backs the service
// when no Firestore project is configured and doubles as the test store.
// Writes follow the same merge semantics as the Firestore writer.
type MemoryWriter struct {
	mu   sync.Mutex
	docs map[string]map[string]interface{}
}

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{docs: make(map[string]map[string]interface{})}
}

func (w *MemoryWriter) WriteTranscript(ctx context.Context, userID, fileName string, rec TranscriptRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := userID + "/" + fileName
	doc, ok := w.docs[key]
	if !ok {
		doc = make(map[string]interface{})
		w.docs[key] = doc
	}
	doc["Response"] = rec.Response
	doc["Status"] = rec.Status
	doc["ProcessedAt"] = rec.ProcessedAt
	doc["Notification"] = rec.Notification
	return nil
}

// SetField writes a single field on a document, creating it if needed.
func (w *MemoryWriter) SetField(userID, fileName, field string, value interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := userID + "/" + fileName
	doc, ok := w.docs[key]
	if !ok {
		doc = make(map[string]interface{})
		w.docs[key] = doc
	}
	doc[field] = value
}

// Get returns a copy of the stored document.
func (w *MemoryWriter) Get(userID, fileName string) (map[string]interface{}, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, ok := w.docs[userID+"/"+fileName]
	if !ok {
		return nil, false
	}
	cp := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		cp[k] = v
	}
	return cp, true
}
