package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// FirestoreWriter persists transcript records under
// <usersCollection>/<userId>/<filesCollection>/<fileName>.
type FirestoreWriter struct {
	client          *firestore.Client
	usersCollection string
	filesCollection string
}

// NewFirestoreWriter connects to Firestore using a service account key
// file, or application default credentials when credsFile is empty.
func NewFirestoreWriter(ctx context.Context, projectID, credsFile, usersCollection, filesCollection string) (*FirestoreWriter, error) {
	var opts []option.ClientOption
	if credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &FirestoreWriter{
		client:          client,
		usersCollection: usersCollection,
		filesCollection: filesCollection,
	}, nil
}

// WriteTranscript merge-upserts the record: MergeAll creates the document
// if absent and leaves unrelated existing fields untouched.
func (w *FirestoreWriter) WriteTranscript(ctx context.Context, userID, fileName string, rec TranscriptRecord) error {
	doc := w.client.
		Collection(w.usersCollection).Doc(userID).
		Collection(w.filesCollection).Doc(fileName)

	data := map[string]interface{}{
		"Response":     rec.Response,
		"Status":       rec.Status,
		"ProcessedAt":  rec.ProcessedAt,
		"Notification": rec.Notification,
	}

	if _, err := doc.Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to write transcript for user %s file %s: %w", userID, fileName, err)
	}
	return nil
}

// Close releases the underlying client.
func (w *FirestoreWriter) Close() error {
	return w.client.Close()
}
