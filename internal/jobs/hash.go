package jobs

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"lukechampine.com/blake3"
)

// HashFile returns the blake3 hex digest of the file at path. The digest
// is stored on the job record so re-uploads of identical audio can be
// spotted in the job table.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hashing audio file: %w", err)
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing audio file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
