package audio

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SanitizeFilename strips path components and collapses anything outside
// [A-Za-z0-9_.-] to underscores, so a client-supplied name is safe to join
// into the scratch directory.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "audio"
	}
	return name
}

// SaveScratch writes an uploaded file into dir under a unique sanitized
// name. It returns the stored path and a cleanup func that removes the
// file; the caller runs cleanup once processing finishes, on every exit
// path, so scratch files do not accumulate.
func SaveScratch(file *multipart.FileHeader, dir string) (string, func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), SanitizeFilename(file.Filename))
	dst := filepath.Join(dir, name)

	if err := saveMultipartFile(file, dst); err != nil {
		return "", nil, fmt.Errorf("failed to save file: %w", err)
	}

	cleanup := func() { os.Remove(dst) }
	return dst, cleanup, nil
}

func saveMultipartFile(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = out.ReadFrom(src)
	return err
}
