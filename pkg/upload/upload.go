// Package upload stores file-field attachments and hands back the stable
// server-assigned reference the form data bag keeps.
package upload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalUploader writes attachments to a directory served by a static file
// server. The stored reference is a server-relative path; the original
// filename only contributes its extension.
type LocalUploader struct {
	dir       string
	publicURL string
	logger    *slog.Logger
}

// NewLocalUploader creates an uploader writing into dir; stored references
// are prefixed with publicURL (e.g. "/uploads").
func NewLocalUploader(dir, publicURL string, logger *slog.Logger) *LocalUploader {
	return &LocalUploader{
		dir:       dir,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    logger.With("module", "uploader"),
	}
}

// Upload stores content under a server-assigned name and returns the
// reference to keep in the data bag.
func (u *LocalUploader) Upload(ctx context.Context, filename string, content []byte, mimeType string) (string, error) {
	err := os.MkdirAll(u.dir, 0750)
	if err != nil {
		return "", fmt.Errorf("upload directory is not writable: %w", err)
	}

	stored := uuid.New().String() + sanitizeExt(filename)
	target := filepath.Clean(path.Join(u.dir, stored))

	err = os.WriteFile(target, content, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to store upload %s: %w", filename, err)
	}

	u.logger.DebugContext(ctx, "stored upload",
		"original", filename, "stored", stored, "mime_type", mimeType, "bytes", len(content))

	return u.publicURL + "/" + stored, nil
}

// sanitizeExt keeps only a plain extension from the client filename so the
// stored name never carries path or control characters.
func sanitizeExt(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		return ""
	}

	return ext
}
