package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Store persists uploaded content and hands back a public URL. The bot
// never reads files back; downloads go straight to the public URL.
type Store interface {
	Save(ctx context.Context, content io.Reader, contentType string) (string, error)
}

// DiskStore writes files under a single directory served as static
// content at baseURL. Files are named by content digest, so the same
// blob delivered twice lands on the same path and URLs are not
// guessable from upload order.
type DiskStore struct {
	dir     string
	baseURL string
	logger  *slog.Logger
}

func NewDiskStore(dir, baseURL string, logger *slog.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
	}
	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Save copies the content to a temp file while hashing it, then renames
// the temp file to its digest. The rename overwrites any identical blob
// already on disk, which keeps webhook redeliveries from accumulating
// duplicates.
func (s *DiskStore) Save(ctx context.Context, content io.Reader, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("init hasher: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	written, err := io.Copy(io.MultiWriter(tmp, hasher), content)
	closeErr := tmp.Close()
	if err != nil || closeErr != nil {
		os.Remove(tmp.Name())
		if err == nil {
			err = closeErr
		}
		return "", fmt.Errorf("write temp file: %w", err)
	}

	name := hex.EncodeToString(hasher.Sum(nil)) + extensionFor(contentType)
	path := filepath.Join(s.dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("store file %s: %w", name, err)
	}

	s.logger.Debug("stored file", "name", name, "bytes", written, "content_type", contentType)
	return s.baseURL + "/" + name, nil
}

// Dir is the directory the HTTP server mounts as /files.
func (s *DiskStore) Dir() string {
	return s.dir
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
