package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists opaque binary assets and issues references that can be
// turned into serveable URLs.
type Store interface {
	Store(ctx context.Context, data []byte, contentType string) (string, error)
	Open(ref string) (io.ReadCloser, string, error)
	URLFor(ref string) string
}

// DiskStore keeps assets as files under a base directory, one file per ref.
type DiskStore struct {
	baseDir string
	urlBase string
}

func NewDiskStore(baseDir, urlBase string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &DiskStore{
		baseDir: baseDir,
		urlBase: strings.TrimRight(urlBase, "/"),
	}, nil
}

func (s *DiskStore) Store(_ context.Context, data []byte, contentType string) (string, error) {
	ref := uuid.New().String() + extFor(contentType)
	if err := os.WriteFile(filepath.Join(s.baseDir, ref), data, 0o644); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	return ref, nil
}

func (s *DiskStore) Open(ref string) (io.ReadCloser, string, error) {
	// Refs are issued by Store; reject anything that escapes the base dir.
	if ref != filepath.Base(ref) {
		return nil, "", os.ErrNotExist
	}
	f, err := os.Open(filepath.Join(s.baseDir, ref))
	if err != nil {
		return nil, "", err
	}
	return f, contentTypeFor(ref), nil
}

func (s *DiskStore) URLFor(ref string) string {
	return s.urlBase + "/" + ref
}

func extFor(contentType string) string {
	switch contentType {
	case "audio/mpeg":
		return ".mp3"
	case "audio/wav":
		return ".wav"
	default:
		return ".bin"
	}
}

func contentTypeFor(ref string) string {
	switch filepath.Ext(ref) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}
