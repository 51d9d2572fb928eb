package filestore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists uploaded artifacts on local disk, one directory per owner.
// Paths returned by Save* are absolute and recorded on knowledge entries.
type Store struct {
	baseDir    string
	httpClient *http.Client
}

func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = filepath.Join(".", "uploads")
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving storage dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	return &Store{
		baseDir:    abs,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// SaveBytes writes data under the owner's directory. The stored name is
// prefixed with a fresh uuid so repeated uploads of the same file never
// collide.
func (s *Store) SaveBytes(ownerId, fileName string, data []byte) (string, error) {
	dir := filepath.Join(s.baseDir, sanitize(ownerId))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating owner dir: %w", err)
	}

	path := filepath.Join(dir, uuid.New().String()+"-"+sanitize(fileName))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// SaveText stores a plain text body as a .txt artifact.
func (s *Store) SaveText(ownerId, name, text string) (string, error) {
	if !strings.HasSuffix(name, ".txt") {
		name += ".txt"
	}
	return s.SaveBytes(ownerId, name, []byte(text))
}

// Download fetches a remote media URL and persists it for the owner.
func (s *Store) Download(ctx context.Context, url, ownerId, fileName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building download request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", fmt.Errorf("reading download body: %w", err)
	}

	return s.SaveBytes(ownerId, fileName, data)
}

// Exists reports whether a previously stored path is still present.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// sanitize strips path separators so owner ids and file names cannot escape
// the storage root.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" {
		return "unnamed"
	}
	return name
}
