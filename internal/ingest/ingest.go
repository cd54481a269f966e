package ingest

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store persists uploaded audio to request-scoped temporary files.
type Store struct {
	dir string
}

// NewStore creates the temp directory if needed and returns a Store.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the upload to a uniquely named path and returns it together
// with a cleanup function. The uuid prefix keeps concurrent requests with
// identical filenames from colliding. Callers must invoke cleanup on every
// exit path.
func (s *Store) Save(filename string, r io.Reader) (string, func(), error) {
	name := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(filename))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("[ingest] remove temp file %s: %v", path, err)
		}
	}
	return path, cleanup, nil
}
