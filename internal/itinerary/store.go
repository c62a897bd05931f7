package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/neexbeast/itinerary/internal/destination"
)

// DefaultFile is the itinerary file used when no path is configured.
const DefaultFile = "iternaries.json"

// ErrNoFile is returned by a Store that has nothing saved yet.
var ErrNoFile = errors.New("no itinerary file found")

// Store persists the record form of an itinerary.
type Store interface {
	Save(ctx context.Context, records []destination.Record) error
	Load(ctx context.Context) ([]destination.Record, error)
}

// FileStore keeps the itinerary as a JSON array in a single file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore for path, or DefaultFile when path is empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	return &FileStore{path: path}
}

// Path returns the file location.
func (s *FileStore) Path() string { return s.path }

// fileMode is the permission of a newly created itinerary file. An existing
// file keeps its own.
const fileMode fs.FileMode = 0o644

// Save writes records to a temporary file next to the target and renames it
// into place, so a failed write leaves the previous file intact.
func (s *FileStore) Save(_ context.Context, records []destination.Record) error {
	if records == nil {
		records = []destination.Record{}
	}

	b, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling itinerary: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", s.path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	mode := fileMode
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	// CreateTemp uses 0600, which the rename would otherwise carry over.
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting mode on %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// Load reads the records in file order. A missing file yields ErrNoFile.
func (s *FileStore) Load(_ context.Context) ([]destination.Record, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNoFile, s.path)
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var records []destination.Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	return records, nil
}
