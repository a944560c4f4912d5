package store

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNotExist is returned by Load when no data file has been written yet.
var ErrNotExist = errors.New("store: data file does not exist")

// A StorageError wraps an I/O failure while writing the durable store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "store: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DurableStore persists the full event collection as an opaque blob.
type DurableStore interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// FileStore keeps the blob in a single file on disk.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path. The file and its
// parent directory are created lazily on the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the current blob. It returns ErrNotExist when nothing has
// been saved yet.
func (s *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return data, nil
}

// Save writes the blob to a temporary file in the same directory and
// renames it into place, so a crash mid-write never leaves a truncated
// file visible to subsequent loads.
func (s *FileStore) Save(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StorageError{Op: "create data directory", Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &StorageError{Op: "create temp file", Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &StorageError{Op: "write temp file", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &StorageError{Op: "close temp file", Err: err}
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return &StorageError{Op: "rename temp file", Err: err}
	}

	return nil
}
