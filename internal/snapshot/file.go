package snapshot

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-structure-sync/internal/logging"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

var ErrPathRequired = errors.New("snapshot: file store requires a path")

// FileStore persists the snapshot as a single YAML or JSON document.
type FileStore struct {
	path   string
	format Format
	logger interfaces.Logger
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFormat overrides the format inferred from the path.
func WithFormat(format Format) FileOption {
	return func(s *FileStore) {
		if format != "" {
			s.format = format
		}
	}
}

// WithFileLogger sets the store logger.
func WithFileLogger(logger interfaces.Logger) FileOption {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewFileStore(path string, opts ...FileOption) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrPathRequired
	}
	store := &FileStore{
		path:   path,
		format: FormatForPath(path),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

// Path returns the document location.
func (s *FileStore) Path() string {
	return s.path
}

// Write replaces the document atomically through a temp file in the same directory.
func (s *FileStore) Write(_ context.Context, snap *Snapshot) error {
	data, err := Marshal(snap, s.format)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return err
	}
	s.logger.Debug("snapshot.file.written", "path", s.path, "records", snap.Len())
	return nil
}

func (s *FileStore) Read(_ context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return Unmarshal(data, s.format)
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	s.logger.Debug("snapshot.file.cleared", "path", s.path)
	return nil
}
