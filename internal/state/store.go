// Package state owns the persisted vbdctl state for the duration of one
// invocation: it loads it, hands it to exactly one command, and saves it
// back only when that command succeeded.
package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jbweber/vbdctl/api/v1alpha1"
	"github.com/jbweber/vbdctl/internal/loader"
)

// Store loads and saves the aggregate state. Both operations must be
// atomic from the caller's point of view.
type Store interface {
	Load(ctx context.Context) (*v1alpha1.State, error)
	Save(ctx context.Context, st *v1alpha1.State) error
}

// IOError reports a failure to load or save the state. It is fatal for
// the invocation.
type IOError struct {
	// Op is "load" or "save".
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to %s state: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s state %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FileStore keeps the state in a YAML file, optionally overlaid with an
// external partition definitions file.
type FileStore struct {
	path           string
	partitionsFile string
	hostName       string
}

// NewFileStore creates a FileStore for path. partitionsFile may be empty.
func NewFileStore(path, partitionsFile string) *FileStore {
	host, err := os.Hostname()
	if err != nil {
		host = ""
	}
	return &FileStore{
		path:           path,
		partitionsFile: partitionsFile,
		hostName:       host,
	}
}

// Path returns the state file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the state file. A missing file yields a new empty state.
func (s *FileStore) Load(ctx context.Context) (*v1alpha1.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, &IOError{Op: "load", Path: s.path, Err: err}
	}

	st, err := loader.LoadFromFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		st = v1alpha1.NewState(s.hostName)
	} else if err != nil {
		return nil, &IOError{Op: "load", Path: s.path, Err: err}
	}

	if s.partitionsFile != "" {
		parts, err := loader.LoadPartitionsFromFile(s.partitionsFile)
		if err != nil {
			return nil, &IOError{Op: "load", Path: s.partitionsFile, Err: err}
		}
		st.OverlayPartitions(parts)
	}

	return st, nil
}

// Save replaces the state file with st at the next generation. Every
// successful command is saved this way, including the physical access
// commands that leave the data untouched. st.Generation only advances once
// the file has been written.
func (s *FileStore) Save(ctx context.Context, st *v1alpha1.State) error {
	if err := ctx.Err(); err != nil {
		return &IOError{Op: "save", Path: s.path, Err: err}
	}

	next := *st
	next.Generation++
	if err := loader.SaveToFile(&next, s.path); err != nil {
		return &IOError{Op: "save", Path: s.path, Err: err}
	}
	st.Generation = next.Generation
	return nil
}
