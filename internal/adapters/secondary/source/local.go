package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
	"github.com/lorrc/testing-insight/internal/core/ports"
)

// LocalSource serves data files from a directory on disk. File ids are the
// file names.
type LocalSource struct {
	dir string
}

var _ ports.FileSource = (*LocalSource)(nil)

// NewLocalSource creates a source over dir.
func NewLocalSource(dir string) ports.FileSource {
	return &LocalSource{dir: dir}
}

// List returns the regular files in the directory.
func (s *LocalSource) List(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read source directory %s: %w", s.dir, err)
	}

	files := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files[e.Name()] = e.Name()
		}
	}
	return files, nil
}

// Open opens the named file. Ids cannot escape the directory.
func (s *LocalSource) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, filepath.Base(id)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", id, apperrors.ErrFileNotFound)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
