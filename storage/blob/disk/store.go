// Package diskblob stores document files on the local filesystem under a root directory.
package diskblob

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core/document"
)

var errInvalidPath = errors.New("invalid blob path")

type store struct {
	root string
}

var _ document.BlobStore = (*store)(nil) // interface compliance check

func NewStore(root string) (document.BlobStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, errors.Wrap(err, "creating blob root")
	}
	return &store{root: root}, nil
}

// resolve keeps blob paths inside the root directory.
func (s *store) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if path == "" || filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || clean == ".." {
		return "", errInvalidPath
	}
	return filepath.Join(s.root, clean), nil
}

func (s *store) Put(ctx context.Context, path string, r io.Reader, _ string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return errors.Wrap(err, "creating blob directory")
	}

	// a failed upload never leaves a partial blob at path
	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return errors.Wrap(err, "creating blob")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing blob")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "writing blob")
	}
	return errors.Wrap(os.Rename(tmp.Name(), full), "storing blob")
}

func (s *store) Open(_ context.Context, path string) (io.ReadCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if os.IsNotExist(err) {
		return nil, document.ErrBlobNotFound
	}
	return f, errors.Wrap(err, "opening blob")
}

func (s *store) Delete(_ context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if os.IsNotExist(err) {
		return document.ErrBlobNotFound
	}
	return errors.Wrap(err, "deleting blob")
}
