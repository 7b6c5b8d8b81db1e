package diskblob

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studybuddy/core/document"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	path := "u1/c1/abc.txt"
	require.NoError(t, s.Put(ctx, path, strings.NewReader("hello"), "text/plain"))

	rc, err := s.Open(ctx, path)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(body))

	require.NoError(t, s.Delete(ctx, path))
	_, err = s.Open(ctx, path)
	assert.ErrorIs(t, err, document.ErrBlobNotFound)
	assert.ErrorIs(t, s.Delete(ctx, path), document.ErrBlobNotFound)
}

func TestStore_invalidPaths(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, path := range []string{"", "..", "../escape.txt", "/etc/passwd", "u1/../../escape.txt"} {
		t.Run(path, func(t *testing.T) {
			assert.ErrorIs(t, s.Put(ctx, path, strings.NewReader("x"), ""), errInvalidPath)
		})
	}
}

func TestStore_cancelled(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Put(ctx, "u1/c1/a.txt", strings.NewReader("x"), ""), context.Canceled)
}
