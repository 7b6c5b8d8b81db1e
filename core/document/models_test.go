package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	for _, a := range Actions {
		got, err := ParseAction(a)
		require.NoError(t, err)
		assert.Equal(t, Action(a), got)
	}
	_, err := ParseAction("translate")
	assert.ErrorIs(t, err, ErrUnknownAction)
	_, err = ParseAction("")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestDocument_CheckAIReady(t *testing.T) {
	content := func(s string) *string { return &s }

	tests := []struct {
		name    string
		content *string
		want    bool
	}{
		{name: "not processed", content: nil},
		{name: "nothing extracted", content: content("  \n ")},
		{name: "processed", content: content("Cells divide."), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{Content: tt.content}
			assert.Equal(t, tt.want, doc.AIReady())
			if tt.want {
				assert.NoError(t, doc.CheckAIReady())
			} else {
				assert.ErrorIs(t, doc.CheckAIReady(), ErrNotProcessed)
			}
		})
	}
}

func TestFileType(t *testing.T) {
	tests := []struct {
		name, file, declared, want string
	}{
		{name: "declared", file: "notes.bin", declared: "application/pdf", want: "application/pdf"},
		{name: "declared with params", file: "a.txt", declared: "text/plain; charset=utf-8", want: "text/plain"},
		{name: "octet-stream falls back to the extension", file: "a.PDF", declared: "application/octet-stream", want: "application/pdf"},
		{name: "markdown", file: "README.md", want: "text/markdown"},
		{name: "no extension", file: "Makefile", want: "application/octet-stream"},
		{name: "unknown extension", file: "a.zzz", want: "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileType(tt.file, tt.declared))
		})
	}
}

func TestStoragePath(t *testing.T) {
	p1, err := StoragePath("u1", "c1", "Lecture 1.PDF")
	require.NoError(t, err)
	p2, err := StoragePath("u1", "c1", "Lecture 1.PDF")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(p1, "u1/c1/"))
	assert.True(t, strings.HasSuffix(p1, ".pdf"))
	assert.NotEqual(t, p1, p2)
}
