package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	md := "# Photosynthesis\n\nPlants turn **light** into\nenergy.\n\n- chlorophyll\n- glucose\n\n```\nCO2 + H2O\n```\n"

	tests := []struct {
		name     string
		fileType string
		body     string
		want     *string
		contains []string
		excludes []string
	}{
		{name: "plain text", fileType: "text/plain", body: "  cells divide  \n", want: strPtr("cells divide")},
		{name: "blank text", fileType: "text/plain", body: " \n\t", want: nil},
		{name: "unsupported", fileType: "image/png", body: "\x89PNG", want: nil},
		{
			name:     "markdown",
			fileType: "text/markdown",
			body:     md,
			contains: []string{"Photosynthesis", "Plants turn light into", "energy.", "chlorophyll", "glucose", "CO2 + H2O"},
			excludes: []string{"#", "**", "```"},
		},
	}
	ext := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ext.Extract(context.Background(), tt.fileType, strings.NewReader(tt.body))
			require.NoError(t, err)
			if tt.contains == nil {
				assert.Equal(t, tt.want, got)
				return
			}
			require.NotNil(t, got)
			for _, s := range tt.contains {
				assert.Contains(t, *got, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, *got, s)
			}
		})
	}
}

func TestExtractor_Extract_invalidPDF(t *testing.T) {
	_, err := New().Extract(context.Background(), "application/pdf", strings.NewReader("not a pdf"))
	assert.Error(t, err)
}

func TestExtractor_Extract_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Extract(ctx, "text/plain", strings.NewReader("text"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	got := truncate("aéb", 2) // é is 2 bytes
	assert.True(t, strings.HasPrefix(got, "a\n[truncated"))
}

func strPtr(s string) *string { return &s }
