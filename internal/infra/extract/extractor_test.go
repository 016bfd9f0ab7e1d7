package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/docmind/internal/core/ingestion"
)

func TestExtractor_PlainText(t *testing.T) {
	e := NewExtractor()
	ctx := context.Background()

	tests := []struct {
		name        string
		filename    string
		contentType string
	}{
		{name: "txt拡張子", filename: "notes.txt", contentType: ""},
		{name: "text系Content-Type", filename: "notes.dat", contentType: "text/plain"},
		{name: "markdownもtext扱い", filename: "readme.dat", contentType: "text/markdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract(ctx, tt.filename, tt.contentType, []byte("hello world"))
			require.NoError(t, err)
			assert.Equal(t, "hello world", got)
		})
	}
}

func TestExtractor_InvalidUTF8(t *testing.T) {
	e := NewExtractor()

	_, err := e.Extract(context.Background(), "broken.txt", "text/plain", []byte{0xff, 0xfe, 0xfd})
	assert.Error(t, err)
}

func TestExtractor_UnsupportedType(t *testing.T) {
	e := NewExtractor()

	_, err := e.Extract(context.Background(), "image.png", "image/png", []byte{0x89, 0x50, 0x4e, 0x47})
	assert.ErrorIs(t, err, ingestion.ErrUnsupportedFileType)
}

func TestExtractor_BrokenPDF(t *testing.T) {
	e := NewExtractor()

	_, err := e.Extract(context.Background(), "doc.pdf", "application/pdf", []byte("not a pdf"))
	assert.Error(t, err)
}
