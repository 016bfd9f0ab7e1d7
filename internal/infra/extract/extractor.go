package extract

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/jinford/docmind/internal/core/ingestion"
)

// Extractor はファイル形式ごとのテキスト抽出実装です
// 対応形式はプレーンテキスト（.txt / text/*）とPDFです
type Extractor struct{}

// NewExtractor は新しい Extractor を作成します
func NewExtractor() *Extractor {
	return &Extractor{}
}

// コンパイル時の型チェック
var _ ingestion.Extractor = (*Extractor)(nil)

// Extract はファイル名とContent-Typeから形式を判定してテキストを抽出します
func (e *Extractor) Extract(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case ext == ".txt" || strings.HasPrefix(contentType, "text/"):
		return extractPlainText(data)
	case ext == ".pdf" || contentType == "application/pdf":
		return extractPDF(data)
	default:
		return "", fmt.Errorf("%w: %s (%s)", ingestion.ErrUnsupportedFileType, filename, contentType)
	}
}

func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text file is not valid UTF-8")
	}
	return string(data), nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
