package ingestion

import (
	"strings"
	"unicode"
)

const (
	// DefaultChunkSize はチャンクの最大文字数のデフォルト値
	DefaultChunkSize = 1200
	// DefaultChunkOverlap は隣接チャンク間のオーバーラップ文字数のデフォルト値
	DefaultChunkOverlap = 150
)

// Chunker はテキストを固定長のオーバーラップ付きチャンクに分割します
// 文字数は byte 数ではなく rune 数で数えます
type Chunker struct {
	maxChars int // 1チャンクの最大文字数
	overlap  int // 隣接チャンク間で重複させる文字数
}

// NewChunker は新しいChunkerを作成します
// maxChars <= 0、overlap < 0、overlap >= maxChars の場合はエラーを返します
func NewChunker(maxChars, overlap int) (*Chunker, error) {
	if maxChars <= 0 || overlap < 0 || overlap >= maxChars {
		return nil, ErrInvalidChunkParams
	}

	return &Chunker{
		maxChars: maxChars,
		overlap:  overlap,
	}, nil
}

// Split はテキストをチャンクのテキスト列に分割します
// 改行コードはLFに正規化し、チャンク境界は直近の空白文字まで後退させます
// 前後の空白をトリムした結果が空になるチャンクは除外します
func (c *Chunker) Split(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	runes := []rune(normalized)

	var chunks []string
	cursor := 0

	for cursor < len(runes) {
		clamped := cursor + c.maxChars
		if clamped > len(runes) {
			clamped = len(runes)
		}
		end := clamped

		// テキスト途中で切る場合は直近の空白文字まで境界を後退させて
		// 単語の途中で分割しないようにする
		if end < len(runes) {
			for end > cursor && !unicode.IsSpace(runes[end]) {
				end--
			}
			// 空白が見つからずカーソルまで戻ってしまった場合は
			// 単語の途中でもそのまま切る
			if end <= cursor {
				end = clamped
			}
			// 後退した境界がオーバーラップに覆われるとカーソルが前進せず
			// 後退分のテキストがどのチャンクにも含まれないため
			// そのステップだけ後退なしの境界で切り出す
			if end-c.overlap <= cursor {
				end = clamped
			}
		}

		piece := strings.TrimSpace(string(runes[cursor:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}

		if end >= len(runes) {
			break
		}

		next := end - c.overlap
		if next < 0 {
			next = 0
		}
		cursor = next
	}

	return chunks
}
