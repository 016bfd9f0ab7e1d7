package ask

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/jinford/docmind/internal/core/search"
)

// SystemPrompt は回答をコンテキストに限定させるための固定指示
const SystemPrompt = "You are a helpful assistant that answers questions about a document. " +
	"Answer ONLY from the provided context. " +
	"If the context does not contain enough information to answer, say exactly: " +
	"\"I don't know based on this document.\" " +
	"Cite the chunk numbers you used in the form [Chunk N]. Be concise."

const (
	// DefaultContextTokenLimit はコンテキストに割り当てるトークン数の上限
	DefaultContextTokenLimit = 6000
	// PreviewMaxRunes はソースプレビューの最大文字数
	PreviewMaxRunes = 240
)

// PromptBuilder は検索結果からLLMに渡すプロンプトを構築する
type PromptBuilder struct {
	encoder    *tiktoken.Tiktoken
	tokenLimit int
}

// NewPromptBuilder は新しいPromptBuilderを作成する
// トークン数の計測にはcl100k_baseエンコーダを使用する
func NewPromptBuilder(tokenLimit int) (*PromptBuilder, error) {
	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoder: %w", err)
	}
	if tokenLimit <= 0 {
		tokenLimit = DefaultContextTokenLimit
	}

	return &PromptBuilder{
		encoder:    encoder,
		tokenLimit: tokenLimit,
	}, nil
}

// BuildContext は検索結果を "[Chunk N]" 形式のブロックに整形する
// ブロックはスコアの降順（検索結果の順序）のまま空行区切りで連結し
// トークン上限を超える場合は末尾のブロックから丸ごと落とす
func (b *PromptBuilder) BuildContext(chunks []*search.ScoredChunk) string {
	var blocks []string
	var total int

	for _, chunk := range chunks {
		block := fmt.Sprintf("[Chunk %d]\n%s", chunk.Index, chunk.Text)
		tokens := len(b.encoder.Encode(block, nil, nil))
		if len(blocks) > 0 && total+tokens > b.tokenLimit {
			break
		}
		blocks = append(blocks, block)
		total += tokens
	}

	return strings.Join(blocks, "\n\n")
}

// BuildUserPrompt は質問文とコンテキストからユーザープロンプトを構築する
func (b *PromptBuilder) BuildUserPrompt(question, context string) string {
	var sb strings.Builder
	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\n\nContext:\n")
	sb.WriteString(context)
	return sb.String()
}

// Preview はチャンク本文の表示用プレビューを返す
// PreviewMaxRunes文字以内ならそのまま、超える場合は先頭240文字に "..." を付ける
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewMaxRunes {
		return text
	}
	return string(runes[:PreviewMaxRunes]) + "..."
}
