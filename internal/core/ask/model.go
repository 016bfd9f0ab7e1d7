package ask

import "github.com/google/uuid"

// AskParams は質問応答のパラメータを表す
type AskParams struct {
	DocumentID uuid.UUID // 対象ドキュメントID
	Question   string    // ユーザーの質問文
	TopK       int       // コンテキストに使うチャンク数（デフォルト: 5）
}

// AskResult は質問応答の結果を表す
type AskResult struct {
	Answer  string            `json:"answer"`  // 生成された回答
	Sources []SourceReference `json:"sources"` // 参照したチャンク情報
}

// SourceReference は回答の根拠となったチャンク参照を表す
type SourceReference struct {
	ChunkIndex int     `json:"chunkIndex"` // チャンクのIndex
	Score      float64 `json:"score"`      // 関連度スコア
	Preview    string  `json:"preview"`    // チャンク本文のプレビュー
}
