package search

import "github.com/google/uuid"

// ScoredChunk はクエリとの類似度が付与されたチャンクを表す
type ScoredChunk struct {
	Index int     `json:"chunkIndex"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// SearchParams は検索パラメータを表す
type SearchParams struct {
	DocumentID uuid.UUID // 検索対象ドキュメント（必須）
	Query      string    // 検索クエリ（必須）
	TopK       int       // 取得件数（1..10にクランプ、0以下はデフォルト5）
}

const (
	// DefaultTopK は検索結果のデフォルト取得件数
	DefaultTopK = 5
	// MaxTopK は検索結果の最大取得件数
	MaxTopK = 10
)

// ClampTopK はtopKを有効な範囲に収める
// 0以下はDefaultTopK、MaxTopK超はMaxTopKになる
func ClampTopK(topK int) int {
	if topK <= 0 {
		return DefaultTopK
	}
	if topK > MaxTopK {
		return MaxTopK
	}
	return topK
}
