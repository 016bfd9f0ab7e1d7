package search

import (
	"sort"

	"github.com/jinford/docmind/internal/core/ingestion"
)

// TopK はクエリベクトルと全チャンクの類似度を線形スキャンで計算し
// スコアの降順で上位topK件を返す
// 同スコアの場合はチャンクIndexの昇順を維持する（安定ソート）
// チャンク数はドキュメント単位で十分小さいため索引構造は使わない
func TopK(queryVector []float32, chunks []ingestion.Chunk, topK int) ([]*ScoredChunk, error) {
	scored := make([]*ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		score, err := CosineSimilarity(queryVector, chunk.Embedding)
		if err != nil {
			return nil, err
		}
		scored = append(scored, &ScoredChunk{
			Index: chunk.Index,
			Text:  chunk.Text,
			Score: score,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored, nil
}
