package search

import (
	"errors"
	"math"
)

// ErrDimensionMismatch はベクトルの次元が一致しない場合のエラー
var ErrDimensionMismatch = errors.New("search: vector dimension mismatch")

// CosineSimilarity は2つのベクトルのコサイン類似度を計算する
// いずれかのノルムがゼロの場合はNaNを伝播させず0.0を返す
// 純粋関数であり並行呼び出しに対して安全
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
