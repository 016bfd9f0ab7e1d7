package ingestion

import "context"

// Embedder はテキストの埋め込みベクトルを生成するインターフェース
// テスト時のモック用に消費者側で定義
type Embedder interface {
	// Embed は単一テキストの埋め込みベクトルを生成する
	Embed(ctx context.Context, text string) ([]float32, error)

	// BatchEmbed は複数テキストの埋め込みベクトルを入力順で生成する
	// 戻り値の件数は必ず入力件数と一致する
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension は埋め込みベクトルの次元数を返す
	Dimension() int

	// MaxBatchSize は1回のAPI呼び出しで処理できる最大テキスト数を返す
	MaxBatchSize() int
}

// Extractor はアップロードされたファイルからプレーンテキストを抽出するインターフェース
type Extractor interface {
	// Extract はファイル名・Content-Type・バイト列からテキストを抽出する
	// 対応していない形式の場合は ErrUnsupportedFileType を返す
	Extract(ctx context.Context, filename, contentType string, data []byte) (string, error)
}
