package ingestion

import "errors"

var (
	// ErrInvalidChunkParams はチャンクサイズやオーバーラップの指定が不正な場合のエラー
	ErrInvalidChunkParams = errors.New("ingestion: invalid chunk parameters")

	// ErrNoExtractableText は抽出したテキストからチャンクが1つも得られなかった場合のエラー
	ErrNoExtractableText = errors.New("ingestion: no extractable text")

	// ErrUnsupportedFileType は対応していないファイル形式を受け取った場合のエラー
	ErrUnsupportedFileType = errors.New("ingestion: unsupported file type")

	// ErrEmbeddingCountMismatch は埋め込み結果の件数が入力件数と一致しない場合のエラー
	ErrEmbeddingCountMismatch = errors.New("ingestion: embedding count mismatch")

	// ErrEmbeddingDimensionMismatch は埋め込みベクトルの次元がプロバイダーの宣言と一致しない場合のエラー
	ErrEmbeddingDimensionMismatch = errors.New("ingestion: embedding dimension mismatch")

	// ErrDocumentNotFound は指定されたドキュメントが存在しない場合のエラー
	ErrDocumentNotFound = errors.New("ingestion: document not found")
)
