package ingestion

import (
	"time"

	"github.com/google/uuid"
)

// Document は取り込み済みドキュメントを表す
// チャンクはドキュメントが排他的に所有し、ドキュメントより長く生存しない
type Document struct {
	ID        uuid.UUID // ドキュメントID（取り込みごとに新規生成、再利用しない）
	Filename  string    // アップロード時のファイル名
	Text      string    // 抽出済みの全文
	CreatedAt time.Time // 作成日時
	Chunks    []Chunk   // チャンク一覧（Indexは0始まりの連番で原文順）
}

// Chunk はドキュメントの一部分とその埋め込みベクトルを表す
type Chunk struct {
	DocumentID uuid.UUID // 所属ドキュメントID（逆参照、所有ではない）
	Index      int       // ドキュメント内の位置（0始まりの連番）
	Text       string    // トリム済みテキスト（空文字列にはならない）
	Embedding  []float32 // 埋め込みベクトル（プロバイダー固定次元）
}

// DocumentSummary は一覧表示用のドキュメント概要を表す
type DocumentSummary struct {
	ID         uuid.UUID `json:"docId"`
	Filename   string    `json:"filename"`
	CharCount  int       `json:"charCount"`
	ChunkCount int       `json:"chunkCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IngestParams は取り込み処理のパラメータを表す
type IngestParams struct {
	Filename    string // アップロードされたファイル名
	ContentType string // Content-Typeヘッダの値（空でもよい）
	Data        []byte // ファイルのバイト列
}

// IngestResult は取り込み処理の結果を表す
type IngestResult struct {
	DocumentID uuid.UUID `json:"docId"`
	Filename   string    `json:"filename"`
	CharCount  int       `json:"charCount"`
	ChunkCount int       `json:"chunkCount"`
}
