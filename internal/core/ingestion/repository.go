package ingestion

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Repository はドキュメントとチャンクのデータアクセスを統合するインターフェース
// テスト時のモック用に消費者側で定義
type Repository interface {
	// SaveDocument はドキュメントと全チャンクを単一トランザクションで保存する
	// 途中で失敗した場合は何も保存されない
	SaveDocument(ctx context.Context, doc *Document) error

	// GetDocumentWithChunks はドキュメントをチャンク込みで取得する
	// チャンクはIndexの昇順で返す
	GetDocumentWithChunks(ctx context.Context, id uuid.UUID) (mo.Option[*Document], error)

	// ListRecentDocuments は作成日時の降順でドキュメント概要を最大limit件返す
	ListRecentDocuments(ctx context.Context, limit int) ([]*DocumentSummary, error)
}
