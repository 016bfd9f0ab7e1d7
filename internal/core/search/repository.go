package search

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/jinford/docmind/internal/core/ingestion"
)

// Repository は検索に必要なデータアクセスを提供するインターフェース
type Repository interface {
	// GetDocumentWithChunks はドキュメントをチャンク込み（Index昇順）で取得する
	GetDocumentWithChunks(ctx context.Context, id uuid.UUID) (mo.Option[*ingestion.Document], error)
}
