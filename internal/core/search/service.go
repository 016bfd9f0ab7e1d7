package search

import (
	"context"
	"fmt"

	"github.com/jinford/docmind/internal/core/ingestion"
)

// Embedder はテキストのEmbedding生成インターフェース
type Embedder interface {
	// Embed は単一テキストのEmbeddingを生成する
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SearchService はドキュメント内検索のビジネスロジックを提供する
type SearchService struct {
	repo     Repository
	embedder Embedder
}

// NewSearchService は新しいSearchServiceを作成する
func NewSearchService(repo Repository, embedder Embedder) *SearchService {
	return &SearchService{
		repo:     repo,
		embedder: embedder,
	}
}

// Search はクエリに基づいてドキュメント内のベクトル検索を実行する
func (s *SearchService) Search(ctx context.Context, params SearchParams) ([]*ScoredChunk, error) {
	// バリデーション
	if params.Query == "" {
		return nil, fmt.Errorf("query is required")
	}

	// クエリをEmbeddingに変換
	queryVector, err := s.embedder.Embed(ctx, params.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	docOpt, err := s.repo.GetDocumentWithChunks(ctx, params.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	doc, ok := docOpt.Get()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ingestion.ErrDocumentNotFound, params.DocumentID)
	}

	topK := ClampTopK(params.TopK)

	results, err := TopK(queryVector, doc.Chunks, topK)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return results, nil
}
