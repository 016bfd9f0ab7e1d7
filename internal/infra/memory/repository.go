package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/jinford/docmind/internal/core/ingestion"
	"github.com/jinford/docmind/internal/core/search"
)

// Repository はメモリ上のドキュメントストア実装です
// プロセスを跨いだ永続化はせず、開発とテストで使用します
type Repository struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]*ingestion.Document
}

// NewRepository は新しい Repository を作成します
func NewRepository() *Repository {
	return &Repository{
		docs: make(map[uuid.UUID]*ingestion.Document),
	}
}

// コンパイル時の型チェック
var (
	_ ingestion.Repository = (*Repository)(nil)
	_ search.Repository    = (*Repository)(nil)
)

// SaveDocument はドキュメントと全チャンクを保存します
func (r *Repository) SaveDocument(ctx context.Context, doc *ingestion.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *doc
	stored.Chunks = append([]ingestion.Chunk(nil), doc.Chunks...)
	sort.Slice(stored.Chunks, func(i, j int) bool {
		return stored.Chunks[i].Index < stored.Chunks[j].Index
	})

	r.docs[doc.ID] = &stored
	return nil
}

// GetDocumentWithChunks はドキュメントをチャンク込み（Index昇順）で取得します
func (r *Repository) GetDocumentWithChunks(ctx context.Context, id uuid.UUID) (mo.Option[*ingestion.Document], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return mo.None[*ingestion.Document](), nil
	}

	copied := *doc
	copied.Chunks = append([]ingestion.Chunk(nil), doc.Chunks...)
	return mo.Some(&copied), nil
}

// ListRecentDocuments は作成日時の降順でドキュメント概要を最大limit件返します
func (r *Repository) ListRecentDocuments(ctx context.Context, limit int) ([]*ingestion.DocumentSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]*ingestion.DocumentSummary, 0, len(r.docs))
	for _, doc := range r.docs {
		summaries = append(summaries, &ingestion.DocumentSummary{
			ID:         doc.ID,
			Filename:   doc.Filename,
			CharCount:  len([]rune(doc.Text)),
			ChunkCount: len(doc.Chunks),
			CreatedAt:  doc.CreatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}
