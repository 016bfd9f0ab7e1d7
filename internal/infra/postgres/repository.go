package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/samber/mo"

	"github.com/jinford/docmind/internal/core/ingestion"
	"github.com/jinford/docmind/internal/core/search"
)

// Repository は PostgreSQL + pgvector によるドキュメントストア実装です
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository は新しい Repository を作成します
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// コンパイル時の型チェック
var (
	_ ingestion.Repository = (*Repository)(nil)
	_ search.Repository    = (*Repository)(nil)
)

// EnsureSchema は拡張とテーブルを作成します
// 埋め込みの次元はチャンク保存時の値をそのまま使うため固定しません
func (r *Repository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			filename TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS chunks (
			id BIGSERIAL PRIMARY KEY,
			document_id UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			chunk_index INT NOT NULL,
			content TEXT NOT NULL,
			embedding VECTOR,
			UNIQUE (document_id, chunk_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// SaveDocument はドキュメントと全チャンクを単一トランザクションで保存します
func (r *Repository) SaveDocument(ctx context.Context, doc *ingestion.Document) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO documents (id, filename, content, created_at) VALUES ($1, $2, $3, $4)`,
		doc.ID, doc.Filename, doc.Text, doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	for _, chunk := range doc.Chunks {
		_, err = tx.Exec(ctx,
			`INSERT INTO chunks (document_id, chunk_index, content, embedding) VALUES ($1, $2, $3, $4)`,
			doc.ID, chunk.Index, chunk.Text, pgvector.NewVector(chunk.Embedding),
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunk.Index, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetDocumentWithChunks はドキュメントをチャンク込み（chunk_index昇順）で取得します
func (r *Repository) GetDocumentWithChunks(ctx context.Context, id uuid.UUID) (mo.Option[*ingestion.Document], error) {
	doc := &ingestion.Document{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, filename, content, created_at FROM documents WHERE id = $1`,
		id,
	).Scan(&doc.ID, &doc.Filename, &doc.Text, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[*ingestion.Document](), nil
		}
		return mo.None[*ingestion.Document](), fmt.Errorf("failed to get document: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT chunk_index, content, embedding FROM chunks WHERE document_id = $1 ORDER BY chunk_index`,
		id,
	)
	if err != nil {
		return mo.None[*ingestion.Document](), fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var chunk ingestion.Chunk
		var embedding pgvector.Vector
		if err := rows.Scan(&chunk.Index, &chunk.Text, &embedding); err != nil {
			return mo.None[*ingestion.Document](), fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunk.DocumentID = doc.ID
		chunk.Embedding = embedding.Slice()
		doc.Chunks = append(doc.Chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return mo.None[*ingestion.Document](), fmt.Errorf("failed to iterate chunks: %w", err)
	}

	return mo.Some(doc), nil
}

// ListRecentDocuments は作成日時の降順でドキュメント概要を最大limit件返します
func (r *Repository) ListRecentDocuments(ctx context.Context, limit int) ([]*ingestion.DocumentSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT d.id, d.filename, length(d.content), count(c.id), d.created_at
		 FROM documents d
		 LEFT JOIN chunks c ON c.document_id = d.id
		 GROUP BY d.id
		 ORDER BY d.created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	summaries := make([]*ingestion.DocumentSummary, 0)
	for rows.Next() {
		var s ingestion.DocumentSummary
		if err := rows.Scan(&s.ID, &s.Filename, &s.CharCount, &s.ChunkCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document summary: %w", err)
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return summaries, nil
}
