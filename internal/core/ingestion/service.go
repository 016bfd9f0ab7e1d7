package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit はドキュメント一覧のデフォルト取得件数
const DefaultListLimit = 25

// IngestService はファイルの取り込みからチャンク保存までを実行するサービス
type IngestService struct {
	repository Repository
	embedder   Embedder
	extractor  Extractor
	chunker    *Chunker
	logger     *slog.Logger
}

type ingestServiceOptions struct {
	chunker *Chunker
	logger  *slog.Logger
}

// IngestServiceOption は IngestService のオプション設定
type IngestServiceOption func(*ingestServiceOptions)

// WithIngestLogger は IngestService にロガーを設定する
func WithIngestLogger(logger *slog.Logger) IngestServiceOption {
	return func(o *ingestServiceOptions) {
		o.logger = logger
	}
}

// WithIngestChunker はチャンカーを差し替える
func WithIngestChunker(chunker *Chunker) IngestServiceOption {
	return func(o *ingestServiceOptions) {
		o.chunker = chunker
	}
}

// NewIngestService は新しいIngestServiceを作成する
func NewIngestService(
	repo Repository,
	embedder Embedder,
	extractor Extractor,
	opts ...IngestServiceOption,
) (*IngestService, error) {
	options := ingestServiceOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.chunker == nil {
		chunker, err := NewChunker(DefaultChunkSize, DefaultChunkOverlap)
		if err != nil {
			return nil, fmt.Errorf("チャンカーの作成に失敗: %w", err)
		}
		options.chunker = chunker
	}

	return &IngestService{
		repository: repo,
		embedder:   embedder,
		extractor:  extractor,
		chunker:    options.chunker,
		logger:     options.logger,
	}, nil
}

// Ingest はファイルを取り込み、チャンク化と埋め込み生成を経て保存する
// すべてのチャンクの埋め込みが揃うまで何も永続化しない
func (s *IngestService) Ingest(ctx context.Context, params IngestParams) (*IngestResult, error) {
	startTime := time.Now()

	s.logger.Info("取り込みを開始",
		"filename", params.Filename,
		"contentType", params.ContentType,
		"size", len(params.Data),
	)

	text, err := s.extractor.Extract(ctx, params.Filename, params.ContentType, params.Data)
	if err != nil {
		return nil, fmt.Errorf("テキストの抽出に失敗: %w", err)
	}

	pieces := s.chunker.Split(text)
	if len(pieces) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoExtractableText, params.Filename)
	}

	embeddings, err := s.embedAll(ctx, pieces)
	if err != nil {
		return nil, fmt.Errorf("埋め込みの生成に失敗: %w", err)
	}

	doc := &Document{
		ID:        uuid.New(),
		Filename:  params.Filename,
		Text:      text,
		CreatedAt: time.Now().UTC(),
		Chunks:    make([]Chunk, len(pieces)),
	}
	for i, piece := range pieces {
		doc.Chunks[i] = Chunk{
			DocumentID: doc.ID,
			Index:      i,
			Text:       piece,
			Embedding:  embeddings[i],
		}
	}

	if err := s.repository.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("ドキュメントの保存に失敗: %w", err)
	}

	s.logger.Info("取り込みが完了",
		"docID", doc.ID,
		"chunks", len(doc.Chunks),
		"duration", time.Since(startTime),
	)

	return &IngestResult{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		CharCount:  len([]rune(text)),
		ChunkCount: len(doc.Chunks),
	}, nil
}

// embedAll は全チャンクの埋め込みをバッチ単位で生成する
// 結果は入力順のまま返し、次元や件数の不整合はエラーとする
func (s *IngestService) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	batchSize := s.embedder.MaxBatchSize()
	if batchSize <= 0 {
		batchSize = len(texts)
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := s.embedder.BatchEmbed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrEmbeddingCountMismatch, len(batch), end-start)
		}
		embeddings = append(embeddings, batch...)
	}

	dim := s.embedder.Dimension()
	for i, v := range embeddings {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: chunk %d has dimension %d, want %d", ErrEmbeddingDimensionMismatch, i, len(v), dim)
		}
	}

	return embeddings, nil
}

// ListDocuments は作成日時の降順でドキュメント概要を返す
// limitが0以下の場合はデフォルト件数を使用する
func (s *IngestService) ListDocuments(ctx context.Context, limit int) ([]*DocumentSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	summaries, err := s.repository.ListRecentDocuments(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("ドキュメント一覧の取得に失敗: %w", err)
	}
	return summaries, nil
}

// GetDocument はドキュメントをチャンク込みで取得する
// 存在しない場合は ErrDocumentNotFound を返す
func (s *IngestService) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	docOpt, err := s.repository.GetDocumentWithChunks(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ドキュメントの取得に失敗: %w", err)
	}
	doc, ok := docOpt.Get()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	return doc, nil
}

// GetDocumentChunks はドキュメントのチャンクをIndexの昇順で最大limit件返す
func (s *IngestService) GetDocumentChunks(ctx context.Context, id uuid.UUID, limit int) ([]Chunk, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	chunks := doc.Chunks
	if limit > 0 && len(chunks) > limit {
		chunks = chunks[:limit]
	}
	return chunks, nil
}
