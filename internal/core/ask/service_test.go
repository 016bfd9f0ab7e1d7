package ask

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/docmind/internal/core/ingestion"
	"github.com/jinford/docmind/internal/core/search"
)

type stubGenerator struct {
	answer     string
	err        error
	lastSystem string
	lastUser   string
}

func (g *stubGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.lastSystem = systemPrompt
	g.lastUser = userPrompt
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

type stubEmbedder struct{}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

type stubRepo struct {
	doc *ingestion.Document
}

func (r *stubRepo) GetDocumentWithChunks(ctx context.Context, id uuid.UUID) (mo.Option[*ingestion.Document], error) {
	if r.doc == nil || r.doc.ID != id {
		return mo.None[*ingestion.Document](), nil
	}
	return mo.Some(r.doc), nil
}

func newAskTestService(t *testing.T, doc *ingestion.Document, gen *stubGenerator) *AskService {
	t.Helper()
	searchSvc := search.NewSearchService(&stubRepo{doc: doc}, &stubEmbedder{})
	svc, err := NewAskService(searchSvc, gen)
	require.NoError(t, err)
	return svc
}

func askTestDocument() *ingestion.Document {
	doc := &ingestion.Document{ID: uuid.New(), Filename: "doc.txt"}
	doc.Chunks = []ingestion.Chunk{
		{DocumentID: doc.ID, Index: 0, Text: "the sky is blue", Embedding: []float32{0, 1}},
		{DocumentID: doc.ID, Index: 1, Text: "grass is green", Embedding: []float32{1, 0}},
		{DocumentID: doc.ID, Index: 2, Text: strings.Repeat("x", 300), Embedding: []float32{1, 1}},
	}
	return doc
}

func TestAskService_Ask(t *testing.T) {
	doc := askTestDocument()
	gen := &stubGenerator{answer: "Grass is green. [Chunk 1]"}
	svc := newAskTestService(t, doc, gen)

	result, err := svc.Ask(context.Background(), AskParams{
		DocumentID: doc.ID,
		Question:   "what color is grass?",
		TopK:       3,
	})
	require.NoError(t, err)

	assert.Equal(t, "Grass is green. [Chunk 1]", result.Answer)
	require.Len(t, result.Sources, 3)

	// 最も類似したチャンクが先頭に来る
	assert.Equal(t, 1, result.Sources[0].ChunkIndex)

	// 生成プロンプトには固定のシステム指示とコンテキストが含まれる
	assert.Equal(t, SystemPrompt, gen.lastSystem)
	assert.Contains(t, gen.lastUser, "Question: what color is grass?")
	assert.Contains(t, gen.lastUser, "[Chunk 1]\ngrass is green")
}

func TestAskService_Ask_PreviewTruncation(t *testing.T) {
	doc := askTestDocument()
	gen := &stubGenerator{answer: "answer"}
	svc := newAskTestService(t, doc, gen)

	result, err := svc.Ask(context.Background(), AskParams{
		DocumentID: doc.ID,
		Question:   "anything",
		TopK:       3,
	})
	require.NoError(t, err)

	for _, src := range result.Sources {
		if src.ChunkIndex == 2 {
			assert.Equal(t, strings.Repeat("x", 240)+"...", src.Preview)
		}
	}
}

func TestAskService_Ask_EmptyQuestion(t *testing.T) {
	svc := newAskTestService(t, askTestDocument(), &stubGenerator{answer: "a"})

	_, err := svc.Ask(context.Background(), AskParams{
		DocumentID: uuid.New(),
		Question:   "",
	})
	assert.Error(t, err)
}

func TestAskService_Ask_DocumentNotFound(t *testing.T) {
	svc := newAskTestService(t, askTestDocument(), &stubGenerator{answer: "a"})

	_, err := svc.Ask(context.Background(), AskParams{
		DocumentID: uuid.New(),
		Question:   "hello?",
	})
	assert.ErrorIs(t, err, ingestion.ErrDocumentNotFound)
}

func TestAskService_Ask_GeneratorFailure(t *testing.T) {
	doc := askTestDocument()
	svc := newAskTestService(t, doc, &stubGenerator{err: errors.New("llm unavailable")})

	_, err := svc.Ask(context.Background(), AskParams{
		DocumentID: doc.ID,
		Question:   "hello?",
	})
	assert.Error(t, err)
}
