package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/docmind/internal/core/ingestion"
)

func storedDocument(filename string, createdAt time.Time, chunkCount int) *ingestion.Document {
	doc := &ingestion.Document{
		ID:        uuid.New(),
		Filename:  filename,
		Text:      "some text",
		CreatedAt: createdAt,
	}
	for i := 0; i < chunkCount; i++ {
		doc.Chunks = append(doc.Chunks, ingestion.Chunk{
			DocumentID: doc.ID,
			Index:      i,
			Text:       "chunk",
			Embedding:  []float32{1, 0},
		})
	}
	return doc
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	doc := storedDocument("a.txt", time.Now().UTC(), 3)
	require.NoError(t, repo.SaveDocument(ctx, doc))

	got, err := repo.GetDocumentWithChunks(ctx, doc.ID)
	require.NoError(t, err)
	require.True(t, got.IsPresent())

	stored := got.MustGet()
	assert.Equal(t, doc.ID, stored.ID)
	assert.Equal(t, "a.txt", stored.Filename)
	require.Len(t, stored.Chunks, 3)
	for i, chunk := range stored.Chunks {
		assert.Equal(t, i, chunk.Index)
	}
}

func TestRepository_GetMissing(t *testing.T) {
	repo := NewRepository()

	got, err := repo.GetDocumentWithChunks(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, got.IsAbsent())
}

func TestRepository_GetReturnsCopy(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	doc := storedDocument("a.txt", time.Now().UTC(), 1)
	require.NoError(t, repo.SaveDocument(ctx, doc))

	first, err := repo.GetDocumentWithChunks(ctx, doc.ID)
	require.NoError(t, err)
	first.MustGet().Chunks[0].Text = "mutated"

	second, err := repo.GetDocumentWithChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "chunk", second.MustGet().Chunks[0].Text)
}

func TestRepository_ListRecentDocuments(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	base := time.Now().UTC()
	oldest := storedDocument("oldest.txt", base.Add(-2*time.Hour), 1)
	middle := storedDocument("middle.txt", base.Add(-1*time.Hour), 2)
	newest := storedDocument("newest.txt", base, 3)

	for _, doc := range []*ingestion.Document{oldest, middle, newest} {
		require.NoError(t, repo.SaveDocument(ctx, doc))
	}

	summaries, err := repo.ListRecentDocuments(ctx, 2)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "newest.txt", summaries[0].Filename)
	assert.Equal(t, "middle.txt", summaries[1].Filename)
	assert.Equal(t, 3, summaries[0].ChunkCount)
}
