package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/docmind/internal/platform/container"
	"github.com/jinford/docmind/pkg/config"
)

// fakeEmbedder は文字数に基づく決定的なベクトルを返します
type fakeEmbedder struct{}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *fakeEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = []float32{float32(len(text)), 1, 0, 1}
	}
	return vectors, nil
}

func (e *fakeEmbedder) Dimension() int    { return 4 }
func (e *fakeEmbedder) MaxBatchSize() int { return 100 }

type fakeGenerator struct{}

func (g *fakeGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return "Answer based on [Chunk 0].", nil
}

func newTestMux(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Store:    "memory",
		Chunking: config.ChunkingConfig{MaxChars: 1200, Overlap: 150},
		Ask:      config.AskConfig{ContextTokenLimit: 6000},
		Server:   config.ServerConfig{MaxUploadBytes: DefaultMaxUploadBytes},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	services, err := container.New(context.Background(), cfg,
		container.WithContainerLogger(logger),
		container.WithContainerEmbedder(&fakeEmbedder{}),
		container.WithContainerGenerator(&fakeGenerator{}),
	)
	require.NoError(t, err)
	t.Cleanup(services.Close)

	handler := NewHandler(services, DefaultMaxUploadBytes, logger)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", handler.Ping)
	mux.HandleFunc("POST /upload", handler.Upload)
	mux.HandleFunc("GET /docs", handler.ListDocuments)
	mux.HandleFunc("GET /docs/{docId}/chunks", handler.GetChunks)
	mux.HandleFunc("POST /docs/{docId}/search", handler.Search)
	mux.HandleFunc("POST /docs/{docId}/ask", handler.Ask)
	return mux
}

func uploadFile(t *testing.T, mux http.Handler, filename, content string) string {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		DocID string `json:"docId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.DocID)
	return resp.DocID
}

func TestHandler_Ping(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "backend alive", rec.Body.String())
}

func TestHandler_UploadAndGetChunks(t *testing.T) {
	mux := newTestMux(t)

	docID := uploadFile(t, mux, "notes.txt", "hello world from docmind")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/"+docID+"/chunks", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		DocID      string `json:"docId"`
		Filename   string `json:"filename"`
		ChunkCount int    `json:"chunkCount"`
		Chunks     []struct {
			Index int    `json:"index"`
			Text  string `json:"text"`
		} `json:"chunks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, docID, resp.DocID)
	assert.Equal(t, "notes.txt", resp.Filename)
	assert.Equal(t, 1, resp.ChunkCount)
	require.Len(t, resp.Chunks, 1)
	assert.Equal(t, "hello world from docmind", resp.Chunks[0].Text)
}

func TestHandler_UploadRejectsNonMultipart(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("plain body"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UploadUnsupportedFileType(t *testing.T) {
	mux := newTestMux(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "image.bin")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x00, 0x01})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ListDocuments(t *testing.T) {
	mux := newTestMux(t)

	uploadFile(t, mux, "a.txt", "first document")
	uploadFile(t, mux, "b.txt", "second document")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Documents []struct {
			Filename   string `json:"filename"`
			ChunkCount int    `json:"chunkCount"`
		} `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Documents, 2)
}

func TestHandler_Search(t *testing.T) {
	mux := newTestMux(t)

	docID := uploadFile(t, mux, "notes.txt", "hello world from docmind")

	body := strings.NewReader(`{"query": "hello", "topK": 3}`)
	req := httptest.NewRequest(http.MethodPost, "/docs/"+docID+"/search", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Results []struct {
			ChunkIndex int     `json:"chunkIndex"`
			Text       string  `json:"text"`
			Score      float64 `json:"score"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 0, resp.Results[0].ChunkIndex)
}

func TestHandler_SearchUnknownDocument(t *testing.T) {
	mux := newTestMux(t)

	body := strings.NewReader(`{"query": "hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/docs/05c5e3bd-1f5a-4e4e-9d1a-6a2c3b4d5e6f/search", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_SearchInvalidDocID(t *testing.T) {
	mux := newTestMux(t)

	body := strings.NewReader(`{"query": "hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/docs/not-a-uuid/search", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_SearchRequiresQuery(t *testing.T) {
	mux := newTestMux(t)

	docID := uploadFile(t, mux, "notes.txt", "hello world")

	body := strings.NewReader(`{"topK": 3}`)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/docs/%s/search", docID), body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Ask(t *testing.T) {
	mux := newTestMux(t)

	docID := uploadFile(t, mux, "notes.txt", "hello world from docmind")

	body := strings.NewReader(`{"question": "what is this?"}`)
	req := httptest.NewRequest(http.MethodPost, "/docs/"+docID+"/ask", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Answer  string `json:"answer"`
		Sources []struct {
			ChunkIndex int     `json:"chunkIndex"`
			Score      float64 `json:"score"`
			Preview    string  `json:"preview"`
		} `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Answer based on [Chunk 0].", resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "hello world from docmind", resp.Sources[0].Preview)
}
