package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jinford/docmind/internal/core/ask"
	"github.com/jinford/docmind/internal/core/ingestion"
	"github.com/jinford/docmind/internal/core/search"
	infraopenai "github.com/jinford/docmind/internal/infra/openai"
	"github.com/jinford/docmind/internal/platform/container"
)

const (
	// DefaultMaxUploadBytes はアップロードサイズ上限のデフォルト値（20MiB）
	DefaultMaxUploadBytes = 20 << 20
	// maxChunksPerResponse はチャンク一覧エンドポイントの最大返却件数
	maxChunksPerResponse = 50
)

// Handler はHTTPエンドポイントの実装です
type Handler struct {
	services       *container.ServiceContainer
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandler は新しい Handler を作成します
func NewHandler(services *container.ServiceContainer, maxUploadBytes int64, logger *slog.Logger) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		services:       services,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Ping は死活確認に応答します
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("backend alive"))
}

// Upload はmultipartで受け取ったファイルを取り込みます
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	result, err := h.services.IngestService.Ingest(r.Context(), ingestion.IngestParams{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "uploaded",
		"docId":      result.DocumentID,
		"filename":   result.Filename,
		"charCount":  result.CharCount,
		"chunkCount": result.ChunkCount,
	})
}

// ListDocuments は取り込み済みドキュメントの一覧を返します
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	summaries, err := h.services.IngestService.ListDocuments(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"documents": summaries,
	})
}

// GetChunks はドキュメントの先頭チャンクを返します
func (h *Handler) GetChunks(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.parseDocID(w, r)
	if !ok {
		return
	}

	doc, err := h.services.IngestService.GetDocument(r.Context(), docID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	chunks := doc.Chunks
	if len(chunks) > maxChunksPerResponse {
		chunks = chunks[:maxChunksPerResponse]
	}

	type chunkView struct {
		Index int    `json:"index"`
		Text  string `json:"text"`
	}
	views := make([]chunkView, 0, len(chunks))
	for _, chunk := range chunks {
		views = append(views, chunkView{Index: chunk.Index, Text: chunk.Text})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"docId":      doc.ID,
		"filename":   doc.Filename,
		"chunkCount": len(doc.Chunks),
		"chunks":     views,
	})
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}

// Search はドキュメント内のベクトル検索を実行します
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.parseDocID(w, r)
	if !ok {
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	results, err := h.services.SearchService.Search(r.Context(), search.SearchParams{
		DocumentID: docID,
		Query:      req.Query,
		TopK:       req.TopK,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

type askRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"topK"`
}

// Ask はドキュメントに基づく質問応答を実行します
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.parseDocID(w, r)
	if !ok {
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	result, err := h.services.AskService.Ask(r.Context(), ask.AskParams{
		DocumentID: docID,
		Question:   req.Question,
		TopK:       req.TopK,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) parseDocID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	docID, err := uuid.Parse(r.PathValue("docId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return uuid.Nil, false
	}
	return docID, true
}

// writeServiceError はコア層の型付きエラーをHTTPステータスに変換します
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ingestion.ErrDocumentNotFound):
		writeError(w, http.StatusNotFound, "unknown docId")
	case errors.Is(err, ingestion.ErrUnsupportedFileType):
		writeError(w, http.StatusBadRequest, "unsupported file type")
	case errors.Is(err, ingestion.ErrNoExtractableText):
		writeError(w, http.StatusBadRequest, "no extractable text found")
	case errors.Is(err, ingestion.ErrInvalidChunkParams):
		writeError(w, http.StatusBadRequest, "invalid chunk parameters")
	case errors.Is(err, infraopenai.ErrEmptyCompletion),
		errors.Is(err, infraopenai.ErrEmptyEmbedding),
		errors.Is(err, infraopenai.ErrMaxRetriesExceeded),
		errors.Is(err, ingestion.ErrEmbeddingCountMismatch),
		errors.Is(err, ingestion.ErrEmbeddingDimensionMismatch):
		h.logger.Error("provider error", "error", err)
		writeError(w, http.StatusBadGateway, "upstream provider error")
	default:
		h.logger.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
