package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jinford/docmind/internal/platform/container"
)

// Server はドキュメントQAのHTTPサーバです
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// Config はHTTPサーバ設定
type Config struct {
	Addr           string
	MaxUploadBytes int64
	CORSOrigin     string
}

// NewServer は新しい Server を作成します
func NewServer(cfg Config, services *container.ServiceContainer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	handler := NewHandler(services, cfg.MaxUploadBytes, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", handler.Ping)
	mux.HandleFunc("POST /upload", handler.Upload)
	mux.HandleFunc("GET /docs", handler.ListDocuments)
	mux.HandleFunc("GET /docs/{docId}/chunks", handler.GetChunks)
	mux.HandleFunc("POST /docs/{docId}/search", handler.Search)
	mux.HandleFunc("POST /docs/{docId}/ask", handler.Ask)

	var root http.Handler = mux
	if cfg.CORSOrigin != "" {
		root = corsMiddleware(cfg.CORSOrigin, root)
	}
	root = loggingMiddleware(logger, root)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           root,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// ListenAndServe はサーバを起動し、ctxのキャンセルでグレースフルに停止します
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTPサーバを起動", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("HTTPサーバを停止")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
