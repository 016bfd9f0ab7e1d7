package container

import (
	"context"
	"fmt"
	"log/slog"

	coreask "github.com/jinford/docmind/internal/core/ask"
	coreingestion "github.com/jinford/docmind/internal/core/ingestion"
	coresearch "github.com/jinford/docmind/internal/core/search"
	"github.com/jinford/docmind/internal/infra/extract"
	"github.com/jinford/docmind/internal/infra/memory"
	"github.com/jinford/docmind/internal/infra/openai"
	"github.com/jinford/docmind/internal/infra/postgres"
	"github.com/jinford/docmind/pkg/config"
	"github.com/jinford/docmind/pkg/db"
)

// ServiceContainer はアプリケーション全体の依存関係を保持する
type ServiceContainer struct {
	IngestService *coreingestion.IngestService
	SearchService *coresearch.SearchService
	AskService    *coreask.AskService

	logger   *slog.Logger
	database *db.DB
}

type containerOptions struct {
	logger    *slog.Logger
	embedder  coreingestion.Embedder
	generator coreask.Generator
	extractor coreingestion.Extractor
}

// ContainerOption は ServiceContainer 構築時のオプション
type ContainerOption func(*containerOptions)

// WithContainerLogger はロガーを差し替える
func WithContainerLogger(logger *slog.Logger) ContainerOption {
	return func(opts *containerOptions) {
		opts.logger = logger
	}
}

// WithContainerEmbedder はカスタム Embedder を注入する
func WithContainerEmbedder(embedder coreingestion.Embedder) ContainerOption {
	return func(opts *containerOptions) {
		opts.embedder = embedder
	}
}

// WithContainerGenerator はカスタム Generator を注入する
func WithContainerGenerator(generator coreask.Generator) ContainerOption {
	return func(opts *containerOptions) {
		opts.generator = generator
	}
}

// WithContainerExtractor はカスタム Extractor を注入する
func WithContainerExtractor(extractor coreingestion.Extractor) ContainerOption {
	return func(opts *containerOptions) {
		opts.extractor = extractor
	}
}

// New は設定に基づいて全サービスを構築する
// Store が "memory" の場合はデータベースに接続しない
func New(ctx context.Context, cfg *config.Config, opts ...ContainerOption) (*ServiceContainer, error) {
	options := containerOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	c := &ServiceContainer{logger: options.logger}

	// リポジトリの構築
	var (
		ingestRepo coreingestion.Repository
		searchRepo coresearch.Repository
	)
	switch cfg.Store {
	case "memory":
		repo := memory.NewRepository()
		ingestRepo = repo
		searchRepo = repo
	default:
		database, err := db.New(ctx, db.ConnectionParams{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			return nil, fmt.Errorf("データベース接続に失敗: %w", err)
		}
		c.database = database

		repo := postgres.NewRepository(database.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("スキーマの作成に失敗: %w", err)
		}
		ingestRepo = repo
		searchRepo = repo
	}

	// 外部プロバイダーの構築
	embedder := options.embedder
	if embedder == nil {
		embedder = openai.NewEmbedder(cfg.OpenAI.APIKey,
			openai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
			openai.WithEmbeddingDimension(cfg.OpenAI.EmbeddingDimension),
		)
	}

	generator := options.generator
	if generator == nil {
		client, err := openai.NewClient(cfg.OpenAI.APIKey, openai.WithModel(cfg.OpenAI.ChatModel))
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("OpenAIクライアントの作成に失敗: %w", err)
		}
		generator = client
	}

	extractor := options.extractor
	if extractor == nil {
		extractor = extract.NewExtractor()
	}

	// コアサービスの構築
	chunker, err := coreingestion.NewChunker(cfg.Chunking.MaxChars, cfg.Chunking.Overlap)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("チャンカーの作成に失敗: %w", err)
	}

	ingestService, err := coreingestion.NewIngestService(
		ingestRepo,
		embedder,
		extractor,
		coreingestion.WithIngestChunker(chunker),
		coreingestion.WithIngestLogger(options.logger),
	)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("IngestServiceの作成に失敗: %w", err)
	}
	c.IngestService = ingestService

	c.SearchService = coresearch.NewSearchService(searchRepo, embedder)

	prompts, err := coreask.NewPromptBuilder(cfg.Ask.ContextTokenLimit)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("PromptBuilderの作成に失敗: %w", err)
	}

	askService, err := coreask.NewAskService(
		c.SearchService,
		generator,
		coreask.WithAskPromptBuilder(prompts),
		coreask.WithAskLogger(options.logger),
	)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("AskServiceの作成に失敗: %w", err)
	}
	c.AskService = askService

	return c, nil
}

// Logger はコンテナのロガーを返す
func (c *ServiceContainer) Logger() *slog.Logger {
	return c.logger
}

// Close は保持しているリソースを解放する
func (c *ServiceContainer) Close() {
	if c.database != nil {
		c.database.Close()
	}
}
