package ask

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/docmind/internal/core/search"
)

// Generator はLLMによる回答生成インターフェース
type Generator interface {
	// Generate はシステムプロンプトとユーザープロンプトから回答を生成する
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// AskService は質問応答のビジネスロジックを提供する
type AskService struct {
	searchService *search.SearchService
	generator     Generator
	prompts       *PromptBuilder
	logger        *slog.Logger
}

type AskServiceOption func(*AskService)

// WithAskLogger は AskService にロガーを設定する
func WithAskLogger(logger *slog.Logger) AskServiceOption {
	return func(s *AskService) {
		s.logger = logger
	}
}

// WithAskPromptBuilder はプロンプトビルダーを差し替える
func WithAskPromptBuilder(prompts *PromptBuilder) AskServiceOption {
	return func(s *AskService) {
		s.prompts = prompts
	}
}

// NewAskService は新しいAskServiceを作成する
func NewAskService(
	searchService *search.SearchService,
	generator Generator,
	opts ...AskServiceOption,
) (*AskService, error) {
	svc := &AskService{
		searchService: searchService,
		generator:     generator,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.prompts == nil {
		prompts, err := NewPromptBuilder(DefaultContextTokenLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to create prompt builder: %w", err)
		}
		svc.prompts = prompts
	}

	return svc, nil
}

// Ask は質問に対してドキュメントに基づいた回答を生成する
func (s *AskService) Ask(ctx context.Context, params AskParams) (*AskResult, error) {
	if params.Question == "" {
		return nil, fmt.Errorf("question is required")
	}

	scored, err := s.searchService.Search(ctx, search.SearchParams{
		DocumentID: params.DocumentID,
		Query:      params.Question,
		TopK:       params.TopK,
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	s.logger.Info("retrieved context chunks",
		"docID", params.DocumentID,
		"chunks", len(scored),
	)

	contextBlock := s.prompts.BuildContext(scored)
	userPrompt := s.prompts.BuildUserPrompt(params.Question, contextBlock)

	answer, err := s.generator.Generate(ctx, SystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	sources := make([]SourceReference, 0, len(scored))
	for _, chunk := range scored {
		sources = append(sources, SourceReference{
			ChunkIndex: chunk.Index,
			Score:      chunk.Score,
			Preview:    Preview(chunk.Text),
		})
	}

	s.logger.Info("ask completed",
		"answerLength", len(answer),
		"sources", len(sources),
	)

	return &AskResult{
		Answer:  answer,
		Sources: sources,
	}, nil
}
