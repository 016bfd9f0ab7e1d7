package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/jinford/docmind/internal/core/ask"
)

const (
	// DefaultModel はデフォルトで使用するOpenAIモデル
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout はAPI呼び出しのデフォルトタイムアウト
	DefaultTimeout = 60 * time.Second

	// MaxRetries はレート制限エラー時の最大リトライ回数
	MaxRetries = 3

	// BaseBackoff はExponential Backoffの基底時間
	BaseBackoff = 2 * time.Second

	// MaxBackoff はExponential Backoffの最大待機時間
	MaxBackoff = 32 * time.Second
)

var (
	// ErrAPIKeyNotSet はAPIキーが設定されていない場合のエラー
	ErrAPIKeyNotSet = errors.New("OpenAI API key not set: please set OPENAI_API_KEY environment variable")

	// ErrEmptyCompletion はAPIが空の回答を返した場合のエラー
	ErrEmptyCompletion = errors.New("openai: empty completion returned")

	// ErrMaxRetriesExceeded は最大リトライ回数を超過した場合のエラー
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// Client は OpenAI Chat Completions API を使用した回答生成クライアント
type Client struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

type clientOptions struct {
	model   string
	timeout time.Duration
}

// ClientOption は Client のオプション設定
type ClientOption func(*clientOptions)

// WithModel はモデル名を上書きする
func WithModel(model string) ClientOption {
	return func(o *clientOptions) {
		o.model = model
	}
}

// WithTimeout はAPIコールのタイムアウトを上書きする
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// NewClient は新しい Client を作成する
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	options := clientOptions{
		model:   DefaultModel,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Client{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   options.model,
		timeout: options.timeout,
	}, nil
}

// ModelName はモデル名を返す
func (c *Client) ModelName() string {
	return c.model
}

// Generate は OpenAI API を使用して回答を生成する
// レート制限エラー時はExponential Backoffでリトライする
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var lastErr error

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			backoffDuration := time.Duration(math.Pow(2, float64(attempt-1))) * BaseBackoff
			if backoffDuration > MaxBackoff {
				backoffDuration = MaxBackoff
			}

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoffDuration):
			}
		}

		params := openai.ChatCompletionNewParams{
			Model: shared.ChatModel(c.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(systemPrompt),
				openai.UserMessage(userPrompt),
			},
		}

		completion, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			lastErr = err

			if isRateLimitError(err) {
				continue
			}

			return "", fmt.Errorf("OpenAI API call failed: %w", err)
		}

		if len(completion.Choices) == 0 {
			return "", fmt.Errorf("%w: no completion choices", ErrEmptyCompletion)
		}

		content := strings.TrimSpace(completion.Choices[0].Message.Content)
		if content == "" {
			return "", ErrEmptyCompletion
		}

		return content, nil
	}

	return "", fmt.Errorf("%w: %v", ErrMaxRetriesExceeded, lastErr)
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}

	return false
}

// インターフェース実装の確認
var _ ask.Generator = (*Client)(nil)
