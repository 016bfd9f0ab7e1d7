package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/docmind/internal/platform/container"
	"github.com/jinford/docmind/internal/platform/logger"
	"github.com/jinford/docmind/pkg/config"
)

// AppContext はコマンド実行に必要な共通コンテキストを保持する
type AppContext struct {
	Config    *config.Config
	Container *container.ServiceContainer
}

// NewAppContext は設定を読み込み、サービスを初期化して AppContext を作成する
func NewAppContext(ctx context.Context, envFile string) (*AppContext, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	appLogger := logger.New(logger.DefaultConfig())

	cont, err := container.New(ctx, cfg, container.WithContainerLogger(appLogger))
	if err != nil {
		return nil, fmt.Errorf("コンテナの初期化に失敗: %w", err)
	}

	return &AppContext{
		Config:    cfg,
		Container: cont,
	}, nil
}

// Close はAppContextが保持するリソースをクリーンアップする
func (ac *AppContext) Close() {
	if ac.Container != nil {
		ac.Container.Close()
	}
}

// Logger はAppContextのロガーを返す
func (ac *AppContext) Logger() *slog.Logger {
	if ac.Container != nil {
		return ac.Container.Logger()
	}
	return slog.Default()
}
