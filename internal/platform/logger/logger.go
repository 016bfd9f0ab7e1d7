package logger

import (
	"io"
	"log/slog"
	"os"
)

// Config はロガーの設定
type Config struct {
	Level  slog.Level
	Format string // "json" or "text"
	Output io.Writer
}

// DefaultConfig はデフォルトのロガー設定
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelInfo,
		Format: "json",
		Output: os.Stdout,
	}
}

// New は新しいロガーを作成し、デフォルトロガーとして設定します
func New(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(cfg.Output, opts)
	default: // "json"
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
