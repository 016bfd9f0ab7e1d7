package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	appcli "github.com/jinford/docmind/internal/interface/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	app := &cli.Command{
		Name:  "docmind",
		Usage: "ドキュメントQAバックエンド（PDF/TXT取り込み・ベクトル検索・質問応答）",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "HTTPサーバを起動",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:  "addr",
						Usage: "リッスンアドレス（省略時は環境変数またはデフォルトの :8080）",
					},
				},
				Action: appcli.ServeAction,
			},
			{
				Name:      "upload",
				Usage:     "ファイルを取り込む",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
				},
				Action: appcli.UploadAction,
			},
			{
				Name:      "search",
				Usage:     "ドキュメント内を検索",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:     "doc",
						Usage:    "ドキュメントID",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "取得するチャンク数（1〜10）",
						Value: 5,
					},
				},
				Action: appcli.SearchAction,
			},
			{
				Name:      "ask",
				Usage:     "ドキュメントに質問する",
				ArgsUsage: "<question>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:     "doc",
						Usage:    "ドキュメントID",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "回答根拠に使うチャンク数（1〜10）",
						Value: 5,
					},
				},
				Action: appcli.AskAction,
			},
			{
				Name:  "docs",
				Usage: "ドキュメント管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "取り込み済みドキュメント一覧を表示",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.IntFlag{
								Name:  "limit",
								Usage: "表示件数",
								Value: 25,
							},
						},
						Action: appcli.DocsListAction,
					},
					{
						Name:      "chunks",
						Usage:     "ドキュメントのチャンクを表示",
						ArgsUsage: "<doc-id>",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
						},
						Action: appcli.DocsChunksAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
