package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/jinford/docmind/internal/core/ingestion"
)

// UploadAction はファイルを取り込むコマンドのアクション
func UploadAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("取り込むファイルを指定してください")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ファイルの読み込みに失敗: %w", err)
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	result, err := appCtx.Container.IngestService.Ingest(ctx, ingestion.IngestParams{
		Filename: filepath.Base(path),
		Data:     data,
	})
	if err != nil {
		return fmt.Errorf("取り込みに失敗: %w", err)
	}

	fmt.Printf("docId: %s\n", result.DocumentID)
	fmt.Printf("filename: %s\n", result.Filename)
	fmt.Printf("charCount: %d\n", result.CharCount)
	fmt.Printf("chunkCount: %d\n", result.ChunkCount)
	return nil
}
