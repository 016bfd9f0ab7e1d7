package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/jinford/docmind/internal/core/ask"
)

// DocsListAction は取り込み済みドキュメントの一覧コマンドのアクション
func DocsListAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	docs, err := appCtx.Container.IngestService.ListDocuments(ctx, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("ドキュメント一覧の取得に失敗: %w", err)
	}

	if len(docs) == 0 {
		fmt.Println("ドキュメントはまだ取り込まれていません")
		return nil
	}

	for _, doc := range docs {
		fmt.Printf("%s  %s  (%d文字, %dチャンク, %s)\n",
			doc.ID, doc.Filename, doc.CharCount, doc.ChunkCount,
			doc.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// DocsChunksAction はドキュメントのチャンク表示コマンドのアクション
func DocsChunksAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	docID, err := uuid.Parse(cmd.Args().First())
	if err != nil {
		return fmt.Errorf("不正なドキュメントID: %w", err)
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	doc, err := appCtx.Container.IngestService.GetDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("ドキュメントの取得に失敗: %w", err)
	}

	fmt.Printf("%s (%dチャンク)\n", doc.Filename, len(doc.Chunks))
	for _, chunk := range doc.Chunks {
		fmt.Printf("[%d] %s\n", chunk.Index, ask.Preview(chunk.Text))
	}
	return nil
}
