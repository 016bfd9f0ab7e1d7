package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/jinford/docmind/internal/core/ask"
)

// AskAction はドキュメントへの質問応答コマンドのアクション
func AskAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	docID, err := uuid.Parse(cmd.String("doc"))
	if err != nil {
		return fmt.Errorf("不正なドキュメントID: %w", err)
	}

	question := cmd.Args().First()
	if question == "" {
		return fmt.Errorf("質問を指定してください")
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	result, err := appCtx.Container.AskService.Ask(ctx, ask.AskParams{
		DocumentID: docID,
		Question:   question,
		TopK:       cmd.Int("top-k"),
	})
	if err != nil {
		return fmt.Errorf("質問応答に失敗: %w", err)
	}

	fmt.Println(result.Answer)
	if len(result.Sources) > 0 {
		fmt.Println()
		fmt.Println("参照チャンク:")
		for _, src := range result.Sources {
			fmt.Printf("  [Chunk %d] (スコア: %.4f) %s\n", src.ChunkIndex, src.Score, src.Preview)
		}
	}
	return nil
}
