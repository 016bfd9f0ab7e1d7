package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/jinford/docmind/internal/core/ask"
	"github.com/jinford/docmind/internal/core/search"
)

// SearchAction はドキュメント内検索コマンドのアクション
func SearchAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	docID, err := uuid.Parse(cmd.String("doc"))
	if err != nil {
		return fmt.Errorf("不正なドキュメントID: %w", err)
	}

	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("検索クエリを指定してください")
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	results, err := appCtx.Container.SearchService.Search(ctx, search.SearchParams{
		DocumentID: docID,
		Query:      query,
		TopK:       cmd.Int("top-k"),
	})
	if err != nil {
		return fmt.Errorf("検索に失敗: %w", err)
	}

	for rank, result := range results {
		fmt.Printf("[%d] chunk %d (スコア: %.4f)\n", rank+1, result.Index, result.Score)
		fmt.Printf("    %s\n", ask.Preview(result.Text))
	}
	return nil
}
