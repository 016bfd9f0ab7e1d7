package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/jinford/docmind/internal/interface/api"
)

// ServeAction はHTTPサーバを起動するコマンドのアクション
func ServeAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	serverCfg := api.Config{
		Addr:           appCtx.Config.Server.Addr,
		MaxUploadBytes: appCtx.Config.Server.MaxUploadBytes,
		CORSOrigin:     appCtx.Config.Server.CORSOrigin,
	}
	if addr := cmd.String("addr"); addr != "" {
		serverCfg.Addr = addr
	}

	server := api.NewServer(serverCfg, appCtx.Container, appCtx.Logger())
	return server.ListenAndServe(ctx)
}
