package cli

import (
	"context"

	"github.com/m-mizutani/curriculo/pkg/service/mcp"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the résumé as MCP tools over stdio",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, logger, err := cfg.withLogger(ctx)
			if err != nil {
				return err
			}

			uc, err := cfg.newUseCase(ctx, requirement{llm: true})
			if err != nil {
				return err
			}

			logger.Info("serving MCP over stdio", "version", version)
			return mcp.Serve(ctx, mcp.NewServer(uc, version))
		},
	}
}
