package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func showCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "show",
		Usage: "Print the résumé text used to ground answers",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, _, err := cfg.withLogger(ctx)
			if err != nil {
				return err
			}

			uc, err := cfg.newUseCase(ctx, requirement{})
			if err != nil {
				return err
			}

			grounding, err := uc.Context(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to load résumé")
			}

			if grounding == "" {
				fmt.Fprintf(c.Root().Writer, "No résumé records found\n")
				return nil
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", grounding)
			return nil
		},
	}
}
