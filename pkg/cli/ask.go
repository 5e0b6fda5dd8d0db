package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const waitMessage = " Aguarde um momento por favor..."

func askCommand() *cli.Command {
	var (
		cfg      config
		question string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "question",
			Aliases:     []string{"q"},
			Usage:       "Recruiter question (remaining arguments are used when empty)",
			Destination: &question,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, avatarFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:      "ask",
		Usage:     "Answer a single recruiter question",
		ArgsUsage: "[question...]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, _, err := cfg.withLogger(ctx)
			if err != nil {
				return err
			}

			if question == "" {
				question = strings.Join(c.Args().Slice(), " ")
			}
			if strings.TrimSpace(question) == "" {
				return goerr.New("question is required")
			}

			uc, err := cfg.newUseCase(ctx, requirement{llm: true, avatar: true})
			if err != nil {
				return err
			}

			answer, err := withSpinner(func() (string, error) {
				return uc.Ask(ctx, question)
			})
			if err != nil {
				return goerr.Wrap(err, "failed to answer question")
			}

			fmt.Fprintln(c.Root().Writer, answer)
			return nil
		},
	}
}

// withSpinner shows a spinner on stderr while fn runs. The spinner disables
// itself when stderr is not a terminal.
func withSpinner(fn func() (string, error)) (string, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = waitMessage
	s.Start()
	defer s.Stop()

	return fn()
}
