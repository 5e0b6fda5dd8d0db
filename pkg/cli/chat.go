package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/curriculo/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func chatCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, avatarFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Ask recruiter questions interactively, one independent answer per line",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, logger, err := cfg.withLogger(ctx)
			if err != nil {
				return err
			}
			w := c.Root().Writer

			uc, err := cfg.newUseCase(ctx, requirement{llm: true, avatar: true})
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt: "Digite sua pergunta: ",
				Stdout: w,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to initialize readline")
			}
			defer rl.Close()

			fmt.Fprintf(w, "Chat session started. Type 'exit' to quit.\n")

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read question")
				}

				question := strings.TrimSpace(line)
				if question == "exit" {
					break
				}
				if question == "" {
					continue
				}

				answer, err := withSpinner(func() (string, error) {
					return uc.Ask(ctx, question)
				})
				if err != nil {
					if !goerr.HasTag(err, model.ErrTagGeneration) && !goerr.HasTag(err, model.ErrTagFetch) {
						return goerr.Wrap(err, "failed to answer question")
					}
					logger.Error("failed to answer question", "error", err)
					fmt.Fprintf(w, "Não foi possível gerar uma resposta agora. Tente novamente.\n\n")
					continue
				}

				fmt.Fprintf(w, "%s\n\n", answer)
			}

			fmt.Fprintf(w, "\nChat session completed\n")
			return nil
		},
	}
}
