package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/curriculo/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const version = "0.1.0"

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	loadDotEnv(logging.Default(), ".env")

	cmd := &cli.Command{
		Name:    "curriculo",
		Usage:   "Answer recruiter questions grounded in a résumé spreadsheet",
		Version: version,
		Commands: []*cli.Command{
			askCommand(),
			chatCommand(),
			showCommand(),
			serveCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.Default().Error("command failed", "error", err)
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}

// loadDotEnv sets variables from the given env files without overriding the
// real environment. Missing files are skipped; unreadable or malformed ones
// are logged and skipped.
func loadDotEnv(logger *slog.Logger, filenames ...string) {
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			logger.Warn("failed to load env file", "path", name, "error", err)
		}
	}
}
