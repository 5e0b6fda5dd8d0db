package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/curriculo/pkg/adapter"
	"github.com/m-mizutani/curriculo/pkg/model"
	"github.com/m-mizutani/curriculo/pkg/usecase/resume"
	"github.com/m-mizutani/curriculo/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	providerGemini = "gemini"
	providerClaude = "claude"
)

// config holds configuration values
type config struct {
	logLevel string

	// Résumé source
	spreadsheetID    string
	csvPath          string
	rng              string
	sectionField     string
	descriptionField string
	layoutPath       string
	strict           bool

	// Artifacts
	credentialPath string
	credentialURL  string
	avatarPath     string
	avatarURL      string

	// LLM
	llmProvider     string
	model           string
	geminiAPIKey    string
	geminiProject   string
	geminiLocation  string
	anthropicAPIKey string
}

// layout is the optional YAML file describing where the résumé lives in the
// spreadsheet and how it is rendered
type layout struct {
	Range            string `yaml:"range"`
	SectionField     string `yaml:"section_field"`
	DescriptionField string `yaml:"description_field"`
	Template         string `yaml:"template"`
}

// globalFlags returns flags for the résumé source and logging
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("CURRICULO_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "spreadsheet-id",
			Aliases:     []string{"s"},
			Usage:       "Google Sheets spreadsheet ID holding the résumé",
			Sources:     cli.EnvVars("SPREADSHEET_ID_CURRICULO"),
			Destination: &cfg.spreadsheetID,
		},
		&cli.StringFlag{
			Name:        "csv-path",
			Usage:       "Read the résumé from a local CSV file instead of Google Sheets",
			Sources:     cli.EnvVars("CURRICULO_CSV_PATH"),
			Destination: &cfg.csvPath,
		},
		&cli.StringFlag{
			Name:        "range",
			Usage:       "A1 range to read (default " + resume.DefaultRange + ")",
			Sources:     cli.EnvVars("CURRICULO_RANGE"),
			Destination: &cfg.rng,
		},
		&cli.StringFlag{
			Name:        "section-field",
			Usage:       "Column used as line label (default " + resume.DefaultSectionField + ")",
			Sources:     cli.EnvVars("CURRICULO_SECTION_FIELD"),
			Destination: &cfg.sectionField,
		},
		&cli.StringFlag{
			Name:        "description-field",
			Usage:       "Column used as line text (default " + resume.DefaultDescriptionField + ")",
			Sources:     cli.EnvVars("CURRICULO_DESCRIPTION_FIELD"),
			Destination: &cfg.descriptionField,
		},
		&cli.StringFlag{
			Name:        "layout",
			Usage:       "YAML file with range, field names and prompt template",
			Sources:     cli.EnvVars("CURRICULO_LAYOUT"),
			Destination: &cfg.layoutPath,
		},
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "Fail instead of answering without data when the spreadsheet cannot be read",
			Sources:     cli.EnvVars("CURRICULO_STRICT"),
			Destination: &cfg.strict,
		},
		&cli.StringFlag{
			Name:        "credential-path",
			Usage:       "Local path of the service-account key",
			Value:       "credentials.json",
			Sources:     cli.EnvVars("GOOGLE_CREDENTIAL_PATH"),
			Destination: &cfg.credentialPath,
		},
		&cli.StringFlag{
			Name:        "credential-url",
			Usage:       "Download URI of the service-account key (http, https or gs)",
			Sources:     cli.EnvVars("GOOGLE_CREDENTIAL_URL"),
			Destination: &cfg.credentialURL,
		},
	}
}

// avatarFlags returns flags for the profile picture shown next to answers
func avatarFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "avatar-url",
			Usage:       "Download URI of the profile picture",
			Sources:     cli.EnvVars("URL_PERFIL"),
			Destination: &cfg.avatarURL,
		},
		&cli.StringFlag{
			Name:        "avatar-path",
			Usage:       "Local path of the profile picture",
			Value:       "perfil.png",
			Sources:     cli.EnvVars("CURRICULO_AVATAR_PATH"),
			Destination: &cfg.avatarPath,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "Completion provider (gemini, claude)",
			Value:       providerGemini,
			Sources:     cli.EnvVars("CURRICULO_LLM_PROVIDER"),
			Destination: &cfg.llmProvider,
		},
		&cli.StringFlag{
			Name:        "model",
			Usage:       "Model identifier (provider default when empty)",
			Sources:     cli.EnvVars("CURRICULO_MODEL"),
			Destination: &cfg.model,
		},
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key",
			Sources:     cli.EnvVars("GEMINI_API_KEY"),
			Destination: &cfg.geminiAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini on Vertex AI",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini on Vertex AI",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key",
			Sources:     cli.EnvVars("ANTHROPIC_API_KEY"),
			Destination: &cfg.anthropicAPIKey,
		},
	}
}

// requirement selects which groups of settings a command needs
type requirement struct {
	llm    bool
	avatar bool
}

// validate reports every missing setting at once, before any network call
func (cfg *config) validate(req requirement) error {
	var missing []string

	// A local CSV table needs neither the spreadsheet nor its credential,
	// and the avatar becomes optional so the pipeline can run offline
	if cfg.csvPath == "" {
		if cfg.spreadsheetID == "" {
			missing = append(missing, "spreadsheet-id or csv-path")
		}
		if cfg.credentialPath == "" {
			missing = append(missing, "credential-path")
		}
		if cfg.credentialURL == "" {
			missing = append(missing, "credential-url")
		}
		if req.avatar && cfg.avatarURL == "" {
			missing = append(missing, "avatar-url")
		}
	}

	if req.llm {
		switch cfg.llmProvider {
		case providerGemini:
			if cfg.geminiAPIKey == "" && cfg.geminiProject == "" {
				missing = append(missing, "gemini-api-key or gemini-project")
			}
			if cfg.geminiAPIKey == "" && cfg.geminiProject != "" && cfg.geminiLocation == "" {
				missing = append(missing, "gemini-location")
			}
		case providerClaude:
			if cfg.anthropicAPIKey == "" {
				missing = append(missing, "anthropic-api-key")
			}
		default:
			return goerr.New("unsupported llm provider",
				goerr.V("provider", cfg.llmProvider),
				goerr.V("supported", []string{providerGemini, providerClaude}),
				goerr.T(model.ErrTagConfig))
		}
	}

	if len(missing) > 0 {
		return goerr.New("missing required configuration: "+strings.Join(missing, ", "),
			goerr.V("missing", missing),
			goerr.T(model.ErrTagConfig))
	}

	return nil
}

// withLogger installs the configured logger as default and into ctx
func (cfg *config) withLogger(ctx context.Context) (context.Context, *slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.logLevel)
	if err != nil {
		return ctx, logging.Default(), err
	}
	logger := logging.New(os.Stderr, level)
	logging.SetDefault(logger)
	return logging.With(ctx, logger), logger, nil
}

// loadLayout reads the YAML layout file. An empty path yields an empty layout.
func loadLayout(path string) (*layout, error) {
	if path == "" {
		return &layout{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read layout file",
			goerr.V("path", path),
			goerr.T(model.ErrTagConfig))
	}

	var l layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, goerr.Wrap(err, "failed to parse layout file",
			goerr.V("path", path),
			goerr.T(model.ErrTagConfig))
	}

	// Template paths are relative to the layout file
	if l.Template != "" && !filepath.IsAbs(l.Template) {
		l.Template = filepath.Join(filepath.Dir(path), l.Template)
	}

	return &l, nil
}

// useCaseOptions merges flags, the layout file and defaults, flags first
func (cfg *config) useCaseOptions() ([]resume.Option, error) {
	l, err := loadLayout(cfg.layoutPath)
	if err != nil {
		return nil, err
	}

	var opts []resume.Option

	if rng := firstNonEmpty(cfg.rng, l.Range); rng != "" {
		if err := resume.ValidateRange(rng); err != nil {
			return nil, goerr.Wrap(err, "invalid range setting", goerr.T(model.ErrTagConfig))
		}
		opts = append(opts, resume.WithRange(rng))
	}

	opts = append(opts, resume.WithFields(
		firstNonEmpty(cfg.sectionField, l.SectionField, resume.DefaultSectionField),
		firstNonEmpty(cfg.descriptionField, l.DescriptionField, resume.DefaultDescriptionField),
	))

	if l.Template != "" {
		raw, err := os.ReadFile(l.Template)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read prompt template",
				goerr.V("path", l.Template),
				goerr.T(model.ErrTagConfig))
		}
		tmpl, err := resume.ParseTemplate(string(raw))
		if err != nil {
			return nil, goerr.Wrap(err, "invalid prompt template", goerr.V("path", l.Template))
		}
		opts = append(opts, resume.WithTemplate(tmpl))
	}

	if cfg.strict {
		opts = append(opts, resume.WithFetchPolicy(resume.FetchPolicyStrict))
	}

	return opts, nil
}

// newDownloader creates a Downloader, with Cloud Storage only when a gs://
// URI is configured
func (cfg *config) newDownloader(ctx context.Context) (adapter.Downloader, error) {
	var opts []adapter.DownloaderOption

	if strings.HasPrefix(cfg.credentialURL, "gs://") || strings.HasPrefix(cfg.avatarURL, "gs://") {
		storage, err := adapter.NewStorage(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create storage")
		}
		opts = append(opts, adapter.WithStorage(storage))
	}

	return adapter.NewDownloader(opts...), nil
}

// newGenerator creates the completion model client for the configured provider
func (cfg *config) newGenerator(ctx context.Context) (resume.Generator, error) {
	switch cfg.llmProvider {
	case providerClaude:
		return adapter.NewClaude(cfg.anthropicAPIKey, adapter.WithClaudeModel(cfg.model)), nil

	case providerGemini:
		if cfg.geminiAPIKey != "" {
			return adapter.NewGemini(ctx, cfg.geminiAPIKey, adapter.WithGeminiModel(cfg.model))
		}
		return adapter.NewVertexGemini(ctx, cfg.geminiProject, cfg.geminiLocation, adapter.WithGeminiModel(cfg.model))

	default:
		return nil, goerr.New("unsupported llm provider",
			goerr.V("provider", cfg.llmProvider),
			goerr.T(model.ErrTagConfig))
	}
}

// newTableSource returns the résumé table source and the id it is cached
// under. Google Sheets needs the service-account key, which is downloaded
// first when absent.
func (cfg *config) newTableSource(ctx context.Context) (adapter.Sheets, string, error) {
	if cfg.csvPath != "" {
		logging.From(ctx).Debug("reading résumé from csv", "path", cfg.csvPath)
		return adapter.NewCSVTable(cfg.csvPath), cfg.csvPath, nil
	}

	d, err := cfg.newDownloader(ctx)
	if err != nil {
		return nil, "", err
	}
	if err := resume.EnsureCredential(ctx, d, cfg.credentialPath, cfg.credentialURL); err != nil {
		return nil, "", err
	}

	sheets, err := adapter.NewSheets(ctx, cfg.credentialPath)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to create sheets client")
	}
	return sheets, cfg.spreadsheetID, nil
}

// newUseCase validates configuration, provisions the credential and builds
// the pipeline session. Without req.llm the session can only serve Context.
func (cfg *config) newUseCase(ctx context.Context, req requirement) (*resume.UseCase, error) {
	if err := cfg.validate(req); err != nil {
		return nil, err
	}

	opts, err := cfg.useCaseOptions()
	if err != nil {
		return nil, err
	}

	source, tableID, err := cfg.newTableSource(ctx)
	if err != nil {
		return nil, err
	}

	if req.avatar && cfg.avatarURL != "" {
		d, err := cfg.newDownloader(ctx)
		if err != nil {
			return nil, err
		}
		if err := resume.EnsureFile(ctx, d, cfg.avatarPath, cfg.avatarURL); err != nil {
			logging.From(ctx).Warn("failed to provision avatar", "error", err)
		}
	}

	var generator resume.Generator
	if req.llm {
		generator, err = cfg.newGenerator(ctx)
		if err != nil {
			return nil, err
		}
	}

	return resume.New(source, generator, tableID, opts...), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
