package resume

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/m-mizutani/curriculo/pkg/adapter"
	"github.com/m-mizutani/curriculo/pkg/model"
	"github.com/m-mizutani/curriculo/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRange            = "A1:U100"
	DefaultSectionField     = "Seção"
	DefaultDescriptionField = "Descrição"
)

// Generator sends a prompt to a completion model and returns its text
// verbatim. Implementations use fixed decoding parameters.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FetchPolicy decides what Ask does when the résumé table cannot be fetched
type FetchPolicy int

const (
	// FetchPolicyDegrade logs the failure and answers with an empty context
	FetchPolicyDegrade FetchPolicy = iota
	// FetchPolicyStrict aborts the request with the fetch error
	FetchPolicyStrict
)

// State is a step of a single Ask request
type State string

const (
	StateCredentialsReady State = "credentials_ready"
	StateTableFetched     State = "table_fetched"
	StateContextBuilt     State = "context_built"
	StatePromptComposed   State = "prompt_composed"
	StateAnswerReceived   State = "answer_received"
	StateFailed           State = "failed"
)

// UseCase is a pipeline session. It is built once at startup, owns the
// table cache and client handles, and is safe for concurrent Ask calls.
type UseCase struct {
	sheets    adapter.Sheets
	generator Generator

	tableID          string
	rng              string
	sectionField     string
	descriptionField string
	template         *Template
	fetchPolicy      FetchPolicy

	tablesMu   sync.RWMutex
	tables     map[tableKey]model.RawTable
	fetchGroup singleflight.Group
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithRange sets the A1 range read from the spreadsheet
func WithRange(rng string) Option {
	return func(u *UseCase) {
		u.rng = rng
	}
}

// WithFields sets the column names rendered as "<section>: <description>"
func WithFields(sectionField, descriptionField string) Option {
	return func(u *UseCase) {
		u.sectionField = sectionField
		u.descriptionField = descriptionField
	}
}

// WithTemplate replaces the embedded prompt template
func WithTemplate(t *Template) Option {
	return func(u *UseCase) {
		u.template = t
	}
}

// WithFetchPolicy sets the behaviour on table fetch failure
func WithFetchPolicy(p FetchPolicy) Option {
	return func(u *UseCase) {
		u.fetchPolicy = p
	}
}

// New creates a pipeline session reading tableID through sheets and
// answering with generator. The credential used by sheets must already be
// provisioned.
func New(sheets adapter.Sheets, generator Generator, tableID string, opts ...Option) *UseCase {
	u := &UseCase{
		sheets:           sheets,
		generator:        generator,
		tableID:          tableID,
		rng:              DefaultRange,
		sectionField:     DefaultSectionField,
		descriptionField: DefaultDescriptionField,
		template:         DefaultTemplate(),
		fetchPolicy:      FetchPolicyDegrade,
		tables:           make(map[tableKey]model.RawTable),
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// Context returns the grounding context built from the most recent
// successful fetch. Fetch errors are returned as-is, regardless of policy.
func (u *UseCase) Context(ctx context.Context) (string, error) {
	raw, err := u.Fetch(ctx, u.tableID, u.rng)
	if err != nil {
		return "", err
	}
	return model.BuildRecordSet(raw).Flatten(u.sectionField, u.descriptionField), nil
}

// Ask answers a recruiter question grounded in the résumé table. Only a
// generation failure, or a fetch failure under FetchPolicyStrict, returns an
// error; an empty or unavailable table still produces a model answer.
func (u *UseCase) Ask(ctx context.Context, question string) (string, error) {
	logger := logging.From(ctx).With("request_id", uuid.NewString())
	ctx = logging.With(ctx, logger)
	logger.Debug("ask", "state", StateCredentialsReady)

	raw, err := u.Fetch(ctx, u.tableID, u.rng)
	if err != nil {
		if u.fetchPolicy == FetchPolicyStrict {
			logger.Debug("ask", "state", StateFailed)
			return "", err
		}
		logger.Warn("résumé table unavailable, answering without grounding data", "error", err)
		raw = nil
	}
	logger.Debug("ask", "state", StateTableFetched, "rows", len(raw))

	records := model.BuildRecordSet(raw)
	grounding := records.Flatten(u.sectionField, u.descriptionField)
	if grounding == "" {
		logger.Warn("grounding context is empty")
	}
	logger.Debug("ask", "state", StateContextBuilt, "records", records.Len())

	prompt := u.template.Compose(grounding, question)
	logger.Debug("ask", "state", StatePromptComposed, "prompt_length", len(prompt))

	answer, err := u.generator.Generate(ctx, prompt)
	if err != nil {
		logger.Debug("ask", "state", StateFailed)
		return "", goerr.Wrap(err, "failed to generate answer", goerr.T(model.ErrTagGeneration))
	}
	logger.Debug("ask", "state", StateAnswerReceived, "answer_length", len(answer))

	return answer, nil
}
