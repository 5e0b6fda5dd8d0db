package resume

import (
	_ "embed"
	"strings"

	"github.com/m-mizutani/curriculo/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	contextPlaceholder  = "{curriculo}"
	questionPlaceholder = "{pergunta}"
)

//go:embed prompt/answer.md
var answerPromptRaw string

// Template is a prompt with one grounding-context and one question slot
type Template struct {
	raw string
}

// DefaultTemplate returns the embedded recruiter-answer prompt
func DefaultTemplate() *Template {
	t, err := ParseTemplate(strings.TrimRight(answerPromptRaw, "\n"))
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTemplate checks that raw contains both {curriculo} and {pergunta}.
func ParseTemplate(raw string) (*Template, error) {
	for _, p := range []string{contextPlaceholder, questionPlaceholder} {
		if !strings.Contains(raw, p) {
			return nil, goerr.New("prompt template is missing placeholder",
				goerr.V("placeholder", p),
				goerr.T(model.ErrTagTemplate))
		}
	}
	return &Template{raw: raw}, nil
}

// Compose fills every placeholder occurrence in a single pass. Placeholder-like
// text inside context or question is copied as-is and never expanded.
func (t *Template) Compose(context, question string) string {
	return strings.NewReplacer(
		contextPlaceholder, context,
		questionPlaceholder, question,
	).Replace(t.raw)
}

// String returns the raw template text
func (t *Template) String() string {
	return t.raw
}
