package resume_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/m-mizutani/curriculo/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

type mockSheets struct {
	table model.RawTable
	errs  []error
	calls atomic.Int32
	gate  chan struct{}
	// entered receives once per call before waiting on gate
	entered chan struct{}

	mu   sync.Mutex
	keys []string
}

func (m *mockSheets) GetValues(ctx context.Context, spreadsheetID, rng string) (model.RawTable, error) {
	n := m.calls.Add(1)

	m.mu.Lock()
	m.keys = append(m.keys, spreadsheetID+"|"+rng)
	m.mu.Unlock()

	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if int(n) <= len(m.errs) && m.errs[n-1] != nil {
		return nil, m.errs[n-1]
	}
	return m.table, nil
}

type mockGenerator struct {
	answer  string
	err     error
	prompts []string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

var errUnavailable = goerr.New("sheets api unavailable")

func resumeTable() model.RawTable {
	return model.RawTable{
		{"Seção", "Descrição"},
		{"Formação", "Bacharel em Ciência da Computação"},
		{"Skills", "Python, SQL, Machine Learning"},
	}
}
