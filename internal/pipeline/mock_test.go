package pipeline

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/mock"
)

// mockCompleter implements llm.Completer for step tests.
type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) CompleteText(ctx context.Context, step, prompt string) (string, error) {
	args := m.Called(ctx, step, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockCompleter) CompleteJSON(ctx context.Context, step, prompt string) (json.RawMessage, error) {
	args := m.Called(ctx, step, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// degradedCompleter fails every call, forcing all enrichment fallbacks.
type degradedCompleter struct{}

func (degradedCompleter) CompleteText(ctx context.Context, step, prompt string) (string, error) {
	return "", eris.New("service unavailable")
}

func (degradedCompleter) CompleteJSON(ctx context.Context, step, prompt string) (json.RawMessage, error) {
	return nil, eris.New("service unavailable")
}

func strPtr(s string) *string { return &s }
