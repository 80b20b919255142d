package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/claim-pilot/internal/llm"
)

// Enrichment is the outcome of an optional LLM enrichment call: either the
// model's text, or the fixed fallback with the degraded marker set. The
// substitution is always this explicit branch; enrichment failures never
// abort a step.
type Enrichment struct {
	Text     string
	Degraded bool
}

// enrichText requests free text from the LLM and substitutes fallback on any
// failure or empty completion.
func enrichText(ctx context.Context, completer llm.Completer, step, prompt, fallback string) Enrichment {
	text, err := completer.CompleteText(ctx, step, prompt)
	if err != nil || text == "" {
		zap.L().Warn("pipeline: enrichment degraded",
			zap.String("step", step),
			zap.Error(err),
		)
		return Enrichment{Text: fallback, Degraded: true}
	}
	return Enrichment{Text: text}
}
