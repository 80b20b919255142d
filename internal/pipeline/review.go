package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sells-group/claim-pilot/internal/llm"
	"github.com/sells-group/claim-pilot/internal/model"
)

const reviewPrompt = `You are a claims reviewer. A claim draft has status %s,
insurance ID present: %v, billing code present: %v. Its denial risk was
classified as %q. In one or two sentences, explain that classification to a
billing clerk. Respond with the explanation only.`

const reviewFallbackRationale = "Risk classified from submission status and completeness of insurance and coding fields."

// ReviewStep classifies denial risk from the submission draft. The rules are
// deterministic; only the rationale text comes from the LLM, with a fixed
// fallback on a degraded call.
func ReviewStep(ctx context.Context, draft model.SubmissionDraft, completer llm.Completer) (model.ReviewResult, model.AgentLog) {
	hasInsurance := draft.InsuranceID != nil && *draft.InsuranceID != ""
	hasCode := draft.CPTCode != nil && *draft.CPTCode != ""

	var risk model.Risk
	switch {
	case draft.Status == model.StatusBlocked:
		risk = model.RiskHigh
	case !hasInsurance || !hasCode:
		risk = model.RiskMedium
	default:
		risk = model.RiskLow
	}

	rationale := enrichText(ctx, completer, "review",
		fmt.Sprintf(reviewPrompt, draft.Status, hasInsurance, hasCode, risk),
		reviewFallbackRationale,
	)

	entry := model.AgentLog{
		Agent:     "reviewer",
		Step:      "review",
		Detail:    fmt.Sprintf("denial risk classified as %s", risk),
		Timestamp: time.Now().UTC(),
		Payload: map[string]any{
			"risk":     string(risk),
			"degraded": rationale.Degraded,
		},
	}

	return model.ReviewResult{Risk: risk, Rationale: rationale.Text}, entry
}
