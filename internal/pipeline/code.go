package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sells-group/claim-pilot/internal/llm"
	"github.com/sells-group/claim-pilot/internal/model"
)

const codePrompt = `You are a medical billing coder. In one sentence, justify
why CPT code %s fits the procedure "%s". Respond with the sentence only.`

const codeNoMatchPrompt = `You are a medical billing coder. In one sentence,
explain that no standard CPT code matched the procedure "%s" and manual
coding is needed. Respond with the sentence only.`

const codeFallbackRationale = "Code suggestion derived from keyword match against the procedure description."

// CodeStep validates a supplied CPT code against the lookup table or
// suggests one from the procedure text. The rationale comes from the LLM
// with a fixed fallback on a degraded call.
func CodeStep(ctx context.Context, claim model.ClaimInput, completer llm.Completer) (model.CodeResult, model.AgentLog) {
	procedure := normalizeProcedure(claim.Procedure)

	result := model.CodeResult{}
	switch {
	case claim.HasCPTCode() && matchesCode(*claim.CPTCode, procedure):
		code := *claim.CPTCode
		result.Valid = true
		result.SuggestedCPT = &code
	default:
		if entry, ok := suggestCode(procedure); ok {
			code := entry.Code
			result.SuggestedCPT = &code
		}
	}

	prompt := fmt.Sprintf(codeNoMatchPrompt, claim.Procedure)
	if result.SuggestedCPT != nil {
		prompt = fmt.Sprintf(codePrompt, *result.SuggestedCPT, claim.Procedure)
	}
	rationale := enrichText(ctx, completer, "code", prompt, codeFallbackRationale)
	result.Rationale = rationale.Text

	suggested := ""
	if result.SuggestedCPT != nil {
		suggested = *result.SuggestedCPT
	}
	entry := model.AgentLog{
		Agent:     "coder",
		Step:      "code",
		Detail:    fmt.Sprintf("suggested=%q valid=%v", suggested, result.Valid),
		Timestamp: time.Now().UTC(),
		Payload: map[string]any{
			"suggestedCpt": suggested,
			"valid":        result.Valid,
			"degraded":     rationale.Degraded,
		},
	}

	return result, entry
}
