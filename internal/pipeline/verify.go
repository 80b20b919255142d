package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/claim-pilot/internal/llm"
	"github.com/sells-group/claim-pilot/internal/model"
)

const verifyPrompt = `You are a medical claims verifier. Review this claim
summary for consistency problems (implausible dates, procedure/code
mismatches, formatting oddities). Respond with ONLY a JSON object:

{"notes": [string, ...]}

At most three short notes. An empty list is a valid answer.

Claim:
%s`

// VerifyStep runs the deterministic field checks and asks the LLM for up to
// three consistency notes. A degraded LLM call yields zero notes and never
// aborts the step.
func VerifyStep(ctx context.Context, claim model.ClaimInput, completer llm.Completer) (model.VerifyResult, model.AgentLog) {
	var issues []model.VerificationIssue

	if !claim.HasInsuranceID() {
		issues = append(issues, model.VerificationIssue{
			Field:    "insuranceId",
			Message:  "insurance ID is missing or empty",
			Severity: model.SeverityError,
		})
	}
	if claim.DOB == "" {
		issues = append(issues, model.VerificationIssue{
			Field:    "dob",
			Message:  "date of birth is missing",
			Severity: model.SeverityWarn,
		})
	}
	if claim.PatientName == "" {
		issues = append(issues, model.VerificationIssue{
			Field:    "patientName",
			Message:  "patient name is missing",
			Severity: model.SeverityError,
		})
	}
	if claim.Procedure == "" {
		issues = append(issues, model.VerificationIssue{
			Field:    "procedure",
			Message:  "procedure description is missing",
			Severity: model.SeverityError,
		})
	}

	notes, degraded := consistencyNotes(ctx, claim, completer)
	for _, note := range notes {
		issues = append(issues, model.VerificationIssue{
			Field:    "claim",
			Message:  note,
			Severity: model.SeverityInfo,
		})
	}

	entry := model.AgentLog{
		Agent:     "verifier",
		Step:      "verify",
		Detail:    fmt.Sprintf("%d issue(s) recorded", len(issues)),
		Timestamp: time.Now().UTC(),
		Payload: map[string]any{
			"issues":   len(issues),
			"degraded": degraded,
		},
	}

	return model.VerifyResult{Claim: claim, Issues: issues}, entry
}

// consistencyNotes asks the LLM for free-text consistency notes. Failure is
// the degraded branch: zero notes, surfaced via the returned flag only.
func consistencyNotes(ctx context.Context, claim model.ClaimInput, completer llm.Completer) ([]string, bool) {
	summary, err := json.Marshal(claim)
	if err != nil {
		return nil, true
	}

	out, err := completer.CompleteJSON(ctx, "verify", fmt.Sprintf(verifyPrompt, summary))
	if err != nil {
		zap.L().Warn("pipeline: verify enrichment degraded", zap.Error(err))
		return nil, true
	}

	var parsed struct {
		Notes []string `json:"notes"`
	}
	if err := json.Unmarshal(out, &parsed); err != nil {
		zap.L().Warn("pipeline: verify notes not decodable", zap.Error(err))
		return nil, true
	}

	if len(parsed.Notes) > 3 {
		parsed.Notes = parsed.Notes[:3]
	}
	return parsed.Notes, false
}
