package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/claim-pilot/internal/model"
)

// SubmitStep assembles the submission draft. Pure function of the claim, the
// issue list, and the coder's suggestion: no LLM involvement. The assembled
// draft is re-validated against its contract; a failure there is an internal
// logic error and propagates.
func SubmitStep(verification model.VerifyResult, coding model.CodeResult) (model.SubmissionDraft, model.AgentLog, error) {
	claim := verification.Claim

	status := model.StatusReady
	if verification.HasErrors() {
		status = model.StatusBlocked
	}

	// The suggested code wins over the claim's original when both exist.
	code := claim.CPTCode
	if coding.SuggestedCPT != nil {
		code = coding.SuggestedCPT
	}

	notes := make([]string, 0, len(verification.Issues))
	for _, issue := range verification.Issues {
		notes = append(notes, fmt.Sprintf("%s: %s", strings.ToUpper(string(issue.Severity)), issue.Message))
	}

	draft := model.SubmissionDraft{
		PatientName: claim.PatientName,
		DOB:         claim.DOB,
		InsuranceID: claim.InsuranceID,
		Procedure:   claim.Procedure,
		CPTCode:     code,
		Status:      status,
		Notes:       notes,
	}

	entry := model.AgentLog{
		Agent:     "submission",
		Step:      "draft",
		Detail:    fmt.Sprintf("draft assembled with status %s", status),
		Timestamp: time.Now().UTC(),
		Payload: map[string]any{
			"status": string(status),
			"notes":  len(notes),
		},
	}

	if err := model.ValidateDraft(draft); err != nil {
		return model.SubmissionDraft{}, entry, err
	}

	return draft, entry, nil
}
