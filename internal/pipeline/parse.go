// Package pipeline implements the five-step claim workflow: parse, verify,
// code, draft, review. Steps run strictly in order within a request; each
// appends exactly one audit log entry.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/claim-pilot/internal/llm"
	"github.com/sells-group/claim-pilot/internal/model"
)

const parsePrompt = `You are a medical claims intake assistant. Extract the
following fields from the text below and respond with ONLY a JSON object:

{
  "patientName": string,
  "dob": string,
  "insuranceId": string or null,
  "procedure": string,
  "cptCode": string or null
}

Use null for fields that are not present in the text. Do not invent values.

Text:
%s`

// ParseStep turns raw request input into a normalized ClaimInput. Structured
// objects pass through directly; free text goes through LLM extraction and
// contract validation. Extraction and validation failures propagate.
func ParseStep(ctx context.Context, raw json.RawMessage, completer llm.Completer) (model.ClaimInput, model.AgentLog, error) {
	entry := model.AgentLog{
		Agent:     "parser",
		Step:      "parse",
		Timestamp: time.Now().UTC(),
	}

	if claim, ok := model.ClaimFromRaw(raw); ok {
		claim.DOB = NormalizeDOB(claim.DOB)
		entry.Detail = "structured claim accepted directly"
		entry.Payload = map[string]any{"path": "structured"}
		return claim, entry, nil
	}

	text := rawToText(raw)
	zap.L().Debug("pipeline: extracting claim from free text", zap.Int("text_len", len(text)))

	out, err := completer.CompleteJSON(ctx, "parse", fmt.Sprintf(parsePrompt, text))
	if err != nil {
		return model.ClaimInput{}, entry, eris.Wrap(err, "pipeline: parse extraction")
	}

	var claim model.ClaimInput
	if err := json.Unmarshal(out, &claim); err != nil {
		return model.ClaimInput{}, entry, llm.NewParseError(eris.Wrap(err, "pipeline: decode extracted claim"), string(out))
	}

	claim.DOB = NormalizeDOB(claim.DOB)
	if err := model.ValidateExtracted(claim); err != nil {
		return model.ClaimInput{}, entry, err
	}

	entry.Detail = "claim extracted from free text"
	entry.Payload = map[string]any{"path": "llm_extraction"}
	return claim, entry, nil
}

// rawToText renders raw input as prompt text: JSON strings are unquoted,
// anything else is passed through as-is.
func rawToText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
