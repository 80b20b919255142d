package model

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
)

// ValidationError indicates input or internally assembled data failed its
// contract.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps an error as a ValidationError.
func NewValidationError(err error) *ValidationError {
	return &ValidationError{Err: err}
}

// IsValidationError returns true if the error chain contains a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// validate is the shared struct validator. validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateDraft checks an assembled SubmissionDraft against its contract.
// The draft is built from local data, so a failure here is an internal
// logic error, not bad input.
func ValidateDraft(d SubmissionDraft) error {
	if err := validate.Struct(d); err != nil {
		return NewValidationError(eris.Wrap(err, "model: submission draft contract"))
	}
	return nil
}

// ValidateResponse checks the aggregate WorkflowResponse contract before it
// leaves the orchestrator.
func ValidateResponse(r *WorkflowResponse) error {
	if err := validate.Struct(r); err != nil {
		return NewValidationError(eris.Wrap(err, "model: workflow response contract"))
	}
	return nil
}

// ValidateExtracted checks a ClaimInput produced by LLM extraction from free
// text. Extraction must recover every required claim field (patientName, dob,
// procedure); anything less is a failed extraction. Only insuranceId and
// cptCode may come back null.
func ValidateExtracted(c ClaimInput) error {
	if c.PatientName == "" {
		return NewValidationError(eris.New("model: extracted claim missing patientName"))
	}
	if c.DOB == "" {
		return NewValidationError(eris.New("model: extracted claim missing dob"))
	}
	if c.Procedure == "" {
		return NewValidationError(eris.New("model: extracted claim missing procedure"))
	}
	return nil
}

// claimKeys are the fields recognized when deciding whether raw input is a
// structured claim.
var claimKeys = []string{"patientName", "dob", "insuranceId", "procedure", "cptCode"}

// ClaimFromRaw attempts to interpret raw JSON as a structured ClaimInput.
// It succeeds when the value is a JSON object carrying at least one known
// claim field with the right type. ok=false means the caller should treat
// the input as free text.
func ClaimFromRaw(raw json.RawMessage) (ClaimInput, bool) {
	var probe map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&probe); err != nil {
		return ClaimInput{}, false
	}

	known := false
	for _, key := range claimKeys {
		if _, present := probe[key]; present {
			known = true
			break
		}
	}
	if !known {
		return ClaimInput{}, false
	}

	var claim ClaimInput
	if err := json.Unmarshal(raw, &claim); err != nil {
		return ClaimInput{}, false
	}
	return claim, true
}
