package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestClaimFromRaw_StructuredObject(t *testing.T) {
	raw := json.RawMessage(`{
		"patientName": "John Doe",
		"dob": "01/01/1975",
		"insuranceId": "",
		"procedure": "MRI Knee",
		"cptCode": "73721"
	}`)

	claim, ok := ClaimFromRaw(raw)
	require.True(t, ok)
	assert.Equal(t, "John Doe", claim.PatientName)
	assert.Equal(t, "01/01/1975", claim.DOB)
	require.NotNil(t, claim.InsuranceID)
	assert.Empty(t, *claim.InsuranceID)
	assert.Equal(t, "MRI Knee", claim.Procedure)
}

func TestClaimFromRaw_PartialObject(t *testing.T) {
	raw := json.RawMessage(`{"procedure": "Office visit"}`)

	claim, ok := ClaimFromRaw(raw)
	require.True(t, ok)
	assert.Equal(t, "Office visit", claim.Procedure)
	assert.Empty(t, claim.PatientName)
	assert.Nil(t, claim.InsuranceID)
}

func TestClaimFromRaw_FreeText(t *testing.T) {
	raw := json.RawMessage(`"Patient John Doe needs an MRI of the knee"`)

	_, ok := ClaimFromRaw(raw)
	assert.False(t, ok)
}

func TestClaimFromRaw_UnrelatedObject(t *testing.T) {
	raw := json.RawMessage(`{"foo": "bar"}`)

	_, ok := ClaimFromRaw(raw)
	assert.False(t, ok)
}

func TestClaimFromRaw_NullInsuranceID(t *testing.T) {
	raw := json.RawMessage(`{"patientName": "A", "insuranceId": null, "procedure": "X"}`)

	claim, ok := ClaimFromRaw(raw)
	require.True(t, ok)
	assert.Nil(t, claim.InsuranceID)
}

func TestHasInsuranceID(t *testing.T) {
	assert.False(t, ClaimInput{}.HasInsuranceID())
	assert.False(t, ClaimInput{InsuranceID: strPtr("")}.HasInsuranceID())
	assert.True(t, ClaimInput{InsuranceID: strPtr("ZX-991144")}.HasInsuranceID())
}

func TestVerifyResult_HasErrors(t *testing.T) {
	noErrors := VerifyResult{Issues: []VerificationIssue{
		{Field: "dob", Message: "missing", Severity: SeverityWarn},
		{Field: "claim", Message: "note", Severity: SeverityInfo},
	}}
	assert.False(t, noErrors.HasErrors())

	withError := VerifyResult{Issues: append(noErrors.Issues,
		VerificationIssue{Field: "insuranceId", Message: "missing", Severity: SeverityError},
	)}
	assert.True(t, withError.HasErrors())
}

func TestValidateDraft(t *testing.T) {
	valid := SubmissionDraft{
		PatientName: "Aaron Lee",
		DOB:         "1979-11-02",
		InsuranceID: strPtr("ZX-991144"),
		Procedure:   "MRI Lumbar Spine",
		CPTCode:     strPtr("72148"),
		Status:      StatusReady,
	}
	require.NoError(t, ValidateDraft(valid))

	invalid := valid
	invalid.Status = "PENDING"
	err := ValidateDraft(invalid)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestValidateExtracted(t *testing.T) {
	require.NoError(t, ValidateExtracted(ClaimInput{PatientName: "A", DOB: "1979-11-02", Procedure: "B"}))

	// Only insuranceId and cptCode may be absent.
	err := ValidateExtracted(ClaimInput{DOB: "1979-11-02", Procedure: "B"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	err = ValidateExtracted(ClaimInput{PatientName: "A", Procedure: "B"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	err = ValidateExtracted(ClaimInput{PatientName: "A", DOB: "1979-11-02"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestValidateResponse(t *testing.T) {
	resp := &WorkflowResponse{
		RunID: uuid.NewString(),
		Claim: ClaimInput{PatientName: "A", DOB: "1979-11-02", Procedure: "MRI"},
		Coding: CodeResult{
			Rationale: "matched by keyword",
		},
		Submission: SubmissionDraft{
			PatientName: "A",
			Status:      StatusReady,
		},
		Review: ReviewResult{Risk: RiskLow, Rationale: "clean claim"},
		Metrics: Metrics{
			BaselineSeconds:  14400,
			AutomatedSeconds: 1,
			TimeSavedPct:     99.99,
			CleanClaimRate:   0.98,
		},
		Logs: []AgentLog{
			{Agent: "parser", Step: "parse", Detail: "structured input", Timestamp: time.Now()},
		},
		Explanation: "All good.",
	}
	require.NoError(t, ValidateResponse(resp))

	resp.Explanation = ""
	err := ValidateResponse(resp)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	resp.Explanation = "ok"
	resp.Review.Risk = "severe"
	assert.Error(t, ValidateResponse(resp))
}
