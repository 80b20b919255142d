// Package model defines the claim pipeline's data contracts. Every type here
// is created fresh per request and discarded after the response is written;
// there is no cross-request identity.
package model

import (
	"time"
)

// Severity classifies a verification issue.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// DraftStatus is the submission readiness of a claim.
type DraftStatus string

const (
	StatusReady   DraftStatus = "READY"
	StatusBlocked DraftStatus = "BLOCKED"
)

// Risk is the coarse denial-risk category assigned by the reviewer.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// ClaimInput is a flat billing record for a medical procedure. Missing text
// fields are empty strings; insuranceId and cptCode distinguish null from
// empty via pointers.
type ClaimInput struct {
	PatientName string  `json:"patientName"`
	DOB         string  `json:"dob"`
	InsuranceID *string `json:"insuranceId"`
	Procedure   string  `json:"procedure"`
	CPTCode     *string `json:"cptCode"`
}

// HasInsuranceID reports whether the claim carries a non-empty insurance ID.
func (c ClaimInput) HasInsuranceID() bool {
	return c.InsuranceID != nil && *c.InsuranceID != ""
}

// HasCPTCode reports whether the claim carries a non-empty billing code.
func (c ClaimInput) HasCPTCode() bool {
	return c.CPTCode != nil && *c.CPTCode != ""
}

// VerificationIssue is one finding against a claim field. Issues accumulate
// in insertion order; there is no dedup.
type VerificationIssue struct {
	Field    string   `json:"field" validate:"required"`
	Message  string   `json:"message" validate:"required"`
	Severity Severity `json:"severity" validate:"required,oneof=info warn error"`
}

// VerifyResult bundles the unmodified claim with its issue list.
type VerifyResult struct {
	Claim  ClaimInput          `json:"claim"`
	Issues []VerificationIssue `json:"issues" validate:"dive"`
}

// HasErrors reports whether any issue carries error severity.
func (v VerifyResult) HasErrors() bool {
	for _, issue := range v.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CodeResult is the coder step's outcome: a suggested CPT code (nil when no
// table entry matched), whether a supplied code was confirmed, and a
// one-sentence justification.
type CodeResult struct {
	SuggestedCPT *string `json:"suggestedCpt"`
	Valid        bool    `json:"valid"`
	Rationale    string  `json:"rationale" validate:"required"`
}

// SubmissionDraft is the reshaped claim ready for submission. Status is
// BLOCKED iff at least one issue had error severity.
type SubmissionDraft struct {
	PatientName string      `json:"patientName"`
	DOB         string      `json:"dob"`
	InsuranceID *string     `json:"insuranceId"`
	Procedure   string      `json:"procedure"`
	CPTCode     *string     `json:"cptCode"`
	Status      DraftStatus `json:"status" validate:"required,oneof=READY BLOCKED"`
	Notes       []string    `json:"notes"`
}

// ReviewResult is the reviewer step's risk classification.
type ReviewResult struct {
	Risk      Risk   `json:"risk" validate:"required,oneof=low medium high"`
	Rationale string `json:"rationale" validate:"required"`
}

// AgentLog is one append-only audit entry. The pipeline writes these and
// never reads them back.
type AgentLog struct {
	Agent     string         `json:"agent" validate:"required"`
	Step      string         `json:"step" validate:"required"`
	Detail    string         `json:"detail"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp" validate:"required"`
}

// Metrics holds the two derived timing figures and the simulated
// business-impact constants.
type Metrics struct {
	BaselineSeconds  int     `json:"baselineSeconds" validate:"required"`
	AutomatedSeconds int     `json:"automatedSeconds" validate:"required,min=1"`
	TimeSavedPct     float64 `json:"timeSavedPct"`
	CleanClaimRate   float64 `json:"cleanClaimRate" validate:"required"`
}

// WorkflowResponse is the sole externally observable artifact of a pipeline
// run. Constructed once, validated, never mutated after return.
type WorkflowResponse struct {
	RunID        string          `json:"runId" validate:"required,uuid4"`
	Claim        ClaimInput      `json:"claim"`
	Verification VerifyResult    `json:"verification"`
	Coding       CodeResult      `json:"coding"`
	Submission   SubmissionDraft `json:"submission"`
	Review       ReviewResult    `json:"review"`
	Metrics      Metrics         `json:"metrics"`
	Logs         []AgentLog      `json:"logs" validate:"required,min=1,dive"`
	Explanation  string          `json:"explanation" validate:"required"`
}
