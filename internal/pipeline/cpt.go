package pipeline

import "strings"

// cptEntry maps a CPT code to the lowercase procedure phrases it covers.
type cptEntry struct {
	Code     string
	Label    string
	Keywords []string
}

// cptTable is the fixed billing-code lookup. It is a slice, not a map:
// suggestion takes the first matching entry in declaration order, and that
// order is part of the observable behavior.
var cptTable = []cptEntry{
	{
		Code:     "73721",
		Label:    "MRI lower extremity joint without contrast",
		Keywords: []string{"mri knee", "mri of the knee", "knee mri"},
	},
	{
		Code:     "72148",
		Label:    "MRI lumbar spine without contrast",
		Keywords: []string{"mri lumbar", "lumbar spine mri", "mri of the lumbar spine"},
	},
	{
		Code:     "99213",
		Label:    "Office visit, established patient, low complexity",
		Keywords: []string{"office visit", "follow-up visit", "follow up visit"},
	},
}

// matchesCode reports whether the normalized procedure text contains one of
// the given code's keywords. Unknown codes never match.
func matchesCode(code, procedure string) bool {
	for _, entry := range cptTable {
		if entry.Code != code {
			continue
		}
		for _, kw := range entry.Keywords {
			if strings.Contains(procedure, kw) {
				return true
			}
		}
	}
	return false
}

// suggestCode scans the table in declaration order and returns the first
// code whose keyword list matches the normalized procedure text.
func suggestCode(procedure string) (cptEntry, bool) {
	for _, entry := range cptTable {
		for _, kw := range entry.Keywords {
			if strings.Contains(procedure, kw) {
				return entry, true
			}
		}
	}
	return cptEntry{}, false
}

// normalizeProcedure lowercases and trims procedure text for matching.
func normalizeProcedure(procedure string) string {
	return strings.ToLower(strings.TrimSpace(procedure))
}
