package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeDOB loosely normalizes a date of birth toward YYYY-MM-DD.
// YYYY-MM-DD passes through unchanged; M/D/Y and M-D-Y are rewritten, with
// two-digit years prefixed "19" (a deliberately naive 1900s assumption).
// Anything else passes through untouched. Idempotent.
func NormalizeDOB(dob string) string {
	dob = strings.TrimSpace(dob)
	if dob == "" {
		return dob
	}

	if isISODate(dob) {
		return dob
	}

	sep := ""
	switch {
	case strings.Contains(dob, "/"):
		sep = "/"
	case strings.Contains(dob, "-"):
		sep = "-"
	default:
		return dob
	}

	parts := strings.Split(dob, sep)
	if len(parts) != 3 {
		return dob
	}
	// A four-digit leading part is year-first, not M/D/Y.
	if len(strings.TrimSpace(parts[0])) == 4 {
		return dob
	}

	month, okM := parseDatePart(parts[0])
	day, okD := parseDatePart(parts[1])
	year := strings.TrimSpace(parts[2])
	if !okM || !okD || !isDigits(year) {
		return dob
	}

	if len(year) == 2 {
		year = "19" + year
	}

	return fmt.Sprintf("%s-%02d-%02d", year, month, day)
}

// isISODate reports whether s already looks like YYYY-MM-DD.
func isISODate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	return isDigits(s[:4]) && isDigits(s[5:7]) && isDigits(s[8:])
}

func parseDatePart(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
