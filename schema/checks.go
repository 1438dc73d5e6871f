package schema

import "regexp"

// Standalone field checks for form-side use, sharing the rules the entity
// contracts declare.

var (
	hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	digitRe    = regexp.MustCompile(`\d`)
)

// ValidEmail reports whether s is a syntactically valid email address.
func ValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD format.
func ValidDate(s string) bool {
	return dateRe.MatchString(s)
}

// ValidHexColor reports whether s is a six-digit hex color like #1A2B3C.
func ValidHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// PasswordStrength lists the complexity rules a candidate password violates.
// An empty slice means the password is acceptable.
func PasswordStrength(password string) []string {
	var problems []string
	if len(password) < 8 {
		problems = append(problems, "password must be at least 8 characters long")
	}
	if !upperRe.MatchString(password) {
		problems = append(problems, "password must contain at least one uppercase letter")
	}
	if !lowerRe.MatchString(password) {
		problems = append(problems, "password must contain at least one lowercase letter")
	}
	if !digitRe.MatchString(password) {
		problems = append(problems, "password must contain at least one number")
	}
	return problems
}
