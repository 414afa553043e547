package pii

import "regexp"

// Pattern defines one PII category detector.
type Pattern struct {
	Category string
	Regex    *regexp.Regexp
}

// DefaultPatterns returns the built-in PII detection patterns. Matching is
// case-insensitive across all categories.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Category: "email",
			Regex:    regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		},
		{
			Category: "phone",
			Regex:    regexp.MustCompile(`(?i)\b(\+\d{1,2}\s?)?(\()?\d{3}(\))?[\s.-]?\d{3}[\s.-]?\d{4}\b`),
		},
		{
			Category: "ssn",
			Regex:    regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		},
		{
			Category: "credit_card",
			Regex:    regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`),
		},
		{
			Category: "api_key",
			Regex:    regexp.MustCompile(`(?i)\b(sk-|pk-|api[_-]?key[_-]?)[a-zA-Z0-9]{20,}\b`),
		},
	}
}
