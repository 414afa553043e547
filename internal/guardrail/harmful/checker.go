package harmful

import (
	"strings"

	"github.com/harborml/ragward/internal/config"
	"github.com/harborml/ragward/internal/guardrail"
)

// DefaultKeywords returns the built-in harmful-content keyword list.
// Detection is a literal, case-insensitive containment test.
func DefaultKeywords() []string {
	return []string{
		"exploit", "hack", "bypass", "vulnerability", "injection",
		"malware", "ransomware", "phishing", "credentials",
	}
}

// Checker scans text for harmful-content keywords.
type Checker struct {
	keywords []string
	cfg      func() config.InputChecksConfig
}

// NewChecker creates a checker with the default keyword list.
func NewChecker(cfg func() config.InputChecksConfig) *Checker {
	return &Checker{keywords: DefaultKeywords(), cfg: cfg}
}

func (c *Checker) Name() string  { return "harmful_content" }
func (c *Checker) Enabled() bool { return c.cfg().HarmfulContent }

// Check yields one medium-severity violation per keyword present.
func (c *Checker) Check(text string) guardrail.CheckResult {
	lower := strings.ToLower(text)
	var violations []guardrail.Violation
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw) {
			violations = append(violations, guardrail.Violation{
				Kind:     guardrail.KindHarmfulContent,
				Keyword:  kw,
				Severity: guardrail.SeverityMedium,
			})
		}
	}
	return guardrail.Result(violations)
}
