package pii

import (
	"github.com/harborml/ragward/internal/config"
	"github.com/harborml/ragward/internal/guardrail"
)

// Checker scans text for PII-shaped substrings using pre-compiled
// regex patterns. Check is stateless and safe for concurrent use.
type Checker struct {
	patterns []Pattern
	cfg      func() config.InputChecksConfig
}

// NewChecker creates a checker with the default PII patterns.
func NewChecker(cfg func() config.InputChecksConfig) *Checker {
	return &Checker{patterns: DefaultPatterns(), cfg: cfg}
}

func (c *Checker) Name() string  { return "pii" }
func (c *Checker) Enabled() bool { return c.cfg().PIIDetection }

// Check reports at most one violation per PII category. A category that
// matches yields a single high-severity violation carrying the match count.
func (c *Checker) Check(text string) guardrail.CheckResult {
	var violations []guardrail.Violation
	for _, p := range c.patterns {
		matches := p.Regex.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		violations = append(violations, guardrail.Violation{
			Kind:     guardrail.KindPII,
			Subtype:  p.Category,
			Count:    len(matches),
			Severity: guardrail.SeverityHigh,
		})
	}
	return guardrail.Result(violations)
}
