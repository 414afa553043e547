package injection

import (
	"github.com/harborml/ragward/internal/config"
	"github.com/harborml/ragward/internal/guardrail"
)

// Checker scans text for prompt injection phrasing. Check is deterministic
// given the same text: no shared state, no I/O.
type Checker struct {
	rules []Rule
	cfg   func() config.InputChecksConfig
}

// NewChecker creates a checker with the default injection rules.
func NewChecker(cfg func() config.InputChecksConfig) *Checker {
	return &Checker{rules: DefaultRules(), cfg: cfg}
}

func (c *Checker) Name() string  { return "prompt_injection" }
func (c *Checker) Enabled() bool { return c.cfg().PromptInjection }

// Check yields one high-severity violation per matching rule. Multiple
// matching rules yield multiple violations; there is no deduplication.
func (c *Checker) Check(text string) guardrail.CheckResult {
	var violations []guardrail.Violation
	for _, r := range c.rules {
		if r.Regex.MatchString(text) {
			violations = append(violations, guardrail.Violation{
				Kind:     guardrail.KindPromptInjection,
				Pattern:  r.Name,
				Severity: guardrail.SeverityHigh,
			})
		}
	}
	return guardrail.Result(violations)
}
