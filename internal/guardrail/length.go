package guardrail

import "github.com/harborml/ragward/internal/config"

// CheckLength compares the character count of text against a ceiling.
// A text of exactly maxLength passes; one character more fails with the
// measured length reported exactly.
func CheckLength(text string, maxLength int) CheckResult {
	n := len([]rune(text))
	if n <= maxLength {
		return Result(nil)
	}
	return Result([]Violation{{
		Kind:       KindExcessiveLength,
		Length:     n,
		MaxAllowed: maxLength,
		Severity:   SeverityLow,
	}})
}

// LengthChecker adapts CheckLength to the Checker interface, taking the
// ceiling from configuration.
type LengthChecker struct {
	cfg func() config.InputChecksConfig
}

func NewLengthChecker(cfg func() config.InputChecksConfig) *LengthChecker {
	return &LengthChecker{cfg: cfg}
}

func (c *LengthChecker) Name() string  { return "excessive_length" }
func (c *LengthChecker) Enabled() bool { return c.cfg().ExcessiveLength }

func (c *LengthChecker) Check(text string) CheckResult {
	return CheckLength(text, c.cfg().MaxLength)
}
