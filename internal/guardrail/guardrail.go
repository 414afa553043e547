package guardrail

// Severity ranks how serious a single violation is. Severities are fixed
// per check type so the policy engine can reason about blocking without
// knowing which specific pattern fired.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Kind identifies the check family that produced a violation.
type Kind string

const (
	KindPII             Kind = "pii"
	KindPromptInjection Kind = "prompt_injection"
	KindHarmfulContent  Kind = "harmful_content"
	KindExcessiveLength Kind = "excessive_length"
)

// Violation is one detected issue. Violations are ephemeral: produced per
// check invocation, accumulated per request, never persisted.
type Violation struct {
	Kind       Kind     `json:"type"`
	Subtype    string   `json:"subtype,omitempty"`
	Pattern    string   `json:"pattern,omitempty"`
	Keyword    string   `json:"keyword,omitempty"`
	Count      int      `json:"count,omitempty"`
	Length     int      `json:"length,omitempty"`
	MaxAllowed int      `json:"max_allowed,omitempty"`
	Severity   Severity `json:"severity"`
}

// Mode is the policy strictness level.
type Mode string

const (
	ModeStrict     Mode = "strict"
	ModeModerate   Mode = "moderate"
	ModePermissive Mode = "permissive"
)

// ParseMode validates a mode string. Unknown values are rejected so a
// typo in config cannot silently weaken the policy.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeStrict, ModeModerate, ModePermissive:
		return Mode(s), true
	default:
		return "", false
	}
}

// Checker is the interface all input classifiers implement. Check must be
// pure: deterministic for a given text, no shared state, no I/O.
type Checker interface {
	Name() string
	Enabled() bool
	Check(text string) CheckResult
}

// CheckResult is returned by every classifier.
type CheckResult struct {
	Passed     bool
	Violations []Violation
}

// Result wraps a violation list into a CheckResult.
func Result(violations []Violation) CheckResult {
	return CheckResult{Passed: len(violations) == 0, Violations: violations}
}
