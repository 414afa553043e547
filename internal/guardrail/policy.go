package guardrail

// Decision is the policy engine's verdict for one request.
type Decision struct {
	Blocked    bool        `json:"blocked"`
	Violations []Violation `json:"violations"`
	Mode       Mode        `json:"mode"`
}

// Decide combines accumulated violations with the strictness mode.
// It never consults text content, only the already-computed violations,
// which keeps it reusable for both the input and output paths.
//
//   - strict: block on any violation
//   - moderate: block only when a high-severity violation is present
//   - permissive: never block, violations are reported for logging only
func Decide(violations []Violation, mode Mode) Decision {
	d := Decision{Violations: violations, Mode: mode}
	switch mode {
	case ModeStrict:
		d.Blocked = len(violations) > 0
	case ModeModerate:
		for _, v := range violations {
			if v.Severity == SeverityHigh {
				d.Blocked = true
				break
			}
		}
	case ModePermissive:
		// never blocks
	}
	return d
}
