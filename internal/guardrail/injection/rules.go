package injection

import "regexp"

// Rule defines one prompt injection phrase pattern.
type Rule struct {
	Name  string
	Regex *regexp.Regexp
}

// DefaultRules returns the built-in injection detection rules, in the
// fixed order they are evaluated.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:  "ignore_previous",
			Regex: regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+(instructions|commands|rules)`),
		},
		{
			Name:  "system_role_takeover",
			Regex: regexp.MustCompile(`(?i)system\s*:\s*you\s+are`),
		},
		{
			Name:  "forget_everything",
			Regex: regexp.MustCompile(`(?i)forget\s+(everything|all|previous)`),
		},
		{
			Name:  "new_instructions",
			Regex: regexp.MustCompile(`(?i)new\s+instructions`),
		},
		{
			Name:  "disregard_prior",
			Regex: regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior)`),
		},
		{
			Name:  "admin_mode",
			Regex: regexp.MustCompile(`(?i)admin\s+mode`),
		},
		{
			Name:  "developer_mode",
			Regex: regexp.MustCompile(`(?i)developer\s+mode`),
		},
		{
			Name:  "jailbreak",
			Regex: regexp.MustCompile(`(?i)jailbreak`),
		},
		{
			Name:  "roleplay_as",
			Regex: regexp.MustCompile(`(?i)roleplay\s+as`),
		},
	}
}
