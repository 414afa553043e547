package config

// GuardrailConfig is the safety policy applied by the guardrail gateway.
// Loaded once at startup (and on hot reload), read-only in between.
type GuardrailConfig struct {
	Enabled      bool               `yaml:"enabled"`
	Mode         string             `yaml:"mode"`
	InputChecks  InputChecksConfig  `yaml:"input_checks"`
	OutputChecks OutputChecksConfig `yaml:"output_checks"`
	ExemptPaths  []string           `yaml:"exempt_paths"`
}

type InputChecksConfig struct {
	PIIDetection    bool `yaml:"pii_detection"`
	PromptInjection bool `yaml:"prompt_injection"`
	HarmfulContent  bool `yaml:"harmful_content"`
	ExcessiveLength bool `yaml:"excessive_length"`
	MaxLength       int  `yaml:"max_length"`
}

type OutputChecksConfig struct {
	PIILeakage             bool `yaml:"pii_leakage"`
	HarmfulContent         bool `yaml:"harmful_content"`
	HallucinationDetection bool `yaml:"hallucination_detection"`
}

// DefaultGuardrailConfig is the mandatory fallback used when no policy
// file is found or parsing fails.
func DefaultGuardrailConfig() *GuardrailConfig {
	return &GuardrailConfig{
		Enabled: true,
		Mode:    "moderate",
		InputChecks: InputChecksConfig{
			PIIDetection:    true,
			PromptInjection: true,
			HarmfulContent:  true,
			ExcessiveLength: true,
			MaxLength:       10000,
		},
		OutputChecks: OutputChecksConfig{
			PIILeakage:             true,
			HarmfulContent:         true,
			HallucinationDetection: false,
		},
		ExemptPaths: []string{"/health", "/docs", "/openapi.json"},
	}
}
