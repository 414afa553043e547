package guardrail

import "testing"

func TestDecide_StrictBlocksAnyViolation(t *testing.T) {
	violations := []Violation{
		{Kind: KindExcessiveLength, Severity: SeverityLow},
	}
	d := Decide(violations, ModeStrict)
	if !d.Blocked {
		t.Error("strict mode should block on any violation")
	}
}

func TestDecide_StrictPassesClean(t *testing.T) {
	d := Decide(nil, ModeStrict)
	if d.Blocked {
		t.Error("strict mode should not block with zero violations")
	}
}

func TestDecide_ModerateBlocksOnlyHigh(t *testing.T) {
	lowAndMedium := []Violation{
		{Kind: KindExcessiveLength, Severity: SeverityLow},
		{Kind: KindHarmfulContent, Severity: SeverityMedium},
	}
	if d := Decide(lowAndMedium, ModeModerate); d.Blocked {
		t.Error("moderate mode should not block without a high-severity violation")
	}

	withHigh := append(lowAndMedium, Violation{Kind: KindPromptInjection, Severity: SeverityHigh})
	if d := Decide(withHigh, ModeModerate); !d.Blocked {
		t.Error("moderate mode should block when a high-severity violation is present")
	}
}

func TestDecide_ModerateIgnoresCount(t *testing.T) {
	// Many medium violations must not block; one high must.
	var many []Violation
	for i := 0; i < 50; i++ {
		many = append(many, Violation{Kind: KindHarmfulContent, Severity: SeverityMedium})
	}
	if d := Decide(many, ModeModerate); d.Blocked {
		t.Error("moderate mode blocked on violation count instead of severity")
	}
}

func TestDecide_PermissiveNeverBlocks(t *testing.T) {
	violations := []Violation{
		{Kind: KindPII, Severity: SeverityHigh},
		{Kind: KindPromptInjection, Severity: SeverityHigh},
	}
	d := Decide(violations, ModePermissive)
	if d.Blocked {
		t.Error("permissive mode must never block")
	}
	if len(d.Violations) != 2 {
		t.Errorf("permissive mode must still report violations, got %d", len(d.Violations))
	}
}

func TestDecide_PreservesModeAndViolations(t *testing.T) {
	violations := []Violation{{Kind: KindPII, Severity: SeverityHigh}}
	d := Decide(violations, ModeStrict)
	if d.Mode != ModeStrict {
		t.Errorf("expected mode strict, got %s", d.Mode)
	}
	if len(d.Violations) != 1 || d.Violations[0].Kind != KindPII {
		t.Errorf("decision should carry the input violations unchanged")
	}
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"strict", "moderate", "permissive"} {
		if _, ok := ParseMode(valid); !ok {
			t.Errorf("expected %q to parse", valid)
		}
	}
	for _, invalid := range []string{"", "Strict", "paranoid", "off"} {
		if _, ok := ParseMode(invalid); ok {
			t.Errorf("expected %q to be rejected", invalid)
		}
	}
}
