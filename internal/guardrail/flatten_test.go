package guardrail

import (
	"encoding/json"
	"strings"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("bad test JSON: %v", err)
	}
	return v
}

func TestFlatten_StringLeaves(t *testing.T) {
	v := decode(t, `{"query": "what is rag", "file_id": "f1"}`)
	got := Flatten(v, DefaultFlattenDepth)
	if !strings.Contains(got, "what is rag") {
		t.Errorf("expected query text in blob, got %q", got)
	}
	if !strings.Contains(got, "f1") {
		t.Errorf("expected file_id in blob, got %q", got)
	}
}

func TestFlatten_NestedArraysAndObjects(t *testing.T) {
	v := decode(t, `{"a": [{"b": "deep"}, "shallow"], "c": {"d": {"e": "deeper"}}}`)
	got := Flatten(v, DefaultFlattenDepth)
	for _, want := range []string{"deep", "shallow", "deeper"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in blob, got %q", want, got)
		}
	}
}

func TestFlatten_DepthBound(t *testing.T) {
	v := decode(t, `{"a": {"b": {"c": {"d": {"e": {"f": "too deep"}}}}}}`)
	got := Flatten(v, DefaultFlattenDepth)
	if strings.Contains(got, "too deep") {
		t.Errorf("string beyond depth bound should be ignored, got %q", got)
	}
}

func TestFlatten_Scalars(t *testing.T) {
	v := decode(t, `{"k": 4, "flag": true, "none": null}`)
	got := Flatten(v, DefaultFlattenDepth)
	if !strings.Contains(got, "4") {
		t.Errorf("expected stringified number, got %q", got)
	}
	if !strings.Contains(got, "true") {
		t.Errorf("expected stringified bool, got %q", got)
	}
}

func TestFlatten_PlainString(t *testing.T) {
	if got := Flatten("just text", DefaultFlattenDepth); got != "just text" {
		t.Errorf("expected passthrough for plain string, got %q", got)
	}
}

func TestFlatten_LargeNumbersKeepDigits(t *testing.T) {
	v := decode(t, `{"card": 4111111111111111}`)
	got := Flatten(v, DefaultFlattenDepth)
	if got != "4111111111111111" {
		t.Errorf("large number must render digit for digit, got %q", got)
	}

	if got := Flatten(json.Number("4111111111111111"), DefaultFlattenDepth); got != "4111111111111111" {
		t.Errorf("json.Number must render verbatim, got %q", got)
	}
}

func TestFlatten_DeterministicKeyOrder(t *testing.T) {
	v := decode(t, `{"b": "second", "a": "first", "c": "third"}`)
	want := "first second third"
	for i := 0; i < 20; i++ {
		if got := Flatten(v, DefaultFlattenDepth); got != want {
			t.Fatalf("object keys must flatten in sorted order, got %q", got)
		}
	}
}
