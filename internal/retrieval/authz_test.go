package retrieval

import (
	"errors"
	"testing"
)

func doc(owner string) ScoredDocument {
	metadata := map[string]any{"file_id": "f1"}
	if owner != "" {
		metadata["user_id"] = owner
	}
	return ScoredDocument{
		Document: Document{PageContent: "chunk", Metadata: metadata},
		Score:    0.12,
	}
}

func TestNewAuthContext(t *testing.T) {
	tests := []struct {
		name          string
		entityID      string
		authenticated string
		wantRequested string
	}{
		{"entity override wins", "team-a", "u1", "team-a"},
		{"authenticated fallback", "", "u1", "u1"},
		{"public sentinel", "", "", PublicIdentity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ac := NewAuthContext(tt.entityID, tt.authenticated)
			if ac.RequestedIdentity != tt.wantRequested {
				t.Errorf("requested = %q, want %q", ac.RequestedIdentity, tt.wantRequested)
			}
		})
	}
}

func TestAuthorize_OwnerlessDocumentIsPublic(t *testing.T) {
	docs := []ScoredDocument{doc(""), doc("")}
	got, err := Authorize(docs, NewAuthContext("", ""))
	if err != nil {
		t.Fatalf("ownerless document should be accessible to anyone: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("entire set should be authorized, got %d", len(got))
	}
}

func TestAuthorize_OwnerMatchesRequested(t *testing.T) {
	docs := []ScoredDocument{doc("u1")}
	if _, err := Authorize(docs, NewAuthContext("", "u1")); err != nil {
		t.Errorf("owner matching authenticated identity should pass: %v", err)
	}
}

func TestAuthorize_PublicCallerDeniedOwnedDocument(t *testing.T) {
	docs := []ScoredDocument{doc("u1")}
	_, err := Authorize(docs, NewAuthContext("", ""))
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}

func TestAuthorize_EntityOverrideFallsBackToAuthenticated(t *testing.T) {
	docs := []ScoredDocument{doc("u1")}

	// Override names the wrong entity, but the caller really is u1.
	if _, err := Authorize(docs, NewAuthContext("team-b", "u1")); err != nil {
		t.Errorf("authenticated identity retry should pass: %v", err)
	}

	// Override wrong and caller is someone else.
	_, err := Authorize(docs, NewAuthContext("team-b", "u2"))
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}

	// Override wrong and no authenticated identity to retry.
	_, err = Authorize(docs, NewAuthContext("team-b", ""))
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied without fallback identity, got %v", err)
	}
}

func TestAuthorize_TopDocumentDecidesForWholeSet(t *testing.T) {
	// Ownership is assumed uniform: only the top document is inspected.
	docs := []ScoredDocument{doc(""), doc("u9")}
	got, err := Authorize(docs, NewAuthContext("", ""))
	if err != nil {
		t.Fatalf("ownerless top document should authorize the set: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected the full set, got %d", len(got))
	}
}

func TestAuthorize_EmptySetIsDenial(t *testing.T) {
	_, err := Authorize(nil, NewAuthContext("", "u1"))
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("empty authorized set is a denial, got %v", err)
	}
}

func TestVectorLiteral(t *testing.T) {
	got := VectorLiteral([]float32{0.5, -1, 2})
	if got != "[0.5,-1,2]" {
		t.Errorf("unexpected literal: %s", got)
	}
	if VectorLiteral(nil) != "[]" {
		t.Errorf("empty embedding should render as []")
	}
}

func TestDocumentOwner(t *testing.T) {
	d := Document{Metadata: map[string]any{"user_id": nil}}
	if _, ok := d.Owner(); ok {
		t.Error("nil user_id should mean no owner")
	}
	d = Document{Metadata: map[string]any{"user_id": "u1"}}
	owner, ok := d.Owner()
	if !ok || owner != "u1" {
		t.Errorf("expected owner u1, got %q (%v)", owner, ok)
	}
	d = Document{}
	if _, ok := d.Owner(); ok {
		t.Error("absent metadata should mean no owner")
	}
}
