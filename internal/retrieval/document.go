package retrieval

import "encoding/json"

// Document is one retrieved chunk. The retrieval store owns the content
// and metadata; the orchestrator only reads them.
type Document struct {
	PageContent string         `json:"page_content"`
	Metadata    map[string]any `json:"metadata"`
}

// Owner returns the user_id metadata entry, if the chunk has one.
// A chunk without an owner is accessible to anyone.
func (d Document) Owner() (string, bool) {
	v, ok := d.Metadata["user_id"]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// FileID returns the file_id metadata entry, if present.
func (d Document) FileID() (string, bool) {
	v, ok := d.Metadata["file_id"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// ScoredDocument pairs a document with its similarity score.
type ScoredDocument struct {
	Document Document
	Score    float64
}

// MarshalJSON emits the [document, score] pair shape the query endpoint
// exposes to clients.
func (s ScoredDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Document, s.Score})
}

// UnmarshalJSON accepts the same [document, score] pair shape.
func (s *ScoredDocument) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) > 0 {
		if err := json.Unmarshal(pair[0], &s.Document); err != nil {
			return err
		}
	}
	if len(pair) > 1 {
		if err := json.Unmarshal(pair[1], &s.Score); err != nil {
			return err
		}
	}
	return nil
}
