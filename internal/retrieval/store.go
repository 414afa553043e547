package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SearchFilter restricts a similarity search to chunks of one ingested file.
type SearchFilter struct {
	FileID string
}

// Searcher is the similarity-search collaborator consumed by the chat and
// query handlers. The embedding is computed elsewhere; implementations only
// perform the index lookup.
type Searcher interface {
	Search(ctx context.Context, embedding []float32, k int, filter SearchFilter) ([]ScoredDocument, error)
}

// Store performs similarity search against a pgvector-backed chunk table.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Search returns up to k chunks ordered by ascending cosine distance to
// the query embedding, restricted to the given file.
func (s *Store) Search(ctx context.Context, embedding []float32, k int, filter SearchFilter) ([]ScoredDocument, error) {
	if k <= 0 {
		k = 4
	}

	rows, err := s.pool.Query(ctx, `
		SELECT page_content, metadata, embedding <=> $1::vector AS distance
		FROM document_chunks
		WHERE metadata->>'file_id' = $2
		ORDER BY distance
		LIMIT $3`,
		VectorLiteral(embedding), filter.FileID, k,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	var docs []ScoredDocument
	for rows.Next() {
		var (
			content  string
			metaJSON []byte
			distance float64
		)
		if err := rows.Scan(&content, &metaJSON, &distance); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}
		metadata := map[string]any{}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &metadata); err != nil {
				return nil, fmt.Errorf("decode chunk metadata: %w", err)
			}
		}
		docs = append(docs, ScoredDocument{
			Document: Document{PageContent: content, Metadata: metadata},
			Score:    distance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("similarity search rows: %w", err)
	}
	return docs, nil
}

// VectorLiteral renders an embedding as the pgvector input literal,
// e.g. "[0.1,0.2,0.3]".
func VectorLiteral(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
