package vector

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
)

// LocalIndex stores embeddings as float32 BLOBs in the SQLite database and
// ranks queries by brute-force cosine similarity. It keeps the whole system
// runnable without a hosted vector service.
type LocalIndex struct {
	db *sql.DB
}

var _ ports.VectorIndex = (*LocalIndex)(nil)

// NewLocalIndex wires the shared database handle.
func NewLocalIndex(db *sql.DB) *LocalIndex {
	return &LocalIndex{db: db}
}

// Upsert stores or replaces the embedding for a record. Metadata is not
// stored: location filtering joins the job_postings row instead.
func (l *LocalIndex) Upsert(ctx context.Context, id string, embedding []float32, _ map[string]string) error {
	if len(embedding) == 0 {
		return fmt.Errorf("empty embedding for %s", id)
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO job_vectors (id, embedding) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET embedding = excluded.embedding`,
		id, float32SliceToBytes(embedding))
	if err != nil {
		return fmt.Errorf("upsert vector %s: %w", id, err)
	}
	return nil
}

// Query scans all stored vectors and returns the topK most similar. When a
// location filter is set, only vectors whose job row matches it compete.
func (l *LocalIndex) Query(ctx context.Context, embedding []float32, topK int, location string) ([]domain.VectorMatch, error) {
	query := `SELECT v.id, v.embedding FROM job_vectors v`
	var args []any
	if location != "" {
		query += ` JOIN job_postings p ON p.id = v.id WHERE p.location = ?`
		args = append(args, location)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}
	defer rows.Close()

	var matches []domain.VectorMatch
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("scan vector: %w", err)
		}

		stored := bytesToFloat32Slice(blob)
		if len(stored) != len(embedding) {
			continue
		}
		matches = append(matches, domain.VectorMatch{
			ID:    id,
			Score: cosineSimilarity(embedding, stored),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Stats returns the number of stored vectors.
func (l *LocalIndex) Stats(ctx context.Context) (int, error) {
	var count int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM job_vectors").Scan(&count); err != nil {
		return 0, fmt.Errorf("count vectors: %w", err)
	}
	return count, nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
