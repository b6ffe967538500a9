package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
)

// Limit bounds for the read API.
const (
	MinSearchLimit = 1
	MaxSearchLimit = 50
)

// SearchService answers semantic queries over indexed jobs: it embeds the
// query, asks the vector index for neighbours, and hydrates the matching
// rows from the relational store.
type SearchService struct {
	embedder ports.EmbeddingService
	vectors  ports.VectorIndex
	repo     ports.JobRepository
	logger   *slog.Logger
}

// NewSearchService wires the read-side collaborators. A nil embedder or
// vector index makes every query return zero results.
func NewSearchService(embedder ports.EmbeddingService, vectors ports.VectorIndex, repo ports.JobRepository, log *slog.Logger) *SearchService {
	return &SearchService{
		embedder: embedder,
		vectors:  vectors,
		repo:     repo,
		logger:   log,
	}
}

// Query runs one semantic search. limit is clamped to [1, 50]; location,
// when set, filters results by exact location match.
func (s *SearchService) Query(ctx context.Context, query string, limit int, location string) ([]domain.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if limit < MinSearchLimit {
		limit = MinSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	if s.embedder == nil || s.vectors == nil {
		return nil, nil
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.vectors.Query(ctx, embedding, limit, location)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(matches))
	scores := make(map[string]float64, len(matches))
	for _, match := range matches {
		ids = append(ids, match.ID)
		scores[match.ID] = match.Score
	}

	records, err := s.repo.ByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(records))
	for _, record := range records {
		results = append(results, domain.SearchResult{
			ID:       record.ID,
			Score:    scores[record.ID],
			JobTitle: record.JobTitle,
			Company:  record.Company,
			Location: record.Location,
			ApplyURL: record.ApplyURL,
			Lat:      record.Lat,
			Lng:      record.Lng,
			Text:     record.Text,
		})
	}
	return results, nil
}

// Stats reports index sizes for the stats endpoint.
func (s *SearchService) Stats(ctx context.Context) (jobs, vectors int, err error) {
	if s.repo != nil {
		if jobs, err = s.repo.Count(ctx); err != nil {
			return 0, 0, err
		}
	}
	if s.vectors != nil {
		if vectors, err = s.vectors.Stats(ctx); err != nil {
			return 0, 0, err
		}
	}
	return jobs, vectors, nil
}
