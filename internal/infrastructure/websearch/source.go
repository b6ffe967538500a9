package websearch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/indrayudh19/Job-Mapper/internal/config"
	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
	"github.com/indrayudh19/Job-Mapper/internal/search"
)

// defaultQueries covers the Indian job market when no query is supplied.
// Only the first maxDefaultQueries are used per run to respect rate limits.
var defaultQueries = []string{
	"software engineer jobs India hiring 2024",
	"developer jobs Bangalore hiring",
	"tech jobs Mumbai hiring now",
	"remote jobs India software",
	"startup jobs Delhi NCR",
}

const maxDefaultQueries = 2

// StrategySource implements the query source contract over registered
// search strategies. Failures of individual queries or sources are logged
// and skipped; the remaining sources still contribute hits.
type StrategySource struct {
	registry *search.Registry
	sources  []config.SourceConfig
	region   string
	logger   *slog.Logger
}

var _ ports.SearchSource = (*StrategySource)(nil)

// NewStrategySource wires the strategy registry with config-defined sources.
func NewStrategySource(reg *search.Registry, cfg config.SearchConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sources:  cfg.Sources,
		region:   cfg.Region,
		logger:   log,
	}
}

// Search runs every configured source for the query (or the bounded
// default query list) and deduplicates hits by URL, first occurrence wins.
func (s *StrategySource) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchHit, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("search registry is not configured")
	}

	queries := []string{query}
	if query == "" {
		queries = defaultQueries[:maxDefaultQueries]
	}

	var collected []domain.SearchHit
	for _, source := range s.sources {
		strategy, err := s.registry.Resolve(source.Strategy)
		if err != nil {
			s.warn("unknown strategy", "source", source.Name, "strategy", source.Strategy)
			continue
		}

		for _, q := range queries {
			req := search.Request{
				Query:      q,
				MaxResults: maxResults,
				Region:     s.region,
				SourceName: source.Name,
				Options:    source.Options,
			}

			hits, err := strategy.Search(ctx, req)
			if err != nil {
				s.warn("query failed", "source", source.Name, "query", q, "error", err)
				continue
			}
			collected = append(collected, hits...)
		}
	}

	return dedupeByURL(collected), nil
}

func dedupeByURL(hits []domain.SearchHit) []domain.SearchHit {
	seen := map[string]struct{}{}
	unique := make([]domain.SearchHit, 0, len(hits))
	for _, hit := range hits {
		if hit.URL == "" {
			continue
		}
		if _, ok := seen[hit.URL]; ok {
			continue
		}
		seen[hit.URL] = struct{}{}
		unique = append(unique, hit)
	}
	return unique
}

func (s *StrategySource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
