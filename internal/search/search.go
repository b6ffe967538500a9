package search

import (
	"context"
	"fmt"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
)

// Request carries all parameters required to execute one strategy query.
type Request struct {
	Query      string
	MaxResults int
	Region     string
	SourceName string
	Options    map[string]string
}

// Strategy captures a single search implementation (web search, a job
// board API, etc.). Implementations return raw hits; deduplication and
// error isolation happen in the source layer above.
type Strategy interface {
	Name() string
	Search(ctx context.Context, req Request) ([]domain.SearchHit, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[strategy.Name()] = strategy
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if strategy, ok := r.strategies[name]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("search strategy %s is not registered", name)
}
