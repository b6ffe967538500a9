package usecase

import (
	"context"
	"log/slog"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
)

// Stage names used in run error reporting.
const (
	StageSearch  = "Search"
	StageScrape  = "Scrape"
	StageExtract = "Extract"
	StageGeocode = "Geocode"
	StageIndex   = "Index"
)

// PipelineDeps wires all driven adapters into the discovery pipeline.
type PipelineDeps struct {
	Source     ports.SearchSource
	Fetcher    ports.PageFetcher
	Extractor  ports.JobExtractor
	Resolver   ports.CoordinateResolver
	Indexer    ports.JobIndexer
	Notifier   ports.Notifier
	MaxResults int
	Logger     *slog.Logger
}

// Pipeline orchestrates the five discovery stages in fixed order. Each
// stage is wrapped individually: a failing stage records its error on the
// run state and yields an empty collection, and the next stage still runs.
// Completion is favored over early exit.
type Pipeline struct {
	source     ports.SearchSource
	fetcher    ports.PageFetcher
	extractor  ports.JobExtractor
	resolver   ports.CoordinateResolver
	indexer    ports.JobIndexer
	notifier   ports.Notifier
	maxResults int
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	maxResults := deps.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	return &Pipeline{
		source:     deps.Source,
		fetcher:    deps.Fetcher,
		extractor:  deps.Extractor,
		resolver:   deps.Resolver,
		indexer:    deps.Indexer,
		notifier:   deps.Notifier,
		maxResults: maxResults,
		logger:     deps.Logger,
	}
}

// Run executes one end-to-end discovery run. An empty query selects the
// source's default queries. The returned state always carries the output
// of every stage plus the ordered list of stage errors; callers should
// inspect output counts, not only the error list, to see how much
// succeeded. Runs never dedup against prior runs: identical inputs produce
// new records with fresh identifiers.
func (p *Pipeline) Run(ctx context.Context, query string) *domain.RunState {
	state := domain.NewRunState(query)

	state.SearchResults = p.searchStage(ctx, state)
	state.ScrapedPages = p.scrapeStage(ctx, state)
	state.ExtractedJobs = p.extractStage(ctx, state)
	state.GeocodedJobs = p.geocodeStage(ctx, state)
	state.IndexedJobs = p.indexStage(ctx, state)

	p.info("pipeline complete",
		"query", query,
		"hits", len(state.SearchResults),
		"pages", len(state.ScrapedPages),
		"extracted", len(state.ExtractedJobs),
		"indexed", len(state.IndexedJobs),
		"errors", len(state.Errors))

	p.publishDigest(ctx, state)
	return state
}

func (p *Pipeline) searchStage(ctx context.Context, state *domain.RunState) []domain.SearchHit {
	if p.source == nil {
		return nil
	}
	hits, err := p.source.Search(ctx, state.Query, p.maxResults)
	if err != nil {
		state.RecordError(StageSearch, err)
		return nil
	}
	p.info("search stage done", "hits", len(hits))
	return hits
}

func (p *Pipeline) scrapeStage(ctx context.Context, state *domain.RunState) []domain.ScrapedPage {
	if p.fetcher == nil {
		return nil
	}
	pages, err := p.fetcher.Fetch(ctx, state.SearchResults)
	if err != nil {
		state.RecordError(StageScrape, err)
		return nil
	}
	p.info("scrape stage done", "pages", len(pages))
	return pages
}

func (p *Pipeline) extractStage(ctx context.Context, state *domain.RunState) []domain.ExtractedJob {
	if p.extractor == nil {
		return nil
	}
	jobs, err := p.extractor.Extract(ctx, state.ScrapedPages)
	if err != nil {
		state.RecordError(StageExtract, err)
		return nil
	}
	p.info("extract stage done", "jobs", len(jobs))
	return jobs
}

func (p *Pipeline) geocodeStage(ctx context.Context, state *domain.RunState) []domain.GeocodedJob {
	if p.resolver == nil {
		return nil
	}
	jobs := p.resolver.ResolveAll(ctx, state.ExtractedJobs)
	p.info("geocode stage done", "jobs", len(jobs))
	return jobs
}

func (p *Pipeline) indexStage(ctx context.Context, state *domain.RunState) []domain.JobRecord {
	if p.indexer == nil {
		return nil
	}
	records, err := p.indexer.Index(ctx, state.GeocodedJobs)
	if err != nil {
		state.RecordError(StageIndex, err)
		return nil
	}
	p.info("index stage done", "records", len(records))
	return records
}

func (p *Pipeline) publishDigest(ctx context.Context, state *domain.RunState) {
	if p.notifier == nil || len(state.IndexedJobs) == 0 {
		return
	}
	if err := p.notifier.PublishDigest(ctx, state.IndexedJobs); err != nil {
		p.warn("digest publish failed", "error", err)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
