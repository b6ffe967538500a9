package ports

import (
	"context"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
)

// SearchSource produces deduplicated candidate URLs for a query. An empty
// query means "use the built-in default queries". Never returns more than
// one hit per URL; never propagates individual query failures.
type SearchSource interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.SearchHit, error)
}

// PageFetcher downloads and cleans page content for a batch of hits.
// Hits whose fetch fails are silently dropped.
type PageFetcher interface {
	Fetch(ctx context.Context, hits []domain.SearchHit) ([]domain.ScrapedPage, error)
}

// JobExtractor turns page content into structured job records. Output count
// never exceeds input count; per-page failures drop the page.
type JobExtractor interface {
	Extract(ctx context.Context, pages []domain.ScrapedPage) ([]domain.ExtractedJob, error)
}

// CoordinateResolver maps location strings to coordinates. Resolve never
// fails: unknown or empty locations yield the default center. ResolveAll
// preserves input order and count.
type CoordinateResolver interface {
	Resolve(ctx context.Context, location string) (lat, lng float64)
	ResolveAll(ctx context.Context, jobs []domain.ExtractedJob) []domain.GeocodedJob
}

// JobIndexer durably stores a batch of geocoded jobs. The batch is
// all-or-nothing: records are returned only after a successful commit.
type JobIndexer interface {
	Index(ctx context.Context, jobs []domain.GeocodedJob) ([]domain.JobRecord, error)
}

// JobRepository reads persisted job rows back out of the relational store.
type JobRepository interface {
	ByIDs(ctx context.Context, ids []string) ([]domain.JobRecord, error)
	Count(ctx context.Context) (int, error)
}

// EmbeddingService generates a vector embedding for a piece of text.
// Optional: a nil service disables semantic indexing without affecting
// relational persistence.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex stores and queries job embeddings keyed by record ID.
// Metadata must carry at least the location so hosted backends can serve
// the location filter.
type VectorIndex interface {
	Upsert(ctx context.Context, id string, embedding []float32, metadata map[string]string) error
	Query(ctx context.Context, embedding []float32, topK int, location string) ([]domain.VectorMatch, error)
	Stats(ctx context.Context) (total int, err error)
}

// Notifier publishes a human-readable digest of a run's indexed jobs.
type Notifier interface {
	PublishDigest(ctx context.Context, records []domain.JobRecord) error
}

// Scheduler controls when recurring pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func()) error
	Stop(ctx context.Context) error
}
