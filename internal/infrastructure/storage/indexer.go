package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
)

const recordSource = "pipeline"

// Indexer implements the persistence stage. Each batch runs in one
// transaction: an insert failure rolls back every row, and records are
// returned only after a successful commit so callers never observe jobs
// that were not durably stored. Embedding failures are softer: they only
// clear the embedding reference for that job.
type Indexer struct {
	db       *sql.DB
	repo     *Repository
	embedder ports.EmbeddingService
	vectors  ports.VectorIndex
	logger   *slog.Logger
	now      func() time.Time
}

var _ ports.JobIndexer = (*Indexer)(nil)

// NewIndexer wires the repository with optional embedding collaborators.
// Either embedder or vectors being nil disables semantic indexing.
func NewIndexer(db *sql.DB, repo *Repository, embedder ports.EmbeddingService, vectors ports.VectorIndex, log *slog.Logger) *Indexer {
	return &Indexer{
		db:       db,
		repo:     repo,
		embedder: embedder,
		vectors:  vectors,
		logger:   log,
		now:      time.Now,
	}
}

// Index persists the batch and returns the committed records. Embeddings
// and vector upserts run before the transaction opens: the local vector
// index shares the SQLite file, and a write inside the batch transaction
// would contend with its own lock.
func (ix *Indexer) Index(ctx context.Context, jobs []domain.GeocodedJob) ([]domain.JobRecord, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	records := make([]domain.JobRecord, 0, len(jobs))
	for _, job := range jobs {
		record := domain.JobRecord{
			ID:        uuid.NewString(),
			JobTitle:  job.JobTitle,
			Company:   job.Company,
			Location:  job.Location,
			ApplyURL:  job.ApplyURL,
			Lat:       job.Lat,
			Lng:       job.Lng,
			Text:      job.Description,
			Source:    recordSource,
			ScrapedAt: ix.now().UTC(),
		}
		record.EmbeddingID = ix.upsertEmbedding(ctx, record)
		records = append(records, record)
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	for _, record := range records {
		if err := ix.repo.insertTx(ctx, tx, record); err != nil {
			return nil, fmt.Errorf("index batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}
	return records, nil
}

// upsertEmbedding stores a vector for the record and returns its reference,
// or empty when semantic indexing is disabled or fails.
func (ix *Indexer) upsertEmbedding(ctx context.Context, record domain.JobRecord) string {
	if ix.embedder == nil || ix.vectors == nil {
		return ""
	}

	text := fmt.Sprintf("%s at %s. Location: %s. %s",
		record.JobTitle, record.Company, record.Location, record.Text)

	embedding, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		ix.warn("embedding failed", "id", record.ID, "error", err)
		return ""
	}

	metadata := map[string]string{
		"job_title": record.JobTitle,
		"company":   record.Company,
		"location":  record.Location,
		"apply_url": record.ApplyURL,
	}
	if err := ix.vectors.Upsert(ctx, record.ID, embedding, metadata); err != nil {
		ix.warn("vector upsert failed", "id", record.ID, "error", err)
		return ""
	}
	return record.ID
}

func (ix *Indexer) warn(msg string, args ...any) {
	if ix.logger != nil {
		ix.logger.Warn(msg, args...)
	}
}
