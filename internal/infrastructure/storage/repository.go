// Package storage persists job records to SQLite and implements the
// transactional indexing stage.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS job_postings (
	id           TEXT PRIMARY KEY,
	job_title    TEXT NOT NULL,
	company      TEXT NOT NULL,
	location     TEXT NOT NULL,
	apply_url    TEXT NOT NULL,
	lat          REAL NOT NULL,
	lng          REAL NOT NULL,
	text         TEXT,
	source       TEXT,
	scraped_at   TIMESTAMP,
	embedding_id TEXT,
	created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_job_postings_location ON job_postings(location);
CREATE INDEX IF NOT EXISTS idx_job_postings_company ON job_postings(company);

CREATE TABLE IF NOT EXISTS job_vectors (
	id        TEXT PRIMARY KEY,
	embedding BLOB NOT NULL
);
`

// Open opens (and creates if necessary) the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return db, nil
}

// Repository reads and writes job_postings rows.
type Repository struct {
	db *sql.DB
}

var _ ports.JobRepository = (*Repository)(nil)

// NewRepository wires a sql.DB implementation.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// insertTx appends one row within the supplied transaction.
func (r *Repository) insertTx(ctx context.Context, tx *sql.Tx, record domain.JobRecord) error {
	query, args, err := sq.Insert("job_postings").
		Columns("id", "job_title", "company", "location", "apply_url",
			"lat", "lng", "text", "source", "scraped_at", "embedding_id").
		Values(record.ID, record.JobTitle, record.Company, record.Location, record.ApplyURL,
			record.Lat, record.Lng, nullable(record.Text), nullable(record.Source),
			record.ScrapedAt, nullable(record.EmbeddingID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert job %s: %w", record.ID, err)
	}
	return nil
}

// ByIDs loads records for the given identifiers, preserving the input order.
func (r *Repository) ByIDs(ctx context.Context, ids []string) ([]domain.JobRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sq.Select("id", "job_title", "company", "location", "apply_url",
		"lat", "lng", "text", "source", "embedding_id").
		From("job_postings").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]domain.JobRecord, len(ids))
	for rows.Next() {
		var record domain.JobRecord
		var text, source, embeddingID sql.NullString
		if err := rows.Scan(&record.ID, &record.JobTitle, &record.Company, &record.Location,
			&record.ApplyURL, &record.Lat, &record.Lng, &text, &source, &embeddingID); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		record.Text = text.String
		record.Source = source.String
		record.EmbeddingID = embeddingID.String
		byID[record.ID] = record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	records := make([]domain.JobRecord, 0, len(byID))
	for _, id := range ids {
		if record, ok := byID[id]; ok {
			records = append(records, record)
		}
	}
	return records, nil
}

// Count returns the number of persisted job rows.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM job_postings").Scan(&count); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return count, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
