package domain

import (
	"fmt"
	"time"
)

// SearchHit is a single candidate URL produced by a search strategy.
// URL is the dedup key: each URL appears at most once per pipeline run.
type SearchHit struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Snippet     string `json:"snippet"`
	SourceQuery string `json:"source_query"`
}

// ScrapedPage is the cleaned plain-text content of a fetched hit.
type ScrapedPage struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Content string `json:"content"`
}

// ExtractedJob is the structured record pulled out of a page's content.
// JobTitle and Company are always non-empty; ApplyURL falls back to the
// originating page's URL when the extractor leaves it blank.
type ExtractedJob struct {
	JobTitle    string `json:"job_title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	ApplyURL    string `json:"apply_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// GeocodedJob is an ExtractedJob with coordinates merged in. Lat and Lng
// are always populated; unresolvable locations get the default center.
type GeocodedJob struct {
	ExtractedJob
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// JobRecord is the durable representation persisted at the end of a run.
type JobRecord struct {
	ID          string    `json:"id"`
	JobTitle    string    `json:"job_title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	ApplyURL    string    `json:"apply_url"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Text        string    `json:"text,omitempty"`
	Source      string    `json:"source,omitempty"`
	ScrapedAt   time.Time `json:"scraped_at,omitempty"`
	EmbeddingID string    `json:"embedding_id,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// StageError pairs a pipeline stage name with the error it produced.
type StageError struct {
	Stage string
	Err   error
}

func (e StageError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Stage, e.Err)
}

// RunState is the accumulator threaded through one pipeline run. It is
// owned by the orchestrator and never shared across concurrent runs.
type RunState struct {
	Query         string
	SearchResults []SearchHit
	ScrapedPages  []ScrapedPage
	ExtractedJobs []ExtractedJob
	GeocodedJobs  []GeocodedJob
	IndexedJobs   []JobRecord
	Errors        []StageError
}

// NewRunState seeds a run for the given query (empty means default queries).
func NewRunState(query string) *RunState {
	return &RunState{Query: query}
}

// RecordError appends a stage failure without aborting the run.
func (s *RunState) RecordError(stage string, err error) {
	s.Errors = append(s.Errors, StageError{Stage: stage, Err: err})
}

// HasErrors reports whether any stage failed during the run.
func (s *RunState) HasErrors() bool {
	return len(s.Errors) > 0
}

// FirstError returns the earliest stage failure, or nil for a clean run.
func (s *RunState) FirstError() error {
	if len(s.Errors) == 0 {
		return nil
	}
	return s.Errors[0]
}

// VectorMatch is one similarity hit returned by a vector index query.
type VectorMatch struct {
	ID    string
	Score float64
}

// SearchResult is one ranked row of the semantic search read API.
type SearchResult struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	JobTitle string  `json:"job_title"`
	Company  string  `json:"company"`
	Location string  `json:"location"`
	ApplyURL string  `json:"apply_url"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Text     string  `json:"text,omitempty"`
}
