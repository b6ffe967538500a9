package llm

import (
	"context"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
	"github.com/indrayudh19/Job-Mapper/internal/textutil"
)

const (
	defaultJobTitle = "Software Engineer"
	defaultCompany  = "Unknown Company"
	defaultLocation = "India"

	maxFallbackDescription = 200
)

// FallbackExtractor synthesizes records from locally available fields when
// no model credential is configured. It performs no network calls.
type FallbackExtractor struct{}

var _ ports.JobExtractor = (*FallbackExtractor)(nil)

// NewFallbackExtractor returns the deterministic strategy.
func NewFallbackExtractor() *FallbackExtractor {
	return &FallbackExtractor{}
}

// Extract emits one defaulted record per page with content. Pages without
// content are skipped entirely.
func (f *FallbackExtractor) Extract(_ context.Context, pages []domain.ScrapedPage) ([]domain.ExtractedJob, error) {
	jobs := make([]domain.ExtractedJob, 0, len(pages))
	for _, page := range pages {
		if page.Content == "" {
			continue
		}

		title := page.Title
		if title == "" {
			title = defaultJobTitle
		}

		description := textutil.Clip(page.Snippet, maxFallbackDescription)

		jobs = append(jobs, domain.ExtractedJob{
			JobTitle:    title,
			Company:     defaultCompany,
			Location:    defaultLocation,
			ApplyURL:    page.URL,
			Description: description,
		})
	}
	return jobs, nil
}
