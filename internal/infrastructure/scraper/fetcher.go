// Package scraper downloads candidate pages and reduces them to plain text
// suitable for extraction.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
	"github.com/indrayudh19/Job-Mapper/internal/textutil"
)

const (
	// maxPagesPerBatch caps request fan-out per pipeline run.
	maxPagesPerBatch = 10

	// maxContentLength bounds the plain text kept per page.
	maxContentLength = 5000

	requestTimeout = 15 * time.Second

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// nonContentSelectors are stripped before text extraction.
var nonContentSelectors = []string{"script", "style", "nav", "footer", "header"}

// Fetcher implements the content fetching stage. Each URL is independent:
// a failed fetch is logged and contributes nothing.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.PageFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; the default enforces the per-request timeout.
func NewFetcher(client *http.Client, log *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return &Fetcher{client: client, logger: log}
}

// Fetch processes at most the first maxPagesPerBatch hits and returns a
// cleaned page per successful fetch.
func (f *Fetcher) Fetch(ctx context.Context, hits []domain.SearchHit) ([]domain.ScrapedPage, error) {
	if len(hits) > maxPagesPerBatch {
		hits = hits[:maxPagesPerBatch]
	}

	pages := make([]domain.ScrapedPage, 0, len(hits))
	for _, hit := range hits {
		if hit.URL == "" {
			continue
		}

		content, err := f.scrape(ctx, hit.URL)
		if err != nil {
			f.warn("scrape failed", "url", hit.URL, "error", err)
			continue
		}
		if content == "" {
			continue
		}

		pages = append(pages, domain.ScrapedPage{
			URL:     hit.URL,
			Title:   hit.Title,
			Snippet: hit.Snippet,
			Content: content,
		})
	}

	return pages, nil
}

func (f *Fetcher) scrape(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	for _, selector := range nonContentSelectors {
		doc.Find(selector).Remove()
	}

	text := strings.Join(strings.Fields(doc.Text()), " ")
	return textutil.Clip(text, maxContentLength), nil
}

func (f *Fetcher) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
