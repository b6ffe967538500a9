// Package boards provides search strategies backed by job board APIs
// rather than general web search.
package boards

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/search"
)

const defaultRemoteOKURL = "https://remoteok.com/api"

// RemoteOKStrategy pulls listings from the RemoteOK JSON API.
type RemoteOKStrategy struct {
	baseURL string
	client  *http.Client
}

var _ search.Strategy = (*RemoteOKStrategy)(nil)

// NewRemoteOKStrategy wires an HTTP client; baseURL defaults to the public API.
func NewRemoteOKStrategy(baseURL string, client *http.Client) *RemoteOKStrategy {
	if baseURL == "" {
		baseURL = defaultRemoteOKURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RemoteOKStrategy{baseURL: baseURL, client: client}
}

// Name identifies the strategy inside the registry.
func (r *RemoteOKStrategy) Name() string {
	return "remoteok"
}

type remoteOKListing struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	URL         string `json:"url"`
}

// Search fetches the listing feed. The first array element is API metadata
// and is skipped.
func (r *RemoteOKStrategy) Search(ctx context.Context, req search.Request) ([]domain.SearchHit, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remoteok returned %s", resp.Status)
	}

	var listings []remoteOKListing
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	if len(listings) <= 1 {
		return nil, nil
	}
	listings = listings[1:]

	limit := listingLimit(req.Options, req.MaxResults)
	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}

	hits := make([]domain.SearchHit, 0, len(listings))
	for _, listing := range listings {
		jobURL := listing.URL
		if jobURL == "" {
			jobURL = "https://remoteok.com/remote-jobs/" + listing.Slug
		}

		title := strings.TrimSpace(listing.Position)
		if company := strings.TrimSpace(listing.Company); company != "" {
			title = fmt.Sprintf("%s at %s", title, company)
		}

		hits = append(hits, domain.SearchHit{
			Title:       title,
			URL:         jobURL,
			Snippet:     strings.TrimSpace(listing.Description),
			SourceQuery: req.SourceName,
		})
	}

	return hits, nil
}

func listingLimit(options map[string]string, fallback int) int {
	if raw, ok := options["limit"]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
