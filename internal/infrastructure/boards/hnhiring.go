package boards

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/search"
	"github.com/indrayudh19/Job-Mapper/internal/textutil"
)

const (
	defaultHNBaseURL = "https://hacker-news.firebaseio.com/v0"

	// December 2024 "Who's Hiring" thread; override per source via options.
	defaultHNThreadID = 42575537
)

var (
	hnURLExpr      = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	hnLocationExpr = regexp.MustCompile(`(?i)(?:Location|Based in|Office in)[:\s]+([^|\n]+)`)
)

// HNHiringStrategy walks a Hacker News "Who's Hiring" thread and turns
// top-level comments into search hits.
type HNHiringStrategy struct {
	baseURL string
	client  *http.Client
}

var _ search.Strategy = (*HNHiringStrategy)(nil)

// NewHNHiringStrategy wires an HTTP client against the HN Firebase API.
func NewHNHiringStrategy(baseURL string, client *http.Client) *HNHiringStrategy {
	if baseURL == "" {
		baseURL = defaultHNBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HNHiringStrategy{baseURL: baseURL, client: client}
}

// Name identifies the strategy inside the registry.
func (h *HNHiringStrategy) Name() string {
	return "hnhiring"
}

type hnItem struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	Kids    []int  `json:"kids"`
	Deleted bool   `json:"deleted"`
}

// Search fetches the thread, then each top-level comment, and extracts a
// company, location hint, and apply URL per comment. Unusable comments are
// skipped without failing the batch.
func (h *HNHiringStrategy) Search(ctx context.Context, req search.Request) ([]domain.SearchHit, error) {
	threadID := defaultHNThreadID
	if raw, ok := req.Options["threadId"]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			threadID = n
		}
	}

	thread, err := h.fetchItem(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("fetch thread %d: %w", threadID, err)
	}

	limit := listingLimit(req.Options, req.MaxResults)
	kids := thread.Kids
	if limit > 0 && len(kids) > limit {
		kids = kids[:limit]
	}

	var hits []domain.SearchHit
	for _, commentID := range kids {
		comment, err := h.fetchItem(ctx, commentID)
		if err != nil || comment.Deleted || comment.Text == "" {
			continue
		}

		clean := stripHTML(comment.Text)
		if clean == "" {
			continue
		}

		applyURL := extractApplyURL(comment.Text)
		if applyURL == "" {
			applyURL = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", commentID)
		}

		hits = append(hits, domain.SearchHit{
			Title:       extractCompany(clean) + " - " + extractLocation(clean),
			URL:         applyURL,
			Snippet:     textutil.Clip(clean, 300),
			SourceQuery: req.SourceName,
		})
	}

	return hits, nil
}

func (h *HNHiringStrategy) fetchItem(ctx context.Context, id int) (hnItem, error) {
	endpoint := fmt.Sprintf("%s/item/%d.json", strings.TrimRight(h.baseURL, "/"), id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return hnItem{}, err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return hnItem{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return hnItem{}, fmt.Errorf("hn returned %s", resp.Status)
	}

	var item hnItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return hnItem{}, err
	}
	return item, nil
}

func stripHTML(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(doc.Text())
}

// extractCompany takes the first line of a comment, which conventionally
// carries the company name before any "|" separated attributes.
func extractCompany(text string) string {
	firstLine := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	if idx := strings.IndexAny(firstLine, "|"); idx >= 0 {
		firstLine = strings.TrimSpace(firstLine[:idx])
	}
	if firstLine == "" {
		return "Unknown Company"
	}
	return textutil.Clip(firstLine, 100)
}

func extractLocation(text string) string {
	if match := hnLocationExpr.FindStringSubmatch(text); len(match) > 1 {
		return textutil.Clip(strings.TrimSpace(match[1]), 100)
	}
	for _, keyword := range []string{"Remote", "Bangalore", "Mumbai", "Delhi", "India", "Hybrid", "Onsite"} {
		if strings.Contains(strings.ToLower(text), strings.ToLower(keyword)) {
			return keyword
		}
	}
	return "Remote"
}

// extractApplyURL prefers links that look like application pages.
func extractApplyURL(rawHTML string) string {
	urls := hnURLExpr.FindAllString(rawHTML, -1)
	for _, u := range urls {
		lower := strings.ToLower(u)
		for _, keyword := range []string{"job", "career", "apply", "hire", "lever", "greenhouse"} {
			if strings.Contains(lower, keyword) {
				return u
			}
		}
	}
	if len(urls) > 0 {
		return urls[0]
	}
	return ""
}
