package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/search"
)

const defaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

// DuckDuckGoStrategy queries the DuckDuckGo HTML endpoint, which needs no
// API key, and extracts result links from the returned markup.
type DuckDuckGoStrategy struct {
	baseURL string
	client  *http.Client
}

var _ search.Strategy = (*DuckDuckGoStrategy)(nil)

// NewDuckDuckGoStrategy wires an HTTP client; baseURL defaults to the
// public HTML endpoint.
func NewDuckDuckGoStrategy(baseURL string, client *http.Client) *DuckDuckGoStrategy {
	if baseURL == "" {
		baseURL = defaultDuckDuckGoURL
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &DuckDuckGoStrategy{baseURL: baseURL, client: client}
}

// Name identifies the strategy inside the registry.
func (d *DuckDuckGoStrategy) Name() string {
	return "duckduckgo"
}

// Search runs one query and returns up to req.MaxResults hits.
func (d *DuckDuckGoStrategy) Search(ctx context.Context, req search.Request) ([]domain.SearchHit, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("empty query")
	}

	doc, err := d.fetchDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	var hits []domain.SearchHit
	doc.Find("div.result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if req.MaxResults > 0 && len(hits) >= req.MaxResults {
			return false
		}

		link := sel.Find("a.result__a").First()
		href, _ := link.Attr("href")
		target := resolveRedirect(href)
		if target == "" {
			return true
		}

		hits = append(hits, domain.SearchHit{
			Title:       strings.TrimSpace(link.Text()),
			URL:         target,
			Snippet:     strings.TrimSpace(sel.Find("a.result__snippet").First().Text()),
			SourceQuery: req.Query,
		})
		return true
	})

	return hits, nil
}

func (d *DuckDuckGoStrategy) fetchDocument(ctx context.Context, req search.Request) (*goquery.Document, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	if req.Region != "" {
		params.Set("kl", req.Region)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", browserUserAgent)

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<encoded> indirection and
// normalizes protocol-relative links.
func resolveRedirect(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if parsed.Scheme == "http" || parsed.Scheme == "https" {
		return href
	}
	return ""
}

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
