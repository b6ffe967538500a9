package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/indrayudh19/Job-Mapper/internal/search"
)

const resultsPage = `
<html><body>
  <div class="result">
    <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fjobs.example.com%2Fswe&amp;rut=abc">Software Engineer - Example</a>
    <a class="result__snippet" href="#">Hiring software engineers in Bangalore.</a>
  </div>
  <div class="result">
    <a class="result__a" href="https://careers.example.org/dev">Developer Role</a>
    <a class="result__snippet" href="#">Remote developer position.</a>
  </div>
  <div class="result">
    <a class="result__a" href="javascript:void(0)">Broken</a>
  </div>
</body></html>`

func TestDuckDuckGoSearch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "software engineer jobs" {
			t.Errorf("unexpected query: %s", got)
		}
		if got := r.URL.Query().Get("kl"); got != "in-en" {
			t.Errorf("unexpected region: %s", got)
		}
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	strategy := NewDuckDuckGoStrategy(server.URL, server.Client())

	hits, err := strategy.Search(context.Background(), search.Request{
		Query:      "software engineer jobs",
		MaxResults: 10,
		Region:     "in-en",
	})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}

	if hits[0].URL != "https://jobs.example.com/swe" {
		t.Fatalf("redirect not unwrapped: %s", hits[0].URL)
	}
	if hits[0].Title != "Software Engineer - Example" {
		t.Fatalf("unexpected title: %s", hits[0].Title)
	}
	if hits[0].SourceQuery != "software engineer jobs" {
		t.Fatalf("unexpected source query: %s", hits[0].SourceQuery)
	}
	if hits[1].URL != "https://careers.example.org/dev" {
		t.Fatalf("unexpected second url: %s", hits[1].URL)
	}
}

func TestDuckDuckGoSearchRespectsMaxResults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	strategy := NewDuckDuckGoStrategy(server.URL, server.Client())

	hits, err := strategy.Search(context.Background(), search.Request{Query: "jobs", MaxResults: 1})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
}

func TestResolveRedirect(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"//duckduckgo.com/l/?uddg=https%3A%2F%2Fa.com%2Fjob": "https://a.com/job",
		"https://b.com/careers":                              "https://b.com/careers",
		"javascript:void(0)":                                 "",
		"":                                                   "",
	}

	for input, want := range cases {
		if got := resolveRedirect(input); got != want {
			t.Fatalf("resolveRedirect(%q) = %q, want %q", input, got, want)
		}
	}
}
