package boards

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/indrayudh19/Job-Mapper/internal/search"
)

const remoteOKFeed = `[
  {"legal":"API terms"},
  {"position":"Backend Engineer","company":"Acme","location":"Remote","description":"Go services","slug":"backend-acme","url":"https://remoteok.com/remote-jobs/1"},
  {"position":"SRE","company":"Globex","location":"Remote","description":"Keep it up","slug":"sre-globex","url":""},
  {"position":"Frontend Dev","company":"Initech","location":"Remote","description":"React","slug":"fe-initech","url":"https://remoteok.com/remote-jobs/3"}
]`

func TestRemoteOKSearchSkipsMetadataElement(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(remoteOKFeed))
	}))
	defer server.Close()

	strategy := NewRemoteOKStrategy(server.URL, server.Client())
	hits, err := strategy.Search(context.Background(), search.Request{MaxResults: 10, SourceName: "remoteok"})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	if hits[0].Title != "Backend Engineer at Acme" {
		t.Fatalf("unexpected title: %s", hits[0].Title)
	}
	if hits[1].URL != "https://remoteok.com/remote-jobs/sre-globex" {
		t.Fatalf("slug url not built: %s", hits[1].URL)
	}
	if hits[0].SourceQuery != "remoteok" {
		t.Fatalf("unexpected source query: %s", hits[0].SourceQuery)
	}
}

func TestRemoteOKSearchHonorsLimitOption(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(remoteOKFeed))
	}))
	defer server.Close()

	strategy := NewRemoteOKStrategy(server.URL, server.Client())
	hits, err := strategy.Search(context.Background(), search.Request{
		MaxResults: 10,
		Options:    map[string]string{"limit": "1"},
	})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
}

func TestRemoteOKSearchEmptyFeed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"legal":"API terms"}]`))
	}))
	defer server.Close()

	strategy := NewRemoteOKStrategy(server.URL, server.Client())
	hits, err := strategy.Search(context.Background(), search.Request{MaxResults: 10})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %d", len(hits))
	}
}

func TestHNHiringSearch(t *testing.T) {
	t.Parallel()

	comment := `Acme Robotics | Senior Go Engineer<p>Location: Bangalore, India<p>Apply at <a href="https://acme.example/careers">https://acme.example/careers</a>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/item/42575537.json":
			_, _ = w.Write([]byte(`{"id":42575537,"kids":[101,102,103]}`))
		case "/item/101.json":
			fmt.Fprintf(w, `{"id":101,"text":%q}`, comment)
		case "/item/102.json":
			_, _ = w.Write([]byte(`{"id":102,"deleted":true}`))
		case "/item/103.json":
			_, _ = w.Write([]byte(`{"id":103,"text":"Globex | Dev | Remote"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	strategy := NewHNHiringStrategy(server.URL, server.Client())
	hits, err := strategy.Search(context.Background(), search.Request{MaxResults: 10, SourceName: "hnhiring"})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if !strings.HasPrefix(hits[0].Title, "Acme Robotics") {
		t.Fatalf("company not extracted: %s", hits[0].Title)
	}
	if hits[0].URL != "https://acme.example/careers" {
		t.Fatalf("apply url not extracted: %s", hits[0].URL)
	}
	if hits[1].URL != "https://news.ycombinator.com/item?id=103" {
		t.Fatalf("comment permalink fallback missing: %s", hits[1].URL)
	}
}

func TestHNHiringThreadOverride(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/item/777.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":777,"kids":[]}`))
	}))
	defer server.Close()

	strategy := NewHNHiringStrategy(server.URL, server.Client())
	hits, err := strategy.Search(context.Background(), search.Request{
		Options: map[string]string{"threadId": "777"},
	})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %d", len(hits))
	}
}

func TestExtractLocation(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Acme | Location: Pune, India | Full time": "Pune, India",
		"Globex hiring devs, fully Remote team":    "Remote",
		"No hints here at all":                     "Remote",
	}
	for input, want := range cases {
		if got := extractLocation(input); got != want {
			t.Fatalf("extractLocation(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestExtractApplyURLPrefersApplicationLinks(t *testing.T) {
	t.Parallel()

	raw := `See https://acme.example/blog and https://jobs.acme.example/apply/123`
	if got := extractApplyURL(raw); got != "https://jobs.acme.example/apply/123" {
		t.Fatalf("unexpected url: %s", got)
	}

	raw = `Only https://acme.example/about here`
	if got := extractApplyURL(raw); got != "https://acme.example/about" {
		t.Fatalf("unexpected fallback url: %s", got)
	}
}
