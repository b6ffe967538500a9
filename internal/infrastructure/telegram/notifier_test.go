package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
)

func sampleRecords() []domain.JobRecord {
	return []domain.JobRecord{
		{JobTitle: "Engineer", Company: "Acme", Location: "Pune", ApplyURL: "https://acme.example/1"},
		{JobTitle: "SRE", Company: "Globex", Location: "Remote", ApplyURL: "https://globex.example/2"},
	}
}

func TestPublishDigest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottok123/sendMessage" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostFormValue("chat_id"); got != "chat42" {
			t.Errorf("unexpected chat_id: %s", got)
		}
		if got := r.PostFormValue("parse_mode"); got != "Markdown" {
			t.Errorf("unexpected parse_mode: %s", got)
		}
		text := r.PostFormValue("text")
		if !strings.Contains(text, "Indexed 2 jobs") {
			t.Errorf("digest header missing: %q", text)
		}
		if !strings.Contains(text, "- Engineer at Acme (Pune)\nhttps://acme.example/1") {
			t.Errorf("job line missing: %q", text)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL, "tok123", "chat42", server.Client())
	if err := notifier.PublishDigest(context.Background(), sampleRecords()); err != nil {
		t.Fatalf("PublishDigest error: %v", err)
	}
}

func TestPublishDigestSkipsEmptyBatch(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL, "tok", "chat", server.Client())
	if err := notifier.PublishDigest(context.Background(), nil); err != nil {
		t.Fatalf("PublishDigest error: %v", err)
	}
	if requests.Load() != 0 {
		t.Fatalf("expected no requests for an empty batch, got %d", requests.Load())
	}
}

func TestPublishDigestSurfacesAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL, "tok", "chat", server.Client())
	if err := notifier.PublishDigest(context.Background(), sampleRecords()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestPublishDigestMisconfigured(t *testing.T) {
	t.Parallel()

	notifier := NewNotifier("", "", "", nil)
	if err := notifier.PublishDigest(context.Background(), sampleRecords()); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}
