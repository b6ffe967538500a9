// Package api exposes the semantic search read endpoints over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/usecase"
)

// Handler serves GET /search and GET /search/stats.
type Handler struct {
	search *usecase.SearchService
	logger *slog.Logger
}

// NewHandler wires the search service.
func NewHandler(search *usecase.SearchService, log *slog.Logger) *Handler {
	return &Handler{search: search, logger: log}
}

// Mux returns a ready-to-serve request multiplexer.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", h.handleSearch)
	mux.HandleFunc("GET /search/stats", h.handleStats)
	return mux
}

type searchResponse struct {
	Query   string                `json:"query"`
	Results []domain.SearchResult `json:"results"`
	Total   int                   `json:"total"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "missing query parameter q", http.StatusBadRequest)
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < usecase.MinSearchLimit || parsed > usecase.MaxSearchLimit {
			http.Error(w, "limit must be an integer between 1 and 50", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	results, err := h.search.Query(r.Context(), query, limit, r.URL.Query().Get("location"))
	if err != nil {
		h.logger.Error("search failed", "query", query, "error", err)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []domain.SearchResult{}
	}

	writeJSON(w, searchResponse{Query: query, Results: results, Total: len(results)})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	jobs, vectors, err := h.search.Stats(r.Context())
	if err != nil {
		h.logger.Error("stats failed", "error", err)
		http.Error(w, "stats failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]int{"total_jobs": jobs, "total_vectors": vectors})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
