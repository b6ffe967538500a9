// Package llm implements the field extraction stage: a Claude-backed
// strategy when a credential is configured and a deterministic fallback
// otherwise.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/indrayudh19/Job-Mapper/internal/config"
	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
	"github.com/indrayudh19/Job-Mapper/internal/textutil"
)

const (
	// maxPromptContent bounds how much page text is sent per request.
	maxPromptContent = 3000

	extractionTimeout = 30 * time.Second

	extractionSystemPrompt = `You are a job posting extractor. Extract job information from the provided text.
Focus on finding:
- Job title/position name
- Company name
- Location (city in India, or "Remote")
- Application URL if present
- Brief description (1-2 sentences)

Respond ONLY with a JSON object with keys job_title, company, location, apply_url, description.`
)

// ClaudeExtractor extracts structured jobs with the Anthropic API.
type ClaudeExtractor struct {
	client    anthropic.Client
	model     string
	maxTokens int
	logger    *slog.Logger
}

var _ ports.JobExtractor = (*ClaudeExtractor)(nil)

// NewClaudeExtractor builds the LLM-backed strategy from configuration.
func NewClaudeExtractor(cfg config.AnthropicConfig, log *slog.Logger) *ClaudeExtractor {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &ClaudeExtractor{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: maxTokens,
		logger:    log,
	}
}

// Extract requests one structured completion per page. A failed request or
// an unusable response drops that page only; the batch continues.
func (c *ClaudeExtractor) Extract(ctx context.Context, pages []domain.ScrapedPage) ([]domain.ExtractedJob, error) {
	jobs := make([]domain.ExtractedJob, 0, len(pages))
	for _, page := range pages {
		if page.Content == "" {
			continue
		}

		job, err := c.extractPage(ctx, page)
		if err != nil {
			c.warn("extraction failed", "url", page.URL, "error", err)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (c *ClaudeExtractor) extractPage(ctx context.Context, page domain.ScrapedPage) (domain.ExtractedJob, error) {
	content := textutil.Clip(page.Content, maxPromptContent)

	callCtx, cancel := context.WithTimeout(ctx, extractionTimeout)
	defer cancel()

	resp, err := c.client.Messages.New(callCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: extractionSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(
				"Extract job posting information from this text:\n\n" + content,
			)),
		},
	})
	if err != nil {
		return domain.ExtractedJob{}, fmt.Errorf("completion request: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return parseExtractedJob(sb.String(), page.URL)
}

// parseExtractedJob decodes the model's JSON reply, tolerating fenced code
// blocks, and enforces the record invariants.
func parseExtractedJob(raw, pageURL string) (domain.ExtractedJob, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var job domain.ExtractedJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return domain.ExtractedJob{}, fmt.Errorf("decode model reply: %w", err)
	}

	if job.JobTitle == "" || job.Company == "" {
		return domain.ExtractedJob{}, fmt.Errorf("model reply missing job_title or company")
	}
	if job.ApplyURL == "" {
		job.ApplyURL = pageURL
	}
	return job, nil
}

func (c *ClaudeExtractor) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
