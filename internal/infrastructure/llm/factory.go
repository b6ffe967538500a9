package llm

import (
	"log/slog"

	"github.com/indrayudh19/Job-Mapper/internal/config"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
)

// NewExtractor selects the strategy once at construction time: the Claude
// strategy when a credential is configured, the deterministic fallback
// otherwise. Callers stay strategy-agnostic.
func NewExtractor(cfg config.AnthropicConfig, log *slog.Logger) ports.JobExtractor {
	if cfg.APIKey == "" {
		if log != nil {
			log.Warn("anthropic api key not configured, using fallback extraction")
		}
		return NewFallbackExtractor()
	}
	return NewClaudeExtractor(cfg, log)
}
