package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv      = "JOB_MAPPER_CONFIG"
	databasePathEnv    = "DATABASE_PATH"
	anthropicAPIKeyEnv = "ANTHROPIC_API_KEY"
	anthropicModelEnv  = "ANTHROPIC_MODEL"
	openAIAPIKeyEnv    = "OPENAI_API_KEY"
	pineconeAPIKeyEnv  = "PINECONE_API_KEY"
	pineconeHostEnv    = "PINECONE_HOST"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
)

// VectorProviderLocal stores embeddings in the SQLite database;
// VectorProviderPinecone uses the hosted Pinecone index.
const (
	VectorProviderLocal    = "local"
	VectorProviderPinecone = "pinecone"
)

// Config holds high-level settings required across the application.
// Absent credentials are a valid runtime state: the matching feature
// degrades (mock extraction, no embeddings) instead of failing startup.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Server        ServerConfig       `yaml:"server"`
	Search        SearchConfig       `yaml:"search"`
	Anthropic     AnthropicConfig    `yaml:"anthropic"`
	Embeddings    EmbeddingsConfig   `yaml:"embeddings"`
	Vector        VectorConfig       `yaml:"vector"`
	Geocoding     GeocodingConfig    `yaml:"geocoding"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// DatabaseConfig describes the SQLite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig describes the read API listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SearchConfig declares which search strategies run and how wide they cast.
type SearchConfig struct {
	MaxResults int            `yaml:"maxResults"`
	Region     string         `yaml:"region"`
	Sources    []SourceConfig `yaml:"sources"`
}

// SourceConfig binds a named source to a registered search strategy.
type SourceConfig struct {
	Name     string            `yaml:"name"`
	Strategy string            `yaml:"strategy"`
	Options  map[string]string `yaml:"options"`
}

// AnthropicConfig defines how to contact the Claude API for extraction.
type AnthropicConfig struct {
	APIKey    string `yaml:"apiKey"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"maxTokens"`
}

// EmbeddingsConfig points at an OpenAI-compatible embeddings endpoint.
type EmbeddingsConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// VectorConfig selects the vector index backend.
type VectorConfig struct {
	Provider string         `yaml:"provider"`
	Pinecone PineconeConfig `yaml:"pinecone"`
}

// PineconeConfig wires the hosted index. Host is the index-specific
// endpoint shown in the Pinecone console.
type PineconeConfig struct {
	APIKey string `yaml:"apiKey"`
	Host   string `yaml:"host"`
}

// GeocodingConfig tunes the Nominatim fallback lookup.
type GeocodingConfig struct {
	BaseURL     string        `yaml:"baseUrl"`
	UserAgent   string        `yaml:"userAgent"`
	Country     string        `yaml:"country"`
	MinInterval time.Duration `yaml:"minInterval"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send digest messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SchedulerConfig defines the recurring discovery cadence.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Search.Sources) == 0 {
		cfg.Search.Sources = defaultConfig().Search.Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(anthropicAPIKeyEnv); v != "" {
		c.Anthropic.APIKey = v
	}

	if v := os.Getenv(anthropicModelEnv); v != "" {
		c.Anthropic.Model = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.Embeddings.APIKey = v
	}

	if v := os.Getenv(pineconeAPIKeyEnv); v != "" {
		c.Vector.Pinecone.APIKey = v
	}

	if v := os.Getenv(pineconeHostEnv); v != "" {
		c.Vector.Pinecone.Host = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Server.Addr != "" {
		base.Server = override.Server
	}

	if override.Search.MaxResults > 0 {
		base.Search.MaxResults = override.Search.MaxResults
	}
	if override.Search.Region != "" {
		base.Search.Region = override.Search.Region
	}
	if len(override.Search.Sources) > 0 {
		base.Search.Sources = override.Search.Sources
	}

	if override.Anthropic.APIKey != "" {
		base.Anthropic.APIKey = override.Anthropic.APIKey
	}
	if override.Anthropic.Model != "" {
		base.Anthropic.Model = override.Anthropic.Model
	}
	if override.Anthropic.MaxTokens > 0 {
		base.Anthropic.MaxTokens = override.Anthropic.MaxTokens
	}

	if override.Embeddings.Endpoint != "" {
		base.Embeddings.Endpoint = override.Embeddings.Endpoint
	}
	if override.Embeddings.Model != "" {
		base.Embeddings.Model = override.Embeddings.Model
	}
	if override.Embeddings.APIKey != "" {
		base.Embeddings.APIKey = override.Embeddings.APIKey
	}

	if override.Vector.Provider != "" {
		base.Vector.Provider = override.Vector.Provider
	}
	if override.Vector.Pinecone.APIKey != "" {
		base.Vector.Pinecone.APIKey = override.Vector.Pinecone.APIKey
	}
	if override.Vector.Pinecone.Host != "" {
		base.Vector.Pinecone.Host = override.Vector.Pinecone.Host
	}

	if override.Geocoding.BaseURL != "" {
		base.Geocoding.BaseURL = override.Geocoding.BaseURL
	}
	if override.Geocoding.UserAgent != "" {
		base.Geocoding.UserAgent = override.Geocoding.UserAgent
	}
	if override.Geocoding.Country != "" {
		base.Geocoding.Country = override.Geocoding.Country
	}
	if override.Geocoding.MinInterval > 0 {
		base.Geocoding.MinInterval = override.Geocoding.MinInterval
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "jobs.db"},
		Server:   ServerConfig{Addr: ":8080"},
		Search: SearchConfig{
			MaxResults: 10,
			Region:     "in-en",
			Sources: []SourceConfig{
				{Name: "web", Strategy: "duckduckgo"},
			},
		},
		Anthropic: AnthropicConfig{
			Model:     "claude-3-5-haiku-latest",
			MaxTokens: 1024,
		},
		Embeddings: EmbeddingsConfig{
			Endpoint: "https://api.openai.com/v1",
			Model:    "text-embedding-3-small",
		},
		Vector: VectorConfig{Provider: VectorProviderLocal},
		Geocoding: GeocodingConfig{
			BaseURL:     "https://nominatim.openstreetmap.org",
			UserAgent:   "job-mapper/1.0",
			Country:     "India",
			MinInterval: time.Second,
		},
		Scheduler: SchedulerConfig{Interval: 6 * time.Hour},
		Logging:   LoggingConfig{Level: "info"},
	}
}
