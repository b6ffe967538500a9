package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/indrayudh19/Job-Mapper/internal/api"
	"github.com/indrayudh19/Job-Mapper/internal/config"
	"github.com/indrayudh19/Job-Mapper/internal/infrastructure/boards"
	"github.com/indrayudh19/Job-Mapper/internal/infrastructure/geo"
	"github.com/indrayudh19/Job-Mapper/internal/infrastructure/llm"
	"github.com/indrayudh19/Job-Mapper/internal/infrastructure/scheduler"
	"github.com/indrayudh19/Job-Mapper/internal/infrastructure/scraper"
	"github.com/indrayudh19/Job-Mapper/internal/infrastructure/storage"
	"github.com/indrayudh19/Job-Mapper/internal/infrastructure/telegram"
	"github.com/indrayudh19/Job-Mapper/internal/infrastructure/vector"
	"github.com/indrayudh19/Job-Mapper/internal/infrastructure/websearch"
	"github.com/indrayudh19/Job-Mapper/internal/logging"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
	"github.com/indrayudh19/Job-Mapper/internal/search"
	"github.com/indrayudh19/Job-Mapper/internal/usecase"
)

// Application wires configuration into use cases. Every shared handle
// (database, vector index, HTTP clients) is constructed here once and
// injected downward; components hold no implicit global state.
type Application struct {
	cfg      config.Config
	db       *sql.DB
	pipeline *usecase.Pipeline
	searcher *usecase.SearchService
	logger   *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	registry := search.NewRegistry()
	registry.Register(websearch.NewDuckDuckGoStrategy("", nil))
	registry.Register(boards.NewRemoteOKStrategy("", nil))
	registry.Register(boards.NewHNHiringStrategy("", nil))

	source := websearch.NewStrategySource(registry, cfg.Search, baseLogger.With("component", "source"))
	fetcher := scraper.NewFetcher(nil, baseLogger.With("component", "scraper"))
	extractor := llm.NewExtractor(cfg.Anthropic, baseLogger.With("component", "extractor"))

	geocoder := geo.NewNominatim(cfg.Geocoding.BaseURL, cfg.Geocoding.UserAgent,
		cfg.Geocoding.Country, cfg.Geocoding.MinInterval, nil)
	resolver := geo.NewResolver(geocoder, baseLogger.With("component", "geocoder"))

	repo := storage.NewRepository(db)
	embedder, vectors := buildVectorStack(cfg, db, baseLogger)
	indexer := storage.NewIndexer(db, repo, embedder, vectors, baseLogger.With("component", "indexer"))

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier("", cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID, nil)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Fetcher:    fetcher,
		Extractor:  extractor,
		Resolver:   resolver,
		Indexer:    indexer,
		Notifier:   notifier,
		MaxResults: cfg.Search.MaxResults,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	searcher := usecase.NewSearchService(embedder, vectors, repo, baseLogger.With("component", "search"))

	return &Application{
		cfg:      cfg,
		db:       db,
		pipeline: pipeline,
		searcher: searcher,
		logger:   baseLogger,
	}, nil
}

// buildVectorStack selects the vector backend per configuration. Missing
// credentials disable semantic indexing rather than failing startup.
func buildVectorStack(cfg config.Config, db *sql.DB, log *slog.Logger) (ports.EmbeddingService, ports.VectorIndex) {
	if cfg.Embeddings.APIKey == "" {
		log.Warn("embeddings api key not configured, semantic indexing disabled")
		return nil, nil
	}
	embedder := vector.NewOpenAIEmbedder(cfg.Embeddings)

	switch cfg.Vector.Provider {
	case config.VectorProviderPinecone:
		if cfg.Vector.Pinecone.APIKey == "" || cfg.Vector.Pinecone.Host == "" {
			log.Warn("pinecone not configured, falling back to local vector index")
			return embedder, vector.NewLocalIndex(db)
		}
		return embedder, vector.NewPineconeIndex(cfg.Vector.Pinecone)
	default:
		return embedder, vector.NewLocalIndex(db)
	}
}

// RunOnce executes a single pipeline run for the query (empty selects the
// default queries) and returns its first error, if any.
func (a *Application) RunOnce(ctx context.Context, query string) error {
	state := a.pipeline.Run(ctx, query)
	return state.FirstError()
}

// RunScheduled executes pipeline runs on the configured interval until the
// context is cancelled.
func (a *Application) RunScheduled(ctx context.Context) error {
	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval)
	sched := usecase.NewScheduler(driver, a.pipeline)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return sched.Stop(context.Background())
}

// Serve runs the read API until the context is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	handler := api.NewHandler(a.searcher, a.logger.With("component", "api"))
	server := &http.Server{Addr: a.cfg.Server.Addr, Handler: handler.Mux()}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	a.logger.Info("read api listening", "addr", a.cfg.Server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases the database handle.
func (a *Application) Close() error {
	return a.db.Close()
}
