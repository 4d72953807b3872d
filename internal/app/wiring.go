package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/99designs/gqlgen/graphql/playground"

	"github.com/heartmarshall/wordlookup/internal/adapter/events"
	"github.com/heartmarshall/wordlookup/internal/adapter/popularity"
	"github.com/heartmarshall/wordlookup/internal/adapter/provider/anthropic"
	"github.com/heartmarshall/wordlookup/internal/adapter/provider/openai"
	"github.com/heartmarshall/wordlookup/internal/adapter/wordlist"
	"github.com/heartmarshall/wordlookup/internal/config"
	"github.com/heartmarshall/wordlookup/internal/metrics"
	"github.com/heartmarshall/wordlookup/internal/provider"
	"github.com/heartmarshall/wordlookup/internal/service/generation"
	"github.com/heartmarshall/wordlookup/internal/service/lookup"
	"github.com/heartmarshall/wordlookup/internal/transport/graphql"
	"github.com/heartmarshall/wordlookup/internal/transport/graphql/resolver"
	"github.com/heartmarshall/wordlookup/internal/transport/middleware"
	"github.com/heartmarshall/wordlookup/internal/transport/rest"
)

// popularityTracker is satisfied by both popularity backends.
type popularityTracker interface {
	RecordSearch(ctx context.Context, word string) error
	TopN(ctx context.Context, n int) ([]string, error)
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
}

type textProvider interface {
	CompleteText(ctx context.Context, req provider.TextRequest) (string, error)
}

type speechProvider interface {
	Synthesize(ctx context.Context, req provider.SpeechRequest) (*provider.Audio, error)
}

// server is the fully wired HTTP handler plus the resources to release on
// shutdown, in reverse order of acquisition.
type server struct {
	handler http.Handler
	closers []func() error
}

func (s *server) close(logger *slog.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logger.Warn("close resource", slog.String("error", err.Error()))
		}
	}
}

// build loads the dictionary and wires every component. A dictionary that
// cannot be loaded is fatal.
func build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*server, error) {
	srv := &server{}

	store, err := wordlist.Load(cfg.Dictionary.Path)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	logger.Info("dictionary loaded",
		slog.String("path", cfg.Dictionary.Path),
		slog.Int("entries", store.Len()),
		slog.Int("words", store.DistinctWords()),
	)

	tracker, err := newTracker(ctx, cfg, srv, logger)
	if err != nil {
		srv.close(logger)
		return nil, err
	}

	lookupSvc := lookup.NewService(logger, store, tracker, cfg.Popularity)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.DictionaryEntries.Set(float64(store.Len()))
		lookupSvc.SetObserver(m)
	}

	if cfg.Events.Enabled {
		pub := events.NewKafkaPublisher(cfg.Events, logger)
		srv.closers = append(srv.closers, pub.Close)
		lookupSvc.SetEvents(pub)
		logger.Info("search events enabled", slog.String("topic", cfg.Events.Topic))
	}

	text, speech := newProviders(cfg.Generation, logger)
	generationSvc := generation.NewService(logger, text, speech, cfg.Generation)

	gqlServer := graphql.NewServer(
		resolver.NewResolver(lookupSvc, logger, cfg.GraphQL.AdminMutationsEnabled),
		logger,
		graphql.ServerOptions{Introspection: cfg.GraphQL.IntrospectionEnabled},
	)

	srv.handler = newRouter(routerDeps{
		cfg:      cfg,
		logger:   logger,
		graphql:  gqlServer,
		generate: rest.NewGenerateHandler(generationSvc, logger),
		health:   rest.NewHealthHandler(store, tracker, BuildVersion()),
		metrics:  m,
	})
	return srv, nil
}

func newTracker(ctx context.Context, cfg *config.Config, srv *server, logger *slog.Logger) (popularityTracker, error) {
	if cfg.Popularity.Backend != config.PopularityBackendRedis {
		logger.Info("popularity backend", slog.String("backend", config.PopularityBackendMemory))
		return popularity.NewTracker(), nil
	}

	rdb, err := popularity.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	srv.closers = append(srv.closers, rdb.Close)
	logger.Info("popularity backend",
		slog.String("backend", config.PopularityBackendRedis),
		slog.String("addr", cfg.Redis.Addr),
		slog.Bool("keep_on_start", cfg.Popularity.KeepOnStart),
	)

	tracker := popularity.NewRedisTracker(rdb, cfg.Popularity.RedisPrefix)
	if !cfg.Popularity.KeepOnStart {
		if err := tracker.Reset(ctx); err != nil {
			return nil, fmt.Errorf("clear popularity counters: %w", err)
		}
	}
	return tracker, nil
}

// newProviders builds the upstream clients. A provider without an API key
// stays nil and its endpoint answers 500; the lookup API keeps working.
func newProviders(cfg config.GenerationConfig, logger *slog.Logger) (textProvider, speechProvider) {
	var (
		oa     *openai.Provider
		speech speechProvider
		text   textProvider
	)

	if cfg.OpenAIAPIKey != "" {
		oa = openai.NewProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Timeout, logger)
		speech = oa
	} else {
		logger.Warn("speech generation disabled: OPENAI_API_KEY is not set")
	}

	switch {
	case cfg.TextAPIKey() == "":
		logger.Warn("text generation disabled: API key is not set", slog.String("provider", cfg.TextProvider))
	case cfg.TextProvider == config.TextProviderAnthropic:
		text = anthropic.NewProvider(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, cfg.Timeout, logger)
	default:
		text = oa
	}

	return text, speech
}

type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	graphql  http.Handler
	generate *rest.GenerateHandler
	health   *rest.HealthHandler
	metrics  *metrics.Metrics
}

func newRouter(d routerDeps) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/graphql", d.graphql)
	if d.cfg.GraphQL.PlaygroundEnabled {
		mux.Handle("GET /playground", playground.Handler("wordlookup", "/graphql"))
	}
	mux.HandleFunc("POST /generate-text", d.generate.Text)
	mux.HandleFunc("POST /generate-audio", d.generate.Audio)

	mux.HandleFunc("GET /live", d.health.Live)
	mux.HandleFunc("GET /ready", d.health.Ready)
	mux.HandleFunc("GET /health", d.health.Health)

	var observe middleware.Middleware
	if d.metrics != nil {
		mux.Handle("GET "+d.cfg.Metrics.Path, d.metrics.Handler())
		observe = middleware.Metrics(d.metrics)
	}

	return middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(d.logger),
		middleware.Recovery(d.logger),
		middleware.CORS(d.cfg.CORS),
		observe,
	)(mux)
}
