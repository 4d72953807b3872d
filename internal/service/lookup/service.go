package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/wordlookup/internal/config"
	"github.com/heartmarshall/wordlookup/internal/domain"
)

const defaultTopN = 10

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type dictionaryStore interface {
	FindByWord(normalized string) []domain.WordEntry
}

type popularityTracker interface {
	RecordSearch(ctx context.Context, word string) error
	TopN(ctx context.Context, n int) ([]string, error)
	Reset(ctx context.Context) error
}

type searchEventPublisher interface {
	PublishSearch(ctx context.Context, ev domain.SearchEvent) error
}

type searchObserver interface {
	ObserveSearch(results int)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service answers dictionary lookups and maintains the popular-searches
// leaderboard.
type Service struct {
	log        *slog.Logger
	dictionary dictionaryStore
	popularity popularityTracker
	events     searchEventPublisher
	observer   searchObserver
	cfg        config.PopularityConfig
	now        func() time.Time
}

// NewService creates a new lookup service.
func NewService(
	logger *slog.Logger,
	dictionary dictionaryStore,
	popularity popularityTracker,
	cfg config.PopularityConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "lookup"),
		dictionary: dictionary,
		popularity: popularity,
		cfg:        cfg,
		now:        time.Now,
	}
}

// SetEvents injects the optional search-event publisher.
func (s *Service) SetEvents(p searchEventPublisher) {
	s.events = p
}

// SetObserver injects the optional search metrics observer.
func (s *Service) SetObserver(o searchObserver) {
	s.observer = o
}

// ---------------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------------

// Search records the query in the leaderboard and returns every entry whose
// word matches it case-insensitively, in dataset order. Only the empty string
// is skipped; a whitespace-only query is counted and matches nothing.
func (s *Service) Search(ctx context.Context, word string) ([]domain.WordEntry, error) {
	if word == "" {
		return []domain.WordEntry{}, nil
	}
	normalized := domain.NormalizeWord(word)

	if err := s.popularity.RecordSearch(ctx, word); err != nil {
		return nil, fmt.Errorf("record search %q: %w", normalized, err)
	}

	results := s.dictionary.FindByWord(normalized)

	if s.observer != nil {
		s.observer.ObserveSearch(len(results))
	}
	s.publish(ctx, domain.SearchEvent{
		Query:      word,
		Normalized: normalized,
		Results:    len(results),
		At:         s.now().UTC(),
	})

	s.log.DebugContext(ctx, "search", slog.String("word", normalized), slog.Int("results", len(results)))
	return results, nil
}

func (s *Service) publish(ctx context.Context, ev domain.SearchEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishSearch(ctx, ev); err != nil {
		s.log.WarnContext(ctx, "publish search event failed",
			slog.String("word", ev.Normalized),
			slog.String("error", err.Error()),
		)
	}
}

// ---------------------------------------------------------------------------
// Popular searches
// ---------------------------------------------------------------------------

// PopularSearches returns the most searched words, most frequent first.
func (s *Service) PopularSearches(ctx context.Context) ([]string, error) {
	n := s.cfg.TopN
	if n <= 0 {
		n = defaultTopN
	}

	words, err := s.popularity.TopN(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("top searches: %w", err)
	}
	return words, nil
}

// IncrementPopularSearch adds one to the count of word without a lookup and
// echoes the word back as given.
func (s *Service) IncrementPopularSearch(ctx context.Context, word string) (string, error) {
	if word == "" {
		return "", domain.NewValidationError("word", "required")
	}

	if err := s.popularity.RecordSearch(ctx, word); err != nil {
		return "", fmt.Errorf("increment %q: %w", word, err)
	}
	return word, nil
}

// ResetPopularity clears every counter.
func (s *Service) ResetPopularity(ctx context.Context) error {
	if err := s.popularity.Reset(ctx); err != nil {
		return fmt.Errorf("reset popularity: %w", err)
	}
	s.log.InfoContext(ctx, "popularity counters reset")
	return nil
}
