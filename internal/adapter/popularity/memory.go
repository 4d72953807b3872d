// Package popularity counts searches per normalized word and ranks the most
// searched words. Ties in count are broken by first-seen order.
package popularity

import (
	"context"
	"slices"
	"sync"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

type counter struct {
	count int64
	seq   uint64
}

// Tracker is the in-process popularity counter. A single mutex guards the
// map so that every RecordSearch is one atomic increment.
type Tracker struct {
	mu      sync.Mutex
	counts  map[string]*counter
	nextSeq uint64
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{counts: make(map[string]*counter)}
}

// RecordSearch increments the count of the normalized word, starting at 1.
// Empty words are ignored.
func (t *Tracker) RecordSearch(_ context.Context, word string) error {
	if word == "" {
		return nil
	}
	key := domain.NormalizeWord(word)

	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.counts[key]
	if !ok {
		c = &counter{seq: t.nextSeq}
		t.nextSeq++
		t.counts[key] = c
	}
	c.count++
	return nil
}

// TopN returns up to n words ordered by count descending, then by the order
// in which they were first recorded.
func (t *Tracker) TopN(_ context.Context, n int) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}

	t.mu.Lock()
	ranked := make([]rankedWord, 0, len(t.counts))
	for w, c := range t.counts {
		ranked = append(ranked, rankedWord{word: w, count: c.count, seq: c.seq})
	}
	t.mu.Unlock()

	return topWords(ranked, n), nil
}

// Count returns the current count for word (normalized).
func (t *Tracker) Count(_ context.Context, word string) (int64, error) {
	key := domain.NormalizeWord(word)

	t.mu.Lock()
	defer t.mu.Unlock()

	if c, ok := t.counts[key]; ok {
		return c.count, nil
	}
	return 0, nil
}

// Reset drops every counter.
func (t *Tracker) Reset(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts = make(map[string]*counter)
	t.nextSeq = 0
	return nil
}

// Ping always succeeds for the in-process tracker.
func (t *Tracker) Ping(_ context.Context) error {
	return nil
}

type rankedWord struct {
	word  string
	count int64
	seq   uint64
}

func topWords(ranked []rankedWord, n int) []string {
	slices.SortStableFunc(ranked, func(a, b rankedWord) int {
		if a.count != b.count {
			if a.count > b.count {
				return -1
			}
			return 1
		}
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	words := make([]string, len(ranked))
	for i, r := range ranked {
		words[i] = r.word
	}
	return words
}
