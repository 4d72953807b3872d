// Package wordlist loads the static dictionary dataset and answers exact-word
// lookups against it. The store is immutable after Load and safe for
// concurrent use.
package wordlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

// Store holds the dictionary entries in dataset order plus an index from
// normalized word to entry positions.
type Store struct {
	entries []domain.WordEntry
	byWord  map[string][]int
}

// document is the wrapped dataset shape: {"entries": [...]}.
type document struct {
	Entries *[]domain.WordEntry `json:"entries"`
}

// Load reads and indexes the dataset at path. Both {"entries": [...]} and a
// bare top-level array are accepted. Any other shape, a missing file, or
// invalid JSON is reported as domain.ErrDataIntegrity.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wordlist: read %s: %w: %w", path, domain.ErrDataIntegrity, err)
	}

	entries, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("wordlist: decode %s: %w", path, err)
	}

	return New(entries), nil
}

// New builds a Store from already decoded entries. The slice is copied.
func New(entries []domain.WordEntry) *Store {
	s := &Store{
		entries: make([]domain.WordEntry, len(entries)),
		byWord:  make(map[string][]int),
	}
	copy(s.entries, entries)

	for i, e := range s.entries {
		if e.Word == "" {
			continue
		}
		key := domain.NormalizeWord(e.Word)
		s.byWord[key] = append(s.byWord[key], i)
	}
	return s
}

func decode(data []byte) ([]domain.WordEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty dataset", domain.ErrDataIntegrity)
	}

	switch trimmed[0] {
	case '[':
		var entries []domain.WordEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrDataIntegrity, err)
		}
		return entries, nil
	case '{':
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrDataIntegrity, err)
		}
		if doc.Entries == nil {
			return nil, fmt.Errorf("%w: \"entries\" array is missing", domain.ErrDataIntegrity)
		}
		return *doc.Entries, nil
	default:
		return nil, fmt.Errorf("%w: dataset is not an array of entries", domain.ErrDataIntegrity)
	}
}

// FindByWord returns every entry whose normalized word equals normalized,
// in dataset order. The caller owns the returned slice. A miss returns an
// empty, non-nil slice.
func (s *Store) FindByWord(normalized string) []domain.WordEntry {
	idx := s.byWord[normalized]
	result := make([]domain.WordEntry, 0, len(idx))
	for _, i := range idx {
		result = append(result, s.entries[i])
	}
	return result
}

// Entries returns a copy of all entries in dataset order.
func (s *Store) Entries() []domain.WordEntry {
	out := make([]domain.WordEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// DistinctWords returns the number of distinct normalized words.
func (s *Store) DistinctWords() int {
	return len(s.byWord)
}
