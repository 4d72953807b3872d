package domain

import "time"

// WordEntry is a single dictionary record. Several entries may share the same
// Word (one per sense or part of speech).
type WordEntry struct {
	Word       string `json:"word"`
	WordType   string `json:"wordtype"`
	Definition string `json:"definition"`
}

// SearchEvent describes one completed lookup. It is emitted after the
// popularity counter has been updated.
type SearchEvent struct {
	Query      string    `json:"query"`
	Normalized string    `json:"normalized"`
	Results    int       `json:"results"`
	At         time.Time `json:"at"`
}
