// Package model holds the GraphQL object types of the schema.
package model

import (
	"github.com/heartmarshall/wordlookup/internal/domain"
)

// Definition is the GraphQL view of a dictionary entry.
type Definition struct {
	Word       string
	Wordtype   string
	Definition string
}

// NewDefinitions maps entries to GraphQL definitions, keeping order.
func NewDefinitions(entries []domain.WordEntry) []*Definition {
	out := make([]*Definition, len(entries))
	for i, e := range entries {
		out[i] = &Definition{Word: e.Word, Wordtype: e.WordType, Definition: e.Definition}
	}
	return out
}
