package resolver

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

// lookupService defines what resolver needs from the lookup service.
type lookupService interface {
	Search(ctx context.Context, word string) ([]domain.WordEntry, error)
	PopularSearches(ctx context.Context) ([]string, error)
	IncrementPopularSearch(ctx context.Context, word string) (string, error)
	ResetPopularity(ctx context.Context) error
}

// Resolver is the root resolver. It serves as dependency injection for the
// generated executable schema.
type Resolver struct {
	lookup         lookupService
	log            *slog.Logger
	adminMutations bool
}

// NewResolver creates a root resolver. adminMutations gates
// resetPopularSearches.
func NewResolver(lookup lookupService, logger *slog.Logger, adminMutations bool) *Resolver {
	return &Resolver{
		lookup:         lookup,
		log:            logger.With("transport", "graphql.resolver"),
		adminMutations: adminMutations,
	}
}
