package resolver

// This file will be automatically regenerated based on the schema, any resolver
// implementations
// will be copied through when generating and any unknown code will be moved to the end.
// Code generated by github.com/99designs/gqlgen version v0.17.86

import (
	"context"
	"fmt"

	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/internal/transport/graphql/generated"
	"github.com/heartmarshall/wordlookup/internal/transport/graphql/model"
)

// IncrementPopularSearch is the resolver for the incrementPopularSearch field.
func (r *mutationResolver) IncrementPopularSearch(ctx context.Context, word string) (*string, error) {
	got, err := r.lookup.IncrementPopularSearch(ctx, word)
	if err != nil {
		return nil, err
	}
	return &got, nil
}

// ResetPopularSearches is the resolver for the resetPopularSearches field.
func (r *mutationResolver) ResetPopularSearches(ctx context.Context) (*bool, error) {
	if !r.adminMutations {
		return nil, fmt.Errorf("resetPopularSearches: %w", domain.ErrForbidden)
	}
	if err := r.lookup.ResetPopularity(ctx); err != nil {
		return nil, err
	}
	ok := true
	return &ok, nil
}

// Search is the resolver for the search field.
func (r *queryResolver) Search(ctx context.Context, word string) ([]*model.Definition, error) {
	entries, err := r.lookup.Search(ctx, word)
	if err != nil {
		return nil, err
	}
	return model.NewDefinitions(entries), nil
}

// GetPopularSearches is the resolver for the getPopularSearches field.
func (r *queryResolver) GetPopularSearches(ctx context.Context) ([]*string, error) {
	words, err := r.lookup.PopularSearches(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*string, len(words))
	for i := range words {
		out[i] = &words[i]
	}
	return out, nil
}

// Mutation returns generated.MutationResolver implementation.
func (r *Resolver) Mutation() generated.MutationResolver { return &mutationResolver{r} }

// Query returns generated.QueryResolver implementation.
func (r *Resolver) Query() generated.QueryResolver { return &queryResolver{r} }

type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
