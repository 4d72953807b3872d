package graphql

import (
	"context"
	"log/slog"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/heartmarshall/wordlookup/internal/transport/graphql/generated"
	"github.com/heartmarshall/wordlookup/pkg/ctxutil"
)

// queryCacheSize bounds the number of parsed and validated query documents
// kept between requests.
const queryCacheSize = 1000

// ServerOptions toggles the optional parts of the GraphQL server.
type ServerOptions struct {
	Introspection bool
}

// NewServer builds the gqlgen server for the generated schema. It accepts
// queries over GET and POST with a JSON body; mutations are rejected over GET.
func NewServer(root generated.ResolverRoot, logger *slog.Logger, opts ServerOptions) *handler.Server {
	srv := handler.New(generated.NewExecutableSchema(generated.Config{Resolvers: root}))

	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})

	srv.SetQueryCache(lru.New[*ast.QueryDocument](queryCacheSize))
	if opts.Introspection {
		srv.Use(extension.Introspection{})
	}

	srv.AroundOperations(func(ctx context.Context, next graphql.OperationHandler) graphql.ResponseHandler {
		if op := graphql.GetOperationContext(ctx).Operation; op != nil {
			name := op.Name
			if name == "" {
				name = string(op.Operation)
			}
			ctxutil.SetOperation(ctx, name)
		}
		return next(ctx)
	})

	srv.SetErrorPresenter(NewErrorPresenter(logger))
	return srv
}
