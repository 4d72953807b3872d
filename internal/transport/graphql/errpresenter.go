package graphql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/pkg/ctxutil"
)

// Error codes reported in the "code" extension.
const (
	CodeValidation = "VALIDATION"
	CodeForbidden  = "FORBIDDEN"
	CodeInternal   = "INTERNAL"
)

// errIntrospectionDisabled is the message of the generated executor when
// __schema or __type is queried with introspection turned off.
const errIntrospectionDisabled = "introspection disabled"

// NewErrorPresenter returns a gqlgen error presenter that maps domain errors
// to GraphQL error codes.
func NewErrorPresenter(log *slog.Logger) graphql.ErrorPresenterFunc {
	return func(ctx context.Context, err error) *gqlerror.Error {
		gqlErr := graphql.DefaultErrorPresenter(ctx, err)

		// Parse and validation errors raised by the executor carry no cause
		// and already hold a client-facing message.
		if gqlErr.Err == nil {
			return gqlErr
		}

		// Resolver errors arrive wrapped in a *gqlerror.Error carrying the path.
		origErr := err
		if unwrapped := errors.Unwrap(err); unwrapped != nil {
			origErr = unwrapped
		}

		switch {
		case errors.Is(origErr, domain.ErrValidation):
			gqlErr.Extensions = map[string]interface{}{"code": CodeValidation}
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				gqlErr.Extensions["fields"] = ve.Errors
			}

		case origErr.Error() == errIntrospectionDisabled:
			gqlErr.Extensions = map[string]interface{}{"code": CodeForbidden}

		case errors.Is(origErr, domain.ErrForbidden):
			gqlErr.Message = origErr.Error()
			gqlErr.Extensions = map[string]interface{}{"code": CodeForbidden}

		default:
			log.ErrorContext(ctx, "unexpected GraphQL error",
				slog.String("error", origErr.Error()),
				slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
			)
			gqlErr.Message = "internal error"
			gqlErr.Extensions = map[string]interface{}{"code": CodeInternal}
		}

		return gqlErr
	}
}
