package graphql

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/pkg/ctxutil"
)

func TestErrorPresenter_Validation(t *testing.T) {
	t.Parallel()
	presenter := NewErrorPresenter(slog.Default())

	err := domain.NewValidationErrors([]domain.FieldError{
		{Field: "word", Message: "required"},
	})
	gqlErr := presenter(context.Background(), err)

	require.NotNil(t, gqlErr.Extensions)
	assert.Equal(t, CodeValidation, gqlErr.Extensions["code"])
	assert.Equal(t, []domain.FieldError{{Field: "word", Message: "required"}}, gqlErr.Extensions["fields"])
}

func TestErrorPresenter_Forbidden(t *testing.T) {
	t.Parallel()
	presenter := NewErrorPresenter(slog.Default())

	wrapped := gqlerror.WrapPath(ast.Path{ast.PathName("resetPopularSearches")},
		fmt.Errorf("resetPopularSearches: %w", domain.ErrForbidden))
	gqlErr := presenter(context.Background(), wrapped)

	assert.Equal(t, CodeForbidden, gqlErr.Extensions["code"])
	assert.Contains(t, gqlErr.Message, "forbidden")
	assert.Equal(t, ast.Path{ast.PathName("resetPopularSearches")}, gqlErr.Path)
}

func TestErrorPresenter_Internal(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	presenter := NewErrorPresenter(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := ctxutil.WithRequestID(context.Background(), "req-42")
	gqlErr := presenter(ctx, errors.New("dial tcp: connection refused"))

	assert.Equal(t, "internal error", gqlErr.Message)
	assert.Equal(t, CodeInternal, gqlErr.Extensions["code"])
	assert.Contains(t, buf.String(), "connection refused")
	assert.Contains(t, buf.String(), "req-42")
}

func TestErrorPresenter_ExecutorErrorsPassThrough(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	presenter := NewErrorPresenter(slog.New(slog.NewJSONHandler(&buf, nil)))

	parseErr := gqlerror.Errorf("Cannot query field \"nope\" on type \"Query\".")
	gqlErr := presenter(context.Background(), parseErr)

	assert.Equal(t, "Cannot query field \"nope\" on type \"Query\".", gqlErr.Message)
	assert.NotEqual(t, CodeInternal, gqlErr.Extensions["code"])
	assert.Empty(t, buf.String())
}

func TestErrorPresenter_IntrospectionDisabled(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	presenter := NewErrorPresenter(slog.New(slog.NewJSONHandler(&buf, nil)))

	gqlErr := presenter(context.Background(), errors.New("introspection disabled"))

	assert.Equal(t, "introspection disabled", gqlErr.Message)
	assert.Equal(t, CodeForbidden, gqlErr.Extensions["code"])
	assert.Empty(t, buf.String())
}
