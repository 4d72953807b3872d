// Package anthropic adapts the Anthropic Messages API as a text provider.
package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/wordlookup/internal/provider"
)

// Provider calls Claude through anthropic-sdk-go. It only does text.
type Provider struct {
	client sdk.Client
	log    *slog.Logger
}

// NewProvider creates a Provider with SDK retries disabled.
func NewProvider(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Provider{
		client: sdk.NewClient(opts...),
		log:    logger.With("adapter", "anthropic"),
	}
}

// CompleteText sends req.Prompt with req.System as the system prompt and
// concatenates the text blocks of the reply.
func (p *Provider) CompleteText(ctx context.Context, req provider.TextRequest) (string, error) {
	p.log.DebugContext(ctx, "anthropic message", slog.String("model", req.Model))

	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic: messages: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("anthropic: empty response")
	}
	return b.String(), nil
}
