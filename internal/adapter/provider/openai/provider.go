// Package openai adapts the OpenAI chat completion and speech APIs.
package openai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/heartmarshall/wordlookup/internal/provider"
)

// Provider calls OpenAI through go-openai.
type Provider struct {
	client *goopenai.Client
	log    *slog.Logger
}

// NewProvider creates a Provider. An empty baseURL keeps the public API
// endpoint. A zero timeout means no client-side deadline.
func NewProvider(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Provider{
		client: goopenai.NewClientWithConfig(cfg),
		log:    logger.With("adapter", "openai"),
	}
}

// CompleteText sends a system + user message pair and returns the first
// choice's content as is.
func (p *Provider) CompleteText(ctx context.Context, req provider.TextRequest) (string, error) {
	p.log.DebugContext(ctx, "openai chat completion", slog.String("model", req.Model))

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.System},
			{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Synthesize returns mp3 audio for req.Input spoken with req.Voice.
func (p *Provider) Synthesize(ctx context.Context, req provider.SpeechRequest) (*provider.Audio, error) {
	p.log.DebugContext(ctx, "openai speech", slog.String("model", req.Model), slog.String("voice", req.Voice))

	raw, err := p.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(req.Model),
		Input:          req.Input,
		Voice:          goopenai.SpeechVoice(req.Voice),
		ResponseFormat: goopenai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: speech: %w", err)
	}
	defer raw.Close()

	data, err := io.ReadAll(raw)
	if err != nil {
		return nil, fmt.Errorf("openai: read speech: %w", err)
	}
	return &provider.Audio{Data: data, ContentType: provider.ContentTypeMPEG}, nil
}
