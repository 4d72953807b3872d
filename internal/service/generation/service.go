// Package generation relays text and speech generation requests to an
// upstream model provider.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/wordlookup/internal/config"
	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/internal/provider"
)

// Validation errors. Their messages are returned to clients verbatim.
var (
	ErrPromptRequired     = fmt.Errorf("%w: Prompt is required", domain.ErrValidation)
	ErrAudioInputRequired = fmt.Errorf("%w: Input text and voice are required.", domain.ErrValidation)
	errNotConfigured      = errors.New("provider not configured")
)

type textCompleter interface {
	CompleteText(ctx context.Context, req provider.TextRequest) (string, error)
}

type speechSynthesizer interface {
	Synthesize(ctx context.Context, req provider.SpeechRequest) (*provider.Audio, error)
}

// Service builds upstream requests from configuration and normalizes
// upstream failures into domain.ErrUpstream.
type Service struct {
	log    *slog.Logger
	text   textCompleter
	speech speechSynthesizer
	cfg    config.GenerationConfig
	group  singleflight.Group
}

// NewService creates a generation service. Either provider may be nil, in
// which case the matching operation fails with ErrUpstream.
func NewService(logger *slog.Logger, text textCompleter, speech speechSynthesizer, cfg config.GenerationConfig) *Service {
	return &Service{
		log:    logger.With("service", "generation"),
		text:   text,
		speech: speech,
		cfg:    cfg,
	}
}

// GenerateText answers prompt with a short completion. Only the empty prompt
// is rejected; whitespace is forwarded as-is.
func (s *Service) GenerateText(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrPromptRequired
	}
	if s.text == nil {
		return "", s.upstreamErr(ctx, "generate text", errNotConfigured)
	}

	out, err := s.text.CompleteText(ctx, provider.TextRequest{
		Model:     s.cfg.TextModel,
		System:    s.cfg.SystemPrompt,
		Prompt:    prompt,
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil {
		return "", s.upstreamErr(ctx, "generate text", err)
	}
	return strings.TrimSpace(out), nil
}

// GenerateAudio speaks input with voice. Identical concurrent requests share
// one upstream call. The shared call is detached from any single caller's
// cancellation; each caller stops waiting when its own ctx is done.
func (s *Service) GenerateAudio(ctx context.Context, input, voice string) (*provider.Audio, error) {
	if input == "" || voice == "" {
		return nil, ErrAudioInputRequired
	}
	if s.speech == nil {
		return nil, s.upstreamErr(ctx, "generate audio", errNotConfigured)
	}

	key := voice + "\x00" + input
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return s.speech.Synthesize(shared, provider.SpeechRequest{
			Model: s.cfg.SpeechModel,
			Input: input,
			Voice: voice,
		})
	})

	select {
	case <-ctx.Done():
		s.log.DebugContext(ctx, "speech request abandoned", slog.String("voice", voice))
		return nil, fmt.Errorf("generate audio: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, s.upstreamErr(ctx, "generate audio", res.Err)
		}
		if res.Shared {
			s.log.DebugContext(ctx, "speech request coalesced", slog.String("voice", voice))
		}
		return res.Val.(*provider.Audio), nil
	}
}

func (s *Service) upstreamErr(ctx context.Context, op string, err error) error {
	s.log.ErrorContext(ctx, op+" failed", slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstream, err)
}
