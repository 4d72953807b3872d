package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/internal/provider"
	"github.com/heartmarshall/wordlookup/internal/service/generation"
)

const maxGenerateBody = 64 << 10

// generationService defines the minimal interface needed by GenerateHandler.
type generationService interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateAudio(ctx context.Context, input, voice string) (*provider.Audio, error)
}

// GenerateHandler serves the text and speech generation endpoints.
type GenerateHandler struct {
	svc generationService
	log *slog.Logger
}

// NewGenerateHandler creates a GenerateHandler.
func NewGenerateHandler(svc generationService, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{svc: svc, log: logger.With("handler", "generate")}
}

type generateTextRequest struct {
	Prompt string `json:"prompt"`
}

type generateTextResponse struct {
	Text string `json:"text"`
}

type generateAudioRequest struct {
	Input string `json:"input"`
	Voice string `json:"voice"`
}

// Text handles POST /generate-text.
func (h *GenerateHandler) Text(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[generateTextRequest](r, h.log)

	text, err := h.svc.GenerateText(r.Context(), req.Prompt)
	if err != nil {
		h.handleError(w, r, err, "Error generating text")
		return
	}

	writeJSON(w, http.StatusOK, generateTextResponse{Text: text})
}

// Audio handles POST /generate-audio. The response body is the raw audio.
func (h *GenerateHandler) Audio(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[generateAudioRequest](r, h.log)

	audio, err := h.svc.GenerateAudio(r.Context(), req.Input, req.Voice)
	if err != nil {
		h.handleError(w, r, err, "Error generating audio.")
		return
	}

	contentType := audio.ContentType
	if contentType == "" {
		contentType = provider.ContentTypeMPEG
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(audio.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio.Data); err != nil {
		h.log.WarnContext(r.Context(), "write audio", slog.String("error", err.Error()))
	}
}

// decodeBody reads a JSON body into T. A body that cannot be decoded yields
// the zero T, so the request fails field validation instead.
func decodeBody[T any](r *http.Request, log *slog.Logger) T {
	var v T
	err := json.NewDecoder(io.LimitReader(r.Body, maxGenerateBody)).Decode(&v)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			log.DebugContext(r.Context(), "undecodable request body", slog.String("error", err.Error()))
		}
		var zero T
		return zero
	}
	return v
}

func (h *GenerateHandler) handleError(w http.ResponseWriter, r *http.Request, err error, upstreamMessage string) {
	switch {
	case errors.Is(err, generation.ErrPromptRequired):
		writeError(w, http.StatusBadRequest, "Prompt is required")
	case errors.Is(err, generation.ErrAudioInputRequired):
		writeError(w, http.StatusBadRequest, "Input text and voice are required.")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		h.log.DebugContext(r.Context(), "client went away", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, upstreamMessage)
	default:
		if !errors.Is(err, domain.ErrUpstream) {
			h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		}
		writeError(w, http.StatusInternalServerError, upstreamMessage)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
