package generation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordlookup/internal/config"
	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/internal/provider"
)

type mockText struct {
	CompleteTextFunc func(ctx context.Context, req provider.TextRequest) (string, error)
	calls            atomic.Int32
}

func (m *mockText) CompleteText(ctx context.Context, req provider.TextRequest) (string, error) {
	m.calls.Add(1)
	if m.CompleteTextFunc != nil {
		return m.CompleteTextFunc(ctx, req)
	}
	return "", nil
}

type mockSpeech struct {
	SynthesizeFunc func(ctx context.Context, req provider.SpeechRequest) (*provider.Audio, error)
	calls          atomic.Int32
}

func (m *mockSpeech) Synthesize(ctx context.Context, req provider.SpeechRequest) (*provider.Audio, error) {
	m.calls.Add(1)
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, req)
	}
	return &provider.Audio{Data: []byte("mp3"), ContentType: provider.ContentTypeMPEG}, nil
}

func testConfig() config.GenerationConfig {
	return config.GenerationConfig{
		TextModel:    "gpt-3.5-turbo",
		SpeechModel:  "tts-1",
		SystemPrompt: "You are a helpful assistant.",
		MaxTokens:    100,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerateText_Success(t *testing.T) {
	t.Parallel()

	var got provider.TextRequest
	text := &mockText{CompleteTextFunc: func(_ context.Context, req provider.TextRequest) (string, error) {
		got = req
		return "\n From Greek mythology. \n", nil
	}}
	svc := NewService(discardLogger(), text, &mockSpeech{}, testConfig())

	out, err := svc.GenerateText(context.Background(), "Where does the word echo come from?")
	require.NoError(t, err)
	assert.Equal(t, "From Greek mythology.", out)
	assert.Equal(t, provider.TextRequest{
		Model:     "gpt-3.5-turbo",
		System:    "You are a helpful assistant.",
		Prompt:    "Where does the word echo come from?",
		MaxTokens: 100,
	}, got)
}

func TestGenerateText_PromptRequired(t *testing.T) {
	t.Parallel()

	text := &mockText{}
	svc := NewService(discardLogger(), text, nil, testConfig())

	_, err := svc.GenerateText(context.Background(), "")
	assert.ErrorIs(t, err, ErrPromptRequired)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, text.calls.Load())
}

func TestGenerateText_WhitespacePromptIsForwarded(t *testing.T) {
	t.Parallel()

	var got string
	text := &mockText{CompleteTextFunc: func(_ context.Context, req provider.TextRequest) (string, error) {
		got = req.Prompt
		return "hello", nil
	}}
	svc := NewService(discardLogger(), text, nil, testConfig())

	out, err := svc.GenerateText(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, "  ", got)
	assert.Equal(t, int32(1), text.calls.Load())
}

func TestGenerateText_UpstreamError(t *testing.T) {
	t.Parallel()

	boom := errors.New("429 rate limited")
	svc := NewService(discardLogger(), &mockText{CompleteTextFunc: func(context.Context, provider.TextRequest) (string, error) {
		return "", boom
	}}, nil, testConfig())

	_, err := svc.GenerateText(context.Background(), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.ErrorIs(t, err, boom)
}

func TestGenerateText_NotConfigured(t *testing.T) {
	t.Parallel()
	svc := NewService(discardLogger(), nil, nil, testConfig())

	_, err := svc.GenerateText(context.Background(), "hi")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestGenerateAudio_Success(t *testing.T) {
	t.Parallel()

	var got provider.SpeechRequest
	speech := &mockSpeech{SynthesizeFunc: func(_ context.Context, req provider.SpeechRequest) (*provider.Audio, error) {
		got = req
		return &provider.Audio{Data: []byte{0xff, 0xfb}, ContentType: provider.ContentTypeMPEG}, nil
	}}
	svc := NewService(discardLogger(), nil, speech, testConfig())

	audio, err := svc.GenerateAudio(context.Background(), "echo", "alloy")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfb}, audio.Data)
	assert.Equal(t, "audio/mpeg", audio.ContentType)
	assert.Equal(t, provider.SpeechRequest{Model: "tts-1", Input: "echo", Voice: "alloy"}, got)
}

func TestGenerateAudio_InputRequired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input, voice string
	}{
		{"missing voice", "echo", ""},
		{"missing input", "", "alloy"},
		{"missing both", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			speech := &mockSpeech{}
			svc := NewService(discardLogger(), nil, speech, testConfig())

			_, err := svc.GenerateAudio(context.Background(), tt.input, tt.voice)
			assert.ErrorIs(t, err, ErrAudioInputRequired)
			assert.Zero(t, speech.calls.Load(), "no external call expected")
		})
	}
}

func TestGenerateAudio_UpstreamError(t *testing.T) {
	t.Parallel()

	svc := NewService(discardLogger(), nil, &mockSpeech{SynthesizeFunc: func(context.Context, provider.SpeechRequest) (*provider.Audio, error) {
		return nil, errors.New("bad voice")
	}}, testConfig())

	_, err := svc.GenerateAudio(context.Background(), "echo", "nope")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestGenerateAudio_CoalescesIdenticalRequests(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	speech := &mockSpeech{SynthesizeFunc: func(context.Context, provider.SpeechRequest) (*provider.Audio, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return &provider.Audio{Data: []byte("same"), ContentType: provider.ContentTypeMPEG}, nil
	}}
	svc := NewService(discardLogger(), nil, speech, testConfig())

	const callers = 5
	var wg sync.WaitGroup
	results := make([][]byte, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		a, err := svc.GenerateAudio(context.Background(), "echo", "alloy")
		if err == nil {
			results[0] = a.Data
		}
	}()
	<-started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := svc.GenerateAudio(context.Background(), "echo", "alloy")
			if err == nil {
				results[i] = a.Data
			}
		}(i)
	}

	// Let the followers join the in-flight call before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, []byte("same"), r)
	}
	assert.LessOrEqual(t, speech.calls.Load(), int32(callers))
	assert.GreaterOrEqual(t, speech.calls.Load(), int32(1))
}

func TestGenerateAudio_CancelledCallerDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	upstreamErr := make(chan error, 1)
	speech := &mockSpeech{SynthesizeFunc: func(ctx context.Context, _ provider.SpeechRequest) (*provider.Audio, error) {
		close(started)
		<-release
		upstreamErr <- ctx.Err()
		return &provider.Audio{Data: []byte("mp3"), ContentType: provider.ContentTypeMPEG}, nil
	}}
	svc := NewService(discardLogger(), nil, speech, testConfig())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.GenerateAudio(ctxA, "echo", "alloy")
		errA <- err
	}()
	<-started

	type result struct {
		audio *provider.Audio
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		a, err := svc.GenerateAudio(context.Background(), "echo", "alloy")
		resB <- result{a, err}
	}()
	// Give B time to join the in-flight call.
	time.Sleep(50 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, domain.ErrUpstream)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(release)
	select {
	case r := <-resB:
		require.NoError(t, r.err)
		assert.Equal(t, []byte("mp3"), r.audio.Data)
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}

	assert.NoError(t, <-upstreamErr, "upstream call must not see the first caller's cancellation")
	assert.Equal(t, int32(1), speech.calls.Load())
}

func TestGenerateAudio_CancelledBeforeResult(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	speech := &mockSpeech{SynthesizeFunc: func(context.Context, provider.SpeechRequest) (*provider.Audio, error) {
		<-release
		return &provider.Audio{Data: []byte("mp3")}, nil
	}}
	svc := NewService(discardLogger(), nil, speech, testConfig())
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.GenerateAudio(ctx, "echo", "alloy")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
