// Package provider holds the request and result types shared by the
// generation service and its upstream adapters.
package provider

// TextRequest is a single-turn chat completion.
type TextRequest struct {
	Model     string
	System    string
	Prompt    string
	MaxTokens int
}

// SpeechRequest asks for the given input to be spoken with Voice.
type SpeechRequest struct {
	Model string
	Input string
	Voice string
}

// Audio is synthesized speech.
type Audio struct {
	Data        []byte
	ContentType string
}

// ContentTypeMPEG is the only audio format requested upstream.
const ContentTypeMPEG = "audio/mpeg"
