package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional decoding parameters.
type Option func(*Options)

type Options struct {
	Temperature   float64
	MaxTokens     int // maximum new tokens to generate
	MinTokens     int // minimum new tokens (providers that support it)
	RepeatPenalty float64
	NoRepeatNgram int // suppress exact n-gram repeats (providers that support it)
	Model         string
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithMinTokens(n int) Option {
	return func(o *Options) {
		o.MinTokens = n
	}
}

func WithRepeatPenalty(p float64) Option {
	return func(o *Options) {
		o.RepeatPenalty = p
	}
}

func WithNoRepeatNgram(n int) Option {
	return func(o *Options) {
		o.NoRepeatNgram = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
