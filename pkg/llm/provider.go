package llm

import (
	"context"
)

// Option allows for optional parameters like Temperature or a model override.
type Option func(*Options)

type Options struct {
	Temperature float64
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any text-generation backend.
type LLMProvider interface {
	// Generate sends a single prompt to the model and returns the raw
	// response text.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
