package provider

import (
	"context"
	"errors"
	"time"

	openai_provider "github.com/campuslink/campuslink/provider/openai"
)

// Client represents the supported model providers.
type Client string

const (
	OpenAI Client = "openai"
)

// Message is one entry in a conversation sent to a language model.
type Message = openai_provider.Message

// Completion is a language model's answer plus usage metadata.
type Completion = openai_provider.Completion

// LanguageModel generates a reply for a message sequence.
type LanguageModel interface {
	Complete(ctx context.Context, messages []Message) (Completion, error)
}

// NlpClassifier analyzes a question and returns raw text expected to parse as
// the Analysis JSON shape, possibly wrapped in Markdown code fences.
type NlpClassifier interface {
	Analyze(ctx context.Context, question string) (string, error)
}

// Options configures a provider client.
type Options struct {
	APIKey          string
	CompletionModel string
	AnalysisModel   string
	Temperature     float64
	MaxTokens       int
	Timeout         time.Duration
}

// New creates a client for the requested provider. The returned value
// satisfies both LanguageModel and NlpClassifier; callers inject it where
// needed instead of reaching for package-level state.
func New(client Client, opts Options) (*openai_provider.Client, error) {
	switch client {
	case OpenAI:
		if opts.APIKey == "" {
			return nil, errors.New("openai api key not set")
		}
		if opts.Timeout <= 0 {
			opts.Timeout = 50 * time.Second
		}
		return openai_provider.NewClient(
			opts.APIKey,
			opts.CompletionModel,
			opts.AnalysisModel,
			opts.Temperature,
			opts.MaxTokens,
			opts.Timeout,
		), nil
	default:
		return nil, errors.New("unsupported model provider")
	}
}
