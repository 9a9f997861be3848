package llm

import (
	"context"

	"github.com/openai/openai-go"
)

type Provider interface {
	// Complete sends a single user prompt and returns the generated text.
	Complete(ctx context.Context, prompt string, opts ...Option) (string, error)

	// Chat sends a system+user conversation, optionally declaring tools,
	// and returns a structured response.
	Chat(ctx context.Context, system, user string, opts ...Option) (*Response, error)

	// SupportsTools reports whether the provider can declare tools on chat
	// calls. Decided once at construction; callers without tool support
	// must degrade to plain chat.
	SupportsTools() bool
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	Tools       []openai.ChatCompletionToolParam
}

func WithMaxTokens(n int64) Option {
	return func(o *Options) { o.MaxTokens = n }
}

func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

func WithTools(tools []openai.ChatCompletionToolParam) Option {
	return func(o *Options) { o.Tools = tools }
}

// FunctionResponse represents the structured response from a function call
type FunctionResponse struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type Response struct {
	Content      string
	FunctionCall *FunctionResponse
	Usage        Usage
}
