// Package anyllm provides a grammar checker backed by
// github.com/mozilla-ai/any-llm-go, a unified multi-provider completion
// interface. It opens the fallback chain to backends beyond the first-class
// OpenAI and Gemini adapters: Anthropic, Ollama, DeepSeek, Mistral, and Groq.
//
// Usage:
//
//	c, err := anyllm.New("anthropic", "claude-3-5-haiku-latest", "sk-ant-...")
package anyllm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/deepseek"
	"github.com/mozilla-ai/any-llm-go/providers/groq"
	"github.com/mozilla-ai/any-llm-go/providers/mistral"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"

	"github.com/inklint/inklint/internal/normalize"
	"github.com/inklint/inklint/pkg/provider/grammar"
	"github.com/inklint/inklint/pkg/types"
)

const (
	defaultTemperature = 0.1
	defaultMaxTokens   = 2000
	requestTimeout     = 30 * time.Second
)

// Checker implements grammar.Checker by wrapping any-llm-go.
type Checker struct {
	backend anyllmlib.Provider
	name    string
	model   string
}

var _ grammar.Checker = (*Checker)(nil)

// New creates a Checker for the named backend. providerName is one of:
// "anthropic", "ollama", "deepseek", "mistral", "groq".
//
// apiKey may be empty for key-less backends such as a local Ollama; hosted
// backends fall back to their conventional environment variable and fail
// construction when neither is available. Extra any-llm-go options (e.g.
// anyllmlib.WithBaseURL for a local Ollama) are passed through to the backend.
func New(providerName, model, apiKey string, extra ...anyllmlib.Option) (*Checker, error) {
	if model == "" {
		return nil, fmt.Errorf("anyllm: model must not be empty")
	}

	var opts []anyllmlib.Option
	if apiKey != "" {
		opts = append(opts, anyllmlib.WithAPIKey(apiKey))
	}
	opts = append(opts, extra...)

	backend, err := createBackend(providerName, opts...)
	if err != nil {
		return nil, fmt.Errorf("anyllm: create %q backend: %w", providerName, err)
	}

	return &Checker{backend: backend, name: providerName, model: model}, nil
}

// createBackend instantiates the underlying any-llm-go provider.
func createBackend(providerName string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(providerName) {
	case "anthropic":
		return anthropic.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	case "deepseek":
		return deepseek.New(opts...)
	case "mistral":
		return mistral.New(opts...)
	case "groq":
		return groq.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q; supported: anthropic, ollama, deepseek, mistral, groq", providerName)
	}
}

// Check implements grammar.Checker.
func (c *Checker) Check(ctx context.Context, text string) (*types.CorrectionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	temp := defaultTemperature
	maxTokens := defaultMaxTokens
	resp, err := c.backend.Completion(ctx, anyllmlib.CompletionParams{
		Model: c.model,
		Messages: []anyllmlib.Message{
			{Role: anyllmlib.RoleSystem, Content: grammar.SystemPrompt},
			{Role: anyllmlib.RoleUser, Content: grammar.UserPrompt(text)},
		},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, c.classify(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.ContentString() == "" {
		return nil, &grammar.Error{
			Kind:     grammar.FailureMalformed,
			Provider: c.name,
			Message:  fmt.Sprintf("no response content from %s service", c.name),
		}
	}

	return normalize.Normalize(resp.Choices[0].Message.ContentString(), text), nil
}

// classify maps backend failures onto the grammar failure taxonomy. any-llm-go
// wraps each backend's HTTP errors without a uniform status accessor, so the
// mapping falls back to inspecting the error text for the well-known cases.
func (c *Checker) classify(err error) *grammar.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &grammar.Error{
			Kind:     grammar.FailureTimeout,
			Provider: c.name,
			Message:  "Request timed out. Please try again.",
			Err:      err,
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return &grammar.Error{
			Kind:     grammar.FailureRateLimited,
			Provider: c.name,
			Message:  fmt.Sprintf("%s API rate limit exceeded. Please try again later.", c.name),
			Err:      err,
		}
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "api key"):
		return &grammar.Error{
			Kind:     grammar.FailureUnauthorized,
			Provider: c.name,
			Message:  fmt.Sprintf("Invalid %s API key", c.name),
			Err:      err,
		}
	}

	return &grammar.Error{
		Kind:     grammar.FailureTransport,
		Provider: c.name,
		Message:  "Grammar check failed: " + err.Error(),
		Err:      err,
	}
}
