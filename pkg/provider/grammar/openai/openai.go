// Package openai provides a grammar checker backed by the OpenAI
// chat-completions API.
package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/inklint/inklint/internal/normalize"
	"github.com/inklint/inklint/pkg/provider/grammar"
	"github.com/inklint/inklint/pkg/types"
)

const (
	// Name identifies this adapter in failures, logs, and metrics.
	Name = "openai"

	defaultModel       = "gpt-3.5-turbo"
	defaultTemperature = 0.1
	defaultMaxTokens   = 2000
	requestTimeout     = 30 * time.Second
)

// Checker implements grammar.Checker using the OpenAI API.
type Checker struct {
	client oai.Client
	apiKey string
	model  string
}

var _ grammar.Checker = (*Checker)(nil)

// config holds optional configuration for the checker.
type config struct {
	baseURL string
	model   string
}

// Option is a functional option for Checker.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithModel selects the chat model. Default: gpt-3.5-turbo.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// New constructs an OpenAI grammar checker. An empty apiKey is permitted at
// construction time; Check then fails with a missing-credentials error
// before any transport attempt, which lets the orchestrator treat an
// unconfigured backend uniformly with a failing one.
func New(apiKey string, opts ...Option) *Checker {
	cfg := &config{model: defaultModel}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: requestTimeout}),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}

	return &Checker{
		client: oai.NewClient(reqOpts...),
		apiKey: apiKey,
		model:  cfg.model,
	}
}

// Check implements grammar.Checker. The raw model reply is handed to the
// normalizer; an unparseable reply still yields a success with an empty
// result, because by that point the transport contract held.
func (c *Checker) Check(ctx context.Context, text string) (*types.CorrectionResult, error) {
	if c.apiKey == "" {
		return nil, &grammar.Error{
			Kind:     grammar.FailureMissingCredentials,
			Provider: Name,
			Message:  "OpenAI API key not configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(grammar.SystemPrompt),
			oai.UserMessage(grammar.UserPrompt(text)),
		},
		Temperature: param.NewOpt(defaultTemperature),
		MaxTokens:   param.NewOpt(int64(defaultMaxTokens)),
	})
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &grammar.Error{
			Kind:     grammar.FailureMalformed,
			Provider: Name,
			Message:  "no response content from OpenAI service",
		}
	}

	return normalize.Normalize(resp.Choices[0].Message.Content, text), nil
}

// classify maps SDK and transport failures onto the grammar failure taxonomy.
func classify(err error) *grammar.Error {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return &grammar.Error{
				Kind:     grammar.FailureRateLimited,
				Provider: Name,
				Message:  "OpenAI API rate limit exceeded. Please try again later.",
				Err:      err,
			}
		case http.StatusUnauthorized:
			return &grammar.Error{
				Kind:     grammar.FailureUnauthorized,
				Provider: Name,
				Message:  "Invalid OpenAI API key",
				Err:      err,
			}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &grammar.Error{
			Kind:     grammar.FailureTimeout,
			Provider: Name,
			Message:  "Request timed out. Please try again.",
			Err:      err,
		}
	}

	return &grammar.Error{
		Kind:     grammar.FailureTransport,
		Provider: Name,
		Message:  "Grammar check failed: " + err.Error(),
		Err:      err,
	}
}
