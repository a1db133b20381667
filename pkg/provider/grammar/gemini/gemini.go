// Package gemini provides a grammar checker backed by the Google Gemini
// generateContent API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/inklint/inklint/internal/normalize"
	"github.com/inklint/inklint/pkg/provider/grammar"
	"github.com/inklint/inklint/pkg/types"
)

const (
	// Name identifies this adapter in failures, logs, and metrics.
	Name = "gemini"

	defaultModel   = "gemini-2.0-flash"
	requestTimeout = 30 * time.Second
)

// promptTemplate is the single-turn instruction for Gemini. The model has no
// dedicated system slot in this flow, so the persona, the schema, and the
// complete-replacement requirement are all inlined.
const promptTemplate = `You are a professional grammar checker. Analyze this text for grammar, spelling, and punctuation errors.

CRITICAL: The "suggestions" field must contain the COMPLETE replacement text that should replace the "context".

Return JSON in this exact format:
{
  "errors": [
    {
      "id": "error-1",
      "type": "grammar",
      "start": 2,
      "end": 8,
      "context": "I goes",
      "message": "Subject-verb disagreement",
      "suggestions": ["I go"]
    }
  ],
  "correctedText": "fully corrected version of the entire text",
  "confidence": 0.95
}

Text to analyze: "%s"

Return only the JSON response:`

// Checker implements grammar.Checker using the Gemini API.
type Checker struct {
	apiKey string
	model  string

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

var _ grammar.Checker = (*Checker)(nil)

// Option is a functional option for Checker.
type Option func(*Checker)

// WithModel selects the Gemini model. Default: gemini-2.0-flash.
func WithModel(model string) Option {
	return func(c *Checker) { c.model = model }
}

// New constructs a Gemini grammar checker. An empty apiKey is permitted; the
// first Check then fails with a missing-credentials error without touching
// the network.
func New(apiKey string, opts ...Option) *Checker {
	c := &Checker{apiKey: apiKey, model: defaultModel}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Check implements grammar.Checker.
func (c *Checker) Check(ctx context.Context, text string) (*types.CorrectionResult, error) {
	if c.apiKey == "" {
		return nil, &grammar.Error{
			Kind:     grammar.FailureMissingCredentials,
			Provider: Name,
			Message:  "Gemini API key not configured",
		}
	}

	client, err := c.init(ctx)
	if err != nil {
		return nil, &grammar.Error{
			Kind:     grammar.FailureTransport,
			Provider: Name,
			Message:  "Grammar check with Gemini failed: " + err.Error(),
			Err:      err,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	prompt := fmt.Sprintf(promptTemplate, grammar.EscapeQuotes(text))
	resp, err := client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.1),
		},
	)
	if err != nil {
		return nil, classify(err)
	}

	reply := resp.Text()
	if reply == "" {
		return nil, &grammar.Error{
			Kind:     grammar.FailureMalformed,
			Provider: Name,
			Message:  "no response content from Gemini service",
		}
	}

	return normalize.Normalize(reply, text), nil
}

// init creates the SDK client on first use. The client is reused for the
// lifetime of the checker.
func (c *Checker) init(ctx context.Context) (*genai.Client, error) {
	c.initOnce.Do(func() {
		c.client, c.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  c.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return c.client, c.initErr
}

// classify maps SDK and transport failures onto the grammar failure taxonomy.
func classify(err error) *grammar.Error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return &grammar.Error{
				Kind:     grammar.FailureRateLimited,
				Provider: Name,
				Message:  "Gemini API rate limit exceeded. Please try again later.",
				Err:      err,
			}
		case http.StatusUnauthorized:
			return &grammar.Error{
				Kind:     grammar.FailureUnauthorized,
				Provider: Name,
				Message:  "Invalid Gemini API key",
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
		Message:  "Grammar check with Gemini failed: " + err.Error(),
		Err:      err,
	}
}
