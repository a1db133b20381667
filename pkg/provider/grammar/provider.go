// Package grammar defines the Checker interface for grammar-checking backends.
//
// A grammar checker wraps a remote text-completion service (e.g., OpenAI chat
// completions or Gemini generateContent) or a local pattern engine and exposes
// a uniform interface for the inklint orchestrator to analyse text without
// coupling to any specific SDK.
//
// Remote backends are untrusted oracles: their replies are free text that may
// or may not contain the requested JSON. Adapters therefore never interpret
// the model's output themselves — they hand the raw reply to the normalizer,
// which degrades gracefully field by field. A soft-fallback (empty but valid)
// result is still a success from the adapter's point of view; only transport
// and protocol problems surface as a typed [*Error].
//
// Implementors must be safe for concurrent use.
package grammar

import (
	"context"
	"errors"
	"fmt"

	"github.com/inklint/inklint/pkg/types"
)

// FailureKind classifies why a check attempt failed. The orchestrator uses
// the kind to decide whether a secondary provider is worth trying.
type FailureKind string

const (
	// FailureMissingCredentials means the adapter has no API key configured.
	// Raised before any transport attempt.
	FailureMissingCredentials FailureKind = "missing_credentials"

	// FailureRateLimited maps HTTP 429 responses from the backend.
	FailureRateLimited FailureKind = "rate_limited"

	// FailureUnauthorized maps HTTP 401 responses (invalid API key).
	FailureUnauthorized FailureKind = "unauthorized"

	// FailureTimeout means the bounded per-attempt transport deadline passed.
	FailureTimeout FailureKind = "timeout"

	// FailureTransport covers every other network or protocol failure.
	FailureTransport FailureKind = "transport"

	// FailureMalformed means the transport succeeded but the response body
	// lacked the expected completion payload entirely.
	FailureMalformed FailureKind = "malformed"

	// FailureTooLong means the input exceeded the configured maximum length.
	// Raised by the orchestrator before any provider call.
	FailureTooLong FailureKind = "too_long"
)

// Error is a typed check failure raised by an adapter or the orchestrator.
type Error struct {
	// Kind classifies the failure.
	Kind FailureKind

	// Provider names the backend that failed ("openai", "gemini", ...).
	// Empty for orchestrator-level failures such as [FailureTooLong].
	Provider string

	// Message is a human-readable description suitable for API responses.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// TriggersFallback reports whether this failure justifies trying another
// configured provider. Credential problems are specific to the failing
// backend's own auth and would not be cured by switching, so they do not
// trigger the fallback attempt.
func (e *Error) TriggersFallback() bool {
	switch e.Kind {
	case FailureMissingCredentials, FailureUnauthorized:
		return false
	}
	return true
}

// AsError unwraps err into a [*Error] if one is in its chain.
func AsError(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// Checker is the abstraction over any grammar-checking backend.
//
// Check analyses text and returns a structurally valid [types.CorrectionResult]
// or a [*Error]. Implementations must propagate context cancellation promptly
// and must be safe for concurrent use from multiple goroutines.
type Checker interface {
	Check(ctx context.Context, text string) (*types.CorrectionResult, error)
}

// CheckerFunc adapts a plain function to the [Checker] interface.
type CheckerFunc func(ctx context.Context, text string) (*types.CorrectionResult, error)

// Check implements [Checker].
func (f CheckerFunc) Check(ctx context.Context, text string) (*types.CorrectionResult, error) {
	return f(ctx, text)
}
