// Package checker orchestrates grammar checks across the configured provider
// chain.
//
// Selection is an ordered, fixed-length list — primary, secondary, local
// heuristic last resort — evaluated by a pure selection rule rather than
// environment inspection at call sites. At most two attempts are ever made:
// when both remote providers are configured and the primary fails with a
// failure kind the secondary could plausibly survive, the secondary is tried
// exactly once. If it also fails, the caller receives the primary's original
// failure, which names the backend the operator actually configured first.
//
// Each Check invocation is an independent, sequential call chain with no
// shared mutable state; the orchestrator itself is safe for concurrent use.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/inklint/inklint/internal/observe"
	"github.com/inklint/inklint/pkg/provider/grammar"
	"github.com/inklint/inklint/pkg/provider/grammar/heuristic"
	"github.com/inklint/inklint/pkg/types"
)

// DefaultMaxTextLen is the input size cap, in characters, applied when the
// config does not override it.
const DefaultMaxTextLen = 50_000

// heuristicName labels the local checker in logs and metrics.
const heuristicName = "heuristic"

// Entry pairs a configured checker with its backend name for logs, metrics,
// and failure attribution. A zero Entry means the slot is unconfigured.
type Entry struct {
	Name    string
	Checker grammar.Checker
}

// configured reports whether the slot holds a usable checker.
func (e Entry) configured() bool { return e.Checker != nil }

// Config holds the immutable provider chain and limits for an [Orchestrator].
type Config struct {
	// Primary is the preferred remote backend. Optional.
	Primary Entry

	// Secondary is the fallback remote backend. Optional.
	Secondary Entry

	// Heuristic is the last-resort local checker used when neither remote
	// slot is configured. Defaults to heuristic.New().
	Heuristic grammar.Checker

	// MaxTextLen caps input size in characters. Defaults to
	// [DefaultMaxTextLen].
	MaxTextLen int
}

// Recorder is the narrow capability through which the orchestrator notifies
// the session/usage aggregate. The orchestrator only writes events; it never
// reads the aggregate back.
type Recorder interface {
	CheckStarted(textLen int)
	CheckCompleted(textLen, errorsFound int)
	CheckFailed(reason string)
}

// Option is a functional option for [New].
type Option func(*Orchestrator)

// WithMetrics wires OTel instruments for provider requests and check latency.
func WithMetrics(m *observe.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithRecorder wires the session event recorder.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// Orchestrator runs one grammar check per invocation against the configured
// chain. It is safe for concurrent use.
type Orchestrator struct {
	cfg      Config
	metrics  *observe.Metrics
	recorder Recorder
}

// New creates an [Orchestrator]. Zero-value config fields are replaced with
// defaults.
func New(cfg Config, opts ...Option) *Orchestrator {
	if cfg.MaxTextLen <= 0 {
		cfg.MaxTextLen = DefaultMaxTextLen
	}
	if cfg.Heuristic == nil {
		cfg.Heuristic = heuristic.New()
	}
	o := &Orchestrator{cfg: cfg}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Check validates the input, selects a backend, and executes it with at most
// one fallback attempt. Empty or whitespace-only input short-circuits to an
// empty result without touching any backend.
func (o *Orchestrator) Check(ctx context.Context, text string) (*types.CorrectionResult, error) {
	if strings.TrimSpace(text) == "" {
		return &types.CorrectionResult{
			Errors:        []types.TextError{},
			CorrectedText: text,
		}, nil
	}

	chars := utf8.RuneCountInString(text)
	if chars > o.cfg.MaxTextLen {
		return nil, &grammar.Error{
			Kind:    grammar.FailureTooLong,
			Message: fmt.Sprintf("Text too long. Maximum %d characters.", o.cfg.MaxTextLen),
		}
	}

	ctx, span := observe.StartSpan(ctx, "grammar.check",
		trace.WithAttributes(attribute.Int("text.chars", chars)))
	defer span.End()

	if o.recorder != nil {
		o.recorder.CheckStarted(chars)
	}

	result, err := o.run(ctx, text)
	if err != nil {
		if o.recorder != nil {
			o.recorder.CheckFailed(err.Error())
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int("errors.found", len(result.Errors)))
	if o.recorder != nil {
		o.recorder.CheckCompleted(chars, len(result.Errors))
	}
	return result, nil
}

// run applies the selection order and the single-fallback rule.
func (o *Orchestrator) run(ctx context.Context, text string) (*types.CorrectionResult, error) {
	switch {
	case o.cfg.Primary.configured():
		result, err := o.attempt(ctx, o.cfg.Primary, text)
		if err == nil {
			return result, nil
		}

		if o.cfg.Secondary.configured() && triggersFallback(err) {
			slog.Warn("primary provider failed, trying secondary",
				"primary", o.cfg.Primary.Name,
				"secondary", o.cfg.Secondary.Name,
				"error", err,
			)
			result, fbErr := o.attempt(ctx, o.cfg.Secondary, text)
			if fbErr == nil {
				return result, nil
			}
			// Surface the primary's failure: it names the backend the
			// operator chose first, and the secondary's failure is already
			// logged and counted.
			slog.Warn("secondary provider also failed",
				"secondary", o.cfg.Secondary.Name,
				"error", fbErr,
			)
			return nil, err
		}
		return nil, err

	case o.cfg.Secondary.configured():
		return o.attempt(ctx, o.cfg.Secondary, text)

	default:
		return o.attempt(ctx, Entry{Name: heuristicName, Checker: o.cfg.Heuristic}, text)
	}
}

// attempt executes one backend and records its outcome.
func (o *Orchestrator) attempt(ctx context.Context, e Entry, text string) (*types.CorrectionResult, error) {
	start := time.Now()
	result, err := e.Checker.Check(ctx, text)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.CheckDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("provider", e.Name)))
		o.metrics.RecordProviderRequest(ctx, e.Name, status)
		if err != nil {
			kind := "unknown"
			if ge, ok := grammar.AsError(err); ok {
				kind = string(ge.Kind)
			}
			o.metrics.RecordProviderError(ctx, e.Name, kind)
		}
	}
	return result, err
}

// triggersFallback reports whether err is a typed failure the secondary
// could plausibly survive. Untyped errors never trigger a second attempt.
func triggersFallback(err error) bool {
	ge, ok := grammar.AsError(err)
	return ok && ge.TriggersFallback()
}
