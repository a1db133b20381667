// Package types defines the shared types used across all inklint packages.
//
// These types form the lingua franca between provider adapters, the
// orchestrator, the text-editing helpers, and the HTTP boundary. They are
// intentionally minimal — each package defines its own domain types, but
// cross-cutting data structures live here to avoid circular imports.
package types

import "strings"

// ErrorKind classifies a reported text issue. Unrecognised provider values
// normalise to [KindGrammar] at the parsing boundary.
type ErrorKind string

const (
	KindGrammar     ErrorKind = "grammar"
	KindSpelling    ErrorKind = "spelling"
	KindPunctuation ErrorKind = "punctuation"
	KindStyle       ErrorKind = "style"
)

// IsValid reports whether k is one of the recognised error kinds.
func (k ErrorKind) IsValid() bool {
	switch k {
	case KindGrammar, KindSpelling, KindPunctuation, KindStyle:
		return true
	}
	return false
}

// TextError is one issue reported against a snapshot of the checked text.
//
// TextError values are immutable after creation: applying a suggestion
// produces a new text and a new filtered error slice, never an in-place
// mutation.
type TextError struct {
	// ID is unique within a single CorrectionResult and stable until the
	// underlying text changes.
	ID string `json:"id"`

	// Kind classifies the issue.
	Kind ErrorKind `json:"type"`

	// Start and End are character offsets into the original text at the time
	// the check ran (End exclusive). Providers report these unreliably, so
	// they are a hint only — Context is the authoritative locator.
	Start int `json:"start"`
	End   int `json:"end"`

	// Context is the exact substring of the original text the error refers
	// to. Position-dependent operations re-locate the error by scanning for
	// this string rather than trusting Start/End.
	Context string `json:"context"`

	// Message is a human-readable explanation of the issue.
	Message string `json:"message"`

	// Suggestions holds complete replacement strings for Context, in
	// preference order. The first entry is the default one-click fix.
	// May be empty.
	Suggestions []string `json:"suggestions"`
}

// CorrectionResult is the output of one grammar check, scoped to the text
// snapshot that produced it. It is discarded (not patched) whenever the text
// changes, except through the controlled suggestion-apply transition.
type CorrectionResult struct {
	// Errors in detection order (provider order or pattern order). Not
	// necessarily sorted by position.
	Errors []TextError `json:"errors"`

	// CorrectedText is a fully corrected version of the whole input,
	// produced independently by the provider or heuristic. It is not
	// guaranteed to equal the result of applying every suggestion in
	// Errors to the original text; consumers must not assume that equality.
	CorrectedText string `json:"correctedText"`

	// Confidence in [0,1]. Nil when the backend did not report one.
	Confidence *float64 `json:"confidence,omitempty"`
}

// Span is one segment of a highlight partition. Concatenating the Text of
// every span in a partition reproduces the original input exactly.
type Span struct {
	// Text is the literal segment content.
	Text string

	// Err is non-nil for error spans and nil for plain spans.
	Err *TextError
}

// IsError reports whether the span marks an error region.
func (s Span) IsError() bool { return s.Err != nil }

// NormalizeKind coerces an arbitrary provider kind string to a valid
// [ErrorKind], defaulting to [KindGrammar].
func NormalizeKind(s string) ErrorKind {
	k := ErrorKind(strings.ToLower(strings.TrimSpace(s)))
	if k.IsValid() {
		return k
	}
	return KindGrammar
}
