// Package normalize turns raw text-completion replies into validated
// correction results.
//
// The reply is untrusted free text from a generative model: it may be exact
// JSON, JSON wrapped in markdown fences or prose, or garbage. Normalize is a
// total function — it never fails. Parsing degrades in stages (strict parse,
// then the widest brace-delimited substring, then an empty result) and every
// field of every reported error is defaulted independently, so a single
// malformed field cannot void an otherwise usable result.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/inklint/inklint/pkg/types"
)

// defaultConfidence is assumed when a parsed reply omits the confidence field.
const defaultConfidence = 0.8

// placeholderMessage substitutes for a missing per-error message.
const placeholderMessage = "Grammar issue detected"

// rawReply mirrors the JSON shape requested from the model. Error elements
// stay raw so one bad element cannot fail the surrounding object.
type rawReply struct {
	Errors        []json.RawMessage `json:"errors"`
	CorrectedText string            `json:"correctedText"`
	Confidence    *float64          `json:"confidence"`
}

// rawError is a single tolerant error element. Offsets are decoded as
// float64 because models emit both 7 and 7.0.
type rawError struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Start       *float64 `json:"start"`
	End         *float64 `json:"end"`
	Context     *string  `json:"context"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// Normalize coerces rawText into a structurally valid [types.CorrectionResult]
// for originalText. On total parse failure it returns an empty-but-valid
// result (no errors, corrected text equal to the input, no confidence) rather
// than an error — a garbled oracle reply is recoverable, not fatal.
func Normalize(rawText, originalText string) *types.CorrectionResult {
	parsed, ok := parseReply(rawText)
	if !ok {
		return &types.CorrectionResult{
			Errors:        []types.TextError{},
			CorrectedText: originalText,
		}
	}

	errs := make([]types.TextError, 0, len(parsed.Errors))
	for i, raw := range parsed.Errors {
		errs = append(errs, coerceError(raw, i, originalText))
	}

	corrected := parsed.CorrectedText
	if corrected == "" {
		corrected = originalText
	}

	conf := defaultConfidence
	if parsed.Confidence != nil {
		conf = *parsed.Confidence
	}

	return &types.CorrectionResult{
		Errors:        errs,
		CorrectedText: corrected,
		Confidence:    &conf,
	}
}

// parseReply attempts a strict parse, then retries on the greedy span from
// the first '{' to the last '}' to skim JSON out of surrounding prose or
// markdown fences.
func parseReply(raw string) (*rawReply, bool) {
	cleaned := strings.TrimSpace(raw)

	var r rawReply
	if err := json.Unmarshal([]byte(cleaned), &r); err == nil {
		return &r, true
	}

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first < 0 || last <= first {
		return nil, false
	}

	r = rawReply{}
	if err := json.Unmarshal([]byte(cleaned[first:last+1]), &r); err != nil {
		return nil, false
	}
	return &r, true
}

// coerceError builds a [types.TextError] from one raw element, defaulting
// every field independently. index is the element's position in the parsed
// array, used for the fallback ID.
func coerceError(raw json.RawMessage, index int, originalText string) types.TextError {
	var e rawError
	// A type-mismatched element decodes to the zero value; defaults below
	// still produce a well-formed TextError.
	_ = json.Unmarshal(raw, &e)

	te := types.TextError{
		ID:          e.ID,
		Kind:        types.NormalizeKind(e.Type),
		Message:     e.Message,
		Suggestions: e.Suggestions,
	}
	if te.ID == "" {
		te.ID = "error-" + strconv.Itoa(index)
	}
	if te.Message == "" {
		te.Message = placeholderMessage
	}
	if te.Suggestions == nil {
		te.Suggestions = []string{}
	}
	if e.Start != nil {
		te.Start = int(*e.Start)
	}
	if e.End != nil {
		te.End = int(*e.End)
	}

	if e.Context != nil && *e.Context != "" {
		te.Context = *e.Context
	} else {
		te.Context = sliceBetween(originalText, te.Start, te.End)
	}
	return te
}

// sliceBetween extracts originalText[start:end], clamping both offsets into
// range. Returns "" for inverted or out-of-range spans.
func sliceBetween(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start >= end {
		return ""
	}
	return s[start:end]
}
