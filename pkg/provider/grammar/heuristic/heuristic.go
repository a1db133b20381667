// Package heuristic implements a local, pattern-based grammar checker used
// when no remote provider is configured.
//
// The checker holds a fixed, ordered rule set of common misspellings and
// homophone confusions. It is fully deterministic: the same input always
// yields the same errors in the same order, which makes it the last resort of
// the fallback chain and a convenient backend for development without API
// keys. Rules from different patterns may overlap in the text; each rule
// contributes its matches independently and no de-duplication is performed.
package heuristic

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/inklint/inklint/pkg/provider/grammar"
	"github.com/inklint/inklint/pkg/types"
)

// confidence is fixed for all heuristic results; local rules are precise but
// cover a tiny slice of real-world errors.
const confidence = 0.85

// rule is one pattern entry. When the expression contains a capture group,
// the group bounds the reported error span; the full match is only used to
// anchor context words (e.g. "their" flagged only before "is"/"are").
type rule struct {
	re          *regexp.Regexp
	kind        types.ErrorKind
	suggestions []string
}

// rules is evaluated in order; rule index is part of each error ID.
var rules = []rule{
	{regexp.MustCompile(`(?i)\bteh\b`), types.KindSpelling, []string{"the"}},
	{regexp.MustCompile(`(?i)\brecieve\b`), types.KindSpelling, []string{"receive"}},
	{regexp.MustCompile(`(?i)\b(their)\s+(?:is|are|was|were)\b`), types.KindGrammar, []string{"there"}},
	{regexp.MustCompile(`(?i)\b(your)\s+(?:welcome|right)\b`), types.KindGrammar, []string{"you're"}},
}

// Checker is the pattern-based fallback grammar checker.
// The zero value is not usable; construct with [New].
type Checker struct {
	delay time.Duration
}

var _ grammar.Checker = (*Checker)(nil)

// Option is a functional option for configuring a [Checker].
type Option func(*Checker)

// WithSimulatedLatency makes Check pause for d before returning, so locally
// served results pace like a real provider round-trip. Zero disables the
// pause.
func WithSimulatedLatency(d time.Duration) Option {
	return func(c *Checker) { c.delay = d }
}

// New returns a [Checker] with the built-in rule set.
func New(opts ...Option) *Checker {
	c := &Checker{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Check scans text against every rule in order and returns the combined
// result. It never fails on its own; the only possible error is context
// cancellation during the optional simulated latency pause.
func (c *Checker) Check(ctx context.Context, text string) (*types.CorrectionResult, error) {
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	errs := []types.TextError{}
	for ruleIdx, r := range rules {
		for _, m := range r.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[0], m[1]
			if len(m) >= 4 && m[2] >= 0 {
				// Capture group narrows the span to the offending word.
				start, end = m[2], m[3]
			}
			matched := text[start:end]
			errs = append(errs, types.TextError{
				ID:          fmt.Sprintf("mock-error-%d-%d", ruleIdx, start),
				Kind:        r.kind,
				Start:       start,
				End:         end,
				Context:     matched,
				Message:     message(r.kind, matched),
				Suggestions: r.suggestions,
			})
		}
	}

	conf := confidence
	return &types.CorrectionResult{
		Errors:        errs,
		CorrectedText: applyAll(text, errs),
		Confidence:    &conf,
	}, nil
}

// message templates the per-kind explanation around the matched text.
func message(kind types.ErrorKind, matched string) string {
	if kind == types.KindSpelling {
		return fmt.Sprintf("Possible spelling mistake: %q", matched)
	}
	return fmt.Sprintf("Grammar issue detected: %q", matched)
}

// applyAll derives the corrected text by splicing each error's first
// suggestion at its original offsets, processed in descending start order so
// earlier replacements cannot shift offsets still pending. When two rule
// matches overlap, the later-position replacement lands first and the
// lower-offset one then operates on shifted text; the possibly inconsistent
// outcome is an accepted approximation of this checker, not corrected.
func applyAll(text string, errs []types.TextError) string {
	ordered := make([]types.TextError, len(errs))
	copy(ordered, errs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start > ordered[j].Start
	})

	out := text
	for _, e := range ordered {
		if len(e.Suggestions) == 0 {
			continue
		}
		if e.Start < 0 || e.End > len(out) || e.Start > e.End {
			continue
		}
		out = out[:e.Start] + e.Suggestions[0] + out[e.End:]
	}
	return out
}
