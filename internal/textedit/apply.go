// Package textedit implements the position-dependent text operations that
// consume a correction result: applying an accepted suggestion and
// partitioning text into highlightable spans.
//
// Both operations re-anchor on each error's Context string at use time
// instead of trusting the stored Start/End offsets, because offsets go stale
// the moment the text is edited. Offsets are a hint; Context is the locator.
package textedit

import (
	"strings"

	"github.com/inklint/inklint/pkg/types"
)

// Apply replaces the first occurrence of the target error's Context in text
// with suggestion and returns the new text together with the remaining
// errors (every error except the applied one).
//
// An unknown errorID is a silent no-op returning the inputs unchanged — the
// UI may race a stale click against a text edit, and that race is not a
// failure. Remaining errors are not re-validated against the new text; their
// contexts and offsets may now be stale, and re-validation is deferred to
// the next explicit check.
func Apply(text string, errs []types.TextError, errorID, suggestion string) (string, []types.TextError) {
	idx := -1
	for i := range errs {
		if errs[i].ID == errorID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return text, errs
	}

	newText := strings.Replace(text, errs[idx].Context, suggestion, 1)

	remaining := make([]types.TextError, 0, len(errs)-1)
	remaining = append(remaining, errs[:idx]...)
	remaining = append(remaining, errs[idx+1:]...)
	return newText, remaining
}
