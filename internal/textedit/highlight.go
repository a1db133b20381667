package textedit

import (
	"sort"
	"strings"

	"github.com/inklint/inklint/pkg/types"
)

// Partition splits text into an ordered sequence of plain and error spans.
// Concatenating the span texts reproduces text exactly, for any error set.
//
// Only errors whose Context is present in text are eligible. Eligible errors
// are walked in ascending Start order (stable, so detection order breaks
// ties) with a left-to-right cursor: each error claims the next occurrence
// of its Context at or after the cursor. An error whose Context cannot be
// found past the cursor — its region was already consumed by an earlier,
// overlapping match — is skipped entirely rather than emitted twice.
func Partition(text string, errs []types.TextError) []types.Span {
	eligible := make([]types.TextError, 0, len(errs))
	for _, e := range errs {
		if e.Context != "" && strings.Contains(text, e.Context) {
			eligible = append(eligible, e)
		}
	}
	if len(eligible) == 0 {
		return []types.Span{{Text: text}}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Start < eligible[j].Start
	})

	spans := make([]types.Span, 0, 2*len(eligible)+1)
	cursor := 0
	for i := range eligible {
		e := eligible[i]
		rel := strings.Index(text[cursor:], e.Context)
		if rel < 0 {
			continue
		}
		at := cursor + rel
		if at > cursor {
			spans = append(spans, types.Span{Text: text[cursor:at]})
		}
		spans = append(spans, types.Span{Text: e.Context, Err: &eligible[i]})
		cursor = at + len(e.Context)
	}

	if cursor < len(text) {
		spans = append(spans, types.Span{Text: text[cursor:]})
	}
	if len(spans) == 0 {
		return []types.Span{{Text: text}}
	}
	return spans
}
