package textedit_test

import (
	"testing"

	"github.com/inklint/inklint/internal/textedit"
	"github.com/inklint/inklint/pkg/types"
)

func TestApply_ReplacesContextAndRemovesError(t *testing.T) {
	t.Parallel()

	errs := []types.TextError{
		{ID: "e1", Context: "teh", Suggestions: []string{"the"}},
		{ID: "e2", Context: "recieve", Suggestions: []string{"receive"}},
	}

	newText, remaining := textedit.Apply("I teh recieve", errs, "e1", "the")

	if newText != "I the recieve" {
		t.Errorf("newText=%q, want %q", newText, "I the recieve")
	}
	if len(remaining) != 1 || remaining[0].ID != "e2" {
		t.Errorf("remaining=%+v, want only e2", remaining)
	}
}

func TestApply_ReplacesOnlyFirstOccurrence(t *testing.T) {
	t.Parallel()

	errs := []types.TextError{{ID: "e1", Context: "teh"}}

	newText, _ := textedit.Apply("teh cat saw teh dog", errs, "e1", "the")

	if newText != "the cat saw teh dog" {
		t.Errorf("newText=%q, want only the first occurrence replaced", newText)
	}
}

func TestApply_UnknownIDIsANoOp(t *testing.T) {
	t.Parallel()

	errs := []types.TextError{{ID: "e1", Context: "teh"}}

	newText, remaining := textedit.Apply("teh cat", errs, "nope", "the")

	if newText != "teh cat" {
		t.Errorf("newText=%q, want input unchanged", newText)
	}
	if len(remaining) != 1 || remaining[0].ID != "e1" {
		t.Errorf("remaining=%+v, want input error list unchanged", remaining)
	}
}

func TestApply_StaleContextStillRemovesError(t *testing.T) {
	t.Parallel()

	// The context no longer appears in the text; the splice is a no-op but
	// the error is still consumed.
	errs := []types.TextError{{ID: "e1", Context: "vanished"}}

	newText, remaining := textedit.Apply("fresh text", errs, "e1", "gone")

	if newText != "fresh text" {
		t.Errorf("newText=%q, want input unchanged", newText)
	}
	if len(remaining) != 0 {
		t.Errorf("remaining=%+v, want empty", remaining)
	}
}

func TestApply_EmptyErrorList(t *testing.T) {
	t.Parallel()

	newText, remaining := textedit.Apply("text", nil, "e1", "s")
	if newText != "text" {
		t.Errorf("newText=%q, want input unchanged", newText)
	}
	if len(remaining) != 0 {
		t.Errorf("remaining=%+v, want empty", remaining)
	}
}
