package normalize_test

import (
	"fmt"
	"testing"

	"github.com/inklint/inklint/internal/normalize"
	"github.com/inklint/inklint/pkg/types"
)

func TestNormalize_StrictJSON(t *testing.T) {
	t.Parallel()

	raw := `{
		"errors": [
			{"id": "e1", "type": "spelling", "start": 2, "end": 5, "context": "teh", "message": "Misspelled word", "suggestions": ["the"]}
		],
		"correctedText": "I the cat",
		"confidence": 0.95
	}`
	res := normalize.Normalize(raw, "I teh cat")

	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(res.Errors))
	}
	e := res.Errors[0]
	if e.ID != "e1" || e.Kind != types.KindSpelling || e.Start != 2 || e.End != 5 {
		t.Errorf("unexpected error fields: %+v", e)
	}
	if e.Context != "teh" {
		t.Errorf("Context=%q, want %q", e.Context, "teh")
	}
	if res.CorrectedText != "I the cat" {
		t.Errorf("CorrectedText=%q, want %q", res.CorrectedText, "I the cat")
	}
	if res.Confidence == nil || *res.Confidence != 0.95 {
		t.Errorf("Confidence=%v, want 0.95", res.Confidence)
	}
}

func TestNormalize_JSONInsideMarkdownFence(t *testing.T) {
	t.Parallel()

	raw := "Sure! Here is the analysis:\n```json\n" +
		`{"errors": [], "correctedText": "All good.", "confidence": 0.9}` +
		"\n```\nLet me know if you need anything else."
	res := normalize.Normalize(raw, "All good.")

	if len(res.Errors) != 0 {
		t.Fatalf("got %d errors, want 0", len(res.Errors))
	}
	if res.CorrectedText != "All good." {
		t.Errorf("CorrectedText=%q, want %q", res.CorrectedText, "All good.")
	}
	if res.Confidence == nil || *res.Confidence != 0.9 {
		t.Errorf("Confidence=%v, want 0.9", res.Confidence)
	}
}

func TestNormalize_GarbageIsNeverFatal(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"   ",
		"I could not analyse this text, sorry.",
		"{broken json",
		"}{",
		"null",
		`"just a string"`,
	}
	for _, raw := range inputs {
		res := normalize.Normalize(raw, "original text")
		if res == nil {
			t.Fatalf("Normalize(%q) returned nil", raw)
		}
		if res.Errors == nil {
			t.Errorf("Normalize(%q): Errors is nil, want empty slice", raw)
		}
		if res.CorrectedText != "original text" {
			t.Errorf("Normalize(%q): CorrectedText=%q, want original", raw, res.CorrectedText)
		}
	}
}

func TestNormalize_DefaultsEveryField(t *testing.T) {
	t.Parallel()

	// Three elements: one empty object, one with an unknown type and missing
	// offsets, one that is not even an object.
	raw := `{"errors": [{}, {"type": "nonsense", "message": "odd spacing"}, 42]}`
	res := normalize.Normalize(raw, "some text")

	if len(res.Errors) != 3 {
		t.Fatalf("got %d errors, want 3", len(res.Errors))
	}
	for i, e := range res.Errors {
		wantID := fmt.Sprintf("error-%d", i)
		if e.ID != wantID {
			t.Errorf("errors[%d].ID=%q, want %q", i, e.ID, wantID)
		}
		if !e.Kind.IsValid() {
			t.Errorf("errors[%d].Kind=%q is not valid", i, e.Kind)
		}
		if e.Message == "" {
			t.Errorf("errors[%d].Message is empty", i)
		}
		if e.Suggestions == nil {
			t.Errorf("errors[%d].Suggestions is nil", i)
		}
	}
	if res.Errors[0].Kind != types.KindGrammar {
		t.Errorf("empty element Kind=%q, want grammar default", res.Errors[0].Kind)
	}
	if res.Errors[1].Kind != types.KindGrammar {
		t.Errorf("unknown type Kind=%q, want grammar default", res.Errors[1].Kind)
	}
	if res.Errors[1].Message != "odd spacing" {
		t.Errorf("message not preserved: %q", res.Errors[1].Message)
	}
	if res.CorrectedText != "some text" {
		t.Errorf("CorrectedText=%q, want original fallback", res.CorrectedText)
	}
	if res.Confidence == nil || *res.Confidence != 0.8 {
		t.Errorf("Confidence=%v, want 0.8 default", res.Confidence)
	}
}

func TestNormalize_ContextFallsBackToOffsets(t *testing.T) {
	t.Parallel()

	original := "She dont like it"
	raw := `{"errors": [{"type": "grammar", "start": 4, "end": 8, "message": "Missing apostrophe", "suggestions": ["don't"]}]}`
	res := normalize.Normalize(raw, original)

	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(res.Errors))
	}
	if got := res.Errors[0].Context; got != "dont" {
		t.Errorf("Context=%q, want %q", got, "dont")
	}
}

func TestNormalize_OutOfRangeOffsets(t *testing.T) {
	t.Parallel()

	raw := `{"errors": [{"start": -3, "end": 999, "message": "whole text"}]}`
	res := normalize.Normalize(raw, "short")

	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(res.Errors))
	}
	// Clamped slice covers the whole original text.
	if got := res.Errors[0].Context; got != "short" {
		t.Errorf("Context=%q, want %q", got, "short")
	}
}

func TestNormalize_FractionalOffsets(t *testing.T) {
	t.Parallel()

	raw := `{"errors": [{"start": 2.0, "end": 5.0, "message": "m"}], "correctedText": "x"}`
	res := normalize.Normalize(raw, "abcdefg")

	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(res.Errors))
	}
	if res.Errors[0].Start != 2 || res.Errors[0].End != 5 {
		t.Errorf("offsets=(%d,%d), want (2,5)", res.Errors[0].Start, res.Errors[0].End)
	}
}
