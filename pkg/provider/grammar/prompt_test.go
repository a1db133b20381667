package grammar_test

import (
	"strings"
	"testing"

	"github.com/inklint/inklint/pkg/provider/grammar"
)

func TestUserPrompt_EmbedsText(t *testing.T) {
	t.Parallel()

	p := grammar.UserPrompt("I teh cat")
	if !strings.Contains(p, `Text to analyze: "I teh cat"`) {
		t.Errorf("prompt does not embed the text:\n%s", p)
	}
	if !strings.Contains(p, "correctedText") {
		t.Error("prompt does not request the correctedText field")
	}
}

func TestUserPrompt_EscapesQuotes(t *testing.T) {
	t.Parallel()

	p := grammar.UserPrompt(`She said "hi" to me`)
	if !strings.Contains(p, `She said \"hi\" to me`) {
		t.Errorf("quotes not escaped in prompt:\n%s", p)
	}
}

func TestEscapeQuotes(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{`plain`, `plain`},
		{`"quoted"`, `\"quoted\"`},
		{``, ``},
	}
	for _, tc := range cases {
		if got := grammar.EscapeQuotes(tc.in); got != tc.want {
			t.Errorf("EscapeQuotes(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
