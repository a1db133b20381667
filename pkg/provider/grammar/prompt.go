package grammar

import (
	"fmt"
	"strings"
)

// SystemPrompt is the instruction sent as the system role to chat-completion
// backends. Models without a dedicated system slot receive it inline.
const SystemPrompt = "You are a professional grammar checker. Analyze text and return detailed error information in JSON format."

// userPromptTemplate is the fixed instruction wrapping the text under review.
// It pins the exact response schema and insists that suggestions carry the
// complete replacement text for the context, never a diff fragment — models
// otherwise tend to answer with partial edits that cannot be applied.
const userPromptTemplate = `Please analyze the following text for grammar, spelling, and punctuation errors. Return a JSON response with the following structure:

{
  "errors": [
    {
      "id": "unique-id",
      "type": "grammar|spelling|punctuation|style",
      "start": start_position_in_text,
      "end": end_position_in_text,
      "context": "the problematic text",
      "message": "description of the issue",
      "suggestions": ["corrected version 1", "corrected version 2"]
    }
  ],
  "correctedText": "fully corrected version of the text",
  "confidence": 0.95
}

CRITICAL: each "suggestions" entry must contain the COMPLETE replacement text for "context", not a partial edit.

Text to analyze: "%s"

Please be thorough but only flag actual errors, not stylistic preferences unless they significantly impact clarity.`

// UserPrompt builds the instruction prompt embedding text. Double quotes in
// the text are escaped so the quoted payload inside the instruction stays
// well-formed.
func UserPrompt(text string) string {
	return fmt.Sprintf(userPromptTemplate, EscapeQuotes(text))
}

// EscapeQuotes backslash-escapes double quote characters in s.
func EscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
