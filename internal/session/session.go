// Package session keeps an in-memory usage aggregate for the running server.
//
// The aggregate is an explicit collaborator passed by reference: the checker
// and the HTTP layer notify it through narrow record methods and never read
// it back. Operators can snapshot it via [Aggregate.Summary], exposed
// read-only at GET /api/session.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Aggregate accumulates per-process usage counters. Safe for concurrent use.
type Aggregate struct {
	mu sync.Mutex

	id      string
	started time.Time

	textChecks         int
	errorsFound        int
	suggestionsApplied int
	checkFailures      int
	charactersChecked  int
}

// New creates an empty [Aggregate] with a fresh session ID.
func New() *Aggregate {
	return &Aggregate{
		id:      uuid.NewString(),
		started: time.Now(),
	}
}

// CheckStarted records one check attempt over textLen characters.
func (a *Aggregate) CheckStarted(textLen int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.textChecks++
	a.charactersChecked += textLen
}

// CheckCompleted records a successful check that reported errorsFound issues.
func (a *Aggregate) CheckCompleted(_, errorsFound int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errorsFound += errorsFound
}

// CheckFailed records a check that ended in a propagated failure.
func (a *Aggregate) CheckFailed(string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checkFailures++
}

// SuggestionApplied records one accepted suggestion.
func (a *Aggregate) SuggestionApplied() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.suggestionsApplied++
}

// Summary is a point-in-time snapshot of the aggregate with derived rates.
type Summary struct {
	SessionID          string  `json:"sessionId"`
	StartedAt          string  `json:"startedAt"`
	UptimeSeconds      float64 `json:"uptimeSeconds"`
	TextChecks         int     `json:"textChecks"`
	ErrorsFound        int     `json:"errorsFound"`
	SuggestionsApplied int     `json:"suggestionsApplied"`
	CheckFailures      int     `json:"checkFailures"`
	CharactersChecked  int     `json:"charactersChecked"`

	// AverageTextLength is CharactersChecked / TextChecks; zero when no
	// checks have run.
	AverageTextLength float64 `json:"averageTextLength"`

	// ErrorRate is ErrorsFound / CharactersChecked.
	ErrorRate float64 `json:"errorRate"`

	// SuggestionAcceptanceRate is SuggestionsApplied / ErrorsFound.
	SuggestionAcceptanceRate float64 `json:"suggestionAcceptanceRate"`
}

// Summary returns a consistent snapshot of the aggregate.
func (a *Aggregate) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Summary{
		SessionID:          a.id,
		StartedAt:          a.started.UTC().Format(time.RFC3339),
		UptimeSeconds:      time.Since(a.started).Seconds(),
		TextChecks:         a.textChecks,
		ErrorsFound:        a.errorsFound,
		SuggestionsApplied: a.suggestionsApplied,
		CheckFailures:      a.checkFailures,
		CharactersChecked:  a.charactersChecked,
	}
	if a.textChecks > 0 {
		s.AverageTextLength = float64(a.charactersChecked) / float64(a.textChecks)
	}
	if a.charactersChecked > 0 {
		s.ErrorRate = float64(a.errorsFound) / float64(a.charactersChecked)
	}
	if a.errorsFound > 0 {
		s.SuggestionAcceptanceRate = float64(a.suggestionsApplied) / float64(a.errorsFound)
	}
	return s
}
