// Package mock provides a test double for the grammar.Checker interface.
//
// Use Checker in unit tests to verify what text the orchestrator sends and to
// feed controlled results without a live backend. All fields are safe to set
// before calling any method; mutating them during a concurrent call is the
// caller's responsibility.
//
// Example:
//
//	c := &mock.Checker{
//	    Result: &types.CorrectionResult{CorrectedText: "fixed"},
//	}
//	res, err := c.Check(ctx, "broken")
package mock

import (
	"context"
	"sync"

	"github.com/inklint/inklint/pkg/types"
)

// Call records a single invocation of Check.
type Call struct {
	// Ctx is the context passed to Check.
	Ctx context.Context
	// Text is the input passed to Check.
	Text string
}

// Checker is a mock implementation of grammar.Checker.
// Zero values cause Check to return (nil, nil); set Result and Err to steer it.
type Checker struct {
	mu sync.Mutex

	// Result is returned by Check when Err is nil.
	Result *types.CorrectionResult

	// Err, if non-nil, is returned as the error from Check.
	Err error

	// Calls records every invocation of Check in order.
	Calls []Call
}

// Check implements grammar.Checker.
func (c *Checker) Check(ctx context.Context, text string) (*types.CorrectionResult, error) {
	c.mu.Lock()
	c.Calls = append(c.Calls, Call{Ctx: ctx, Text: text})
	c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}
	return c.Result, nil
}

// CallCount returns the number of recorded Check invocations.
func (c *Checker) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}
