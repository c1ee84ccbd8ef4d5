package search

import "errors"

// Validation and outcome errors returned by Search. All of them are recoverable: the caller
// is expected to let the user adjust inputs and retry. Division guards in the valuation
// engine never surface here; they resolve to zero.
var (
	// ErrMissingTarget is returned when the shipment has no target box count.
	ErrMissingTarget = errors.New("search: target box count not set")
	// ErrInvalidAdjustableCount is returned unless exactly 2 or 3 distinct lines are adjustable.
	ErrInvalidAdjustableCount = errors.New("search: exactly 2 or 3 adjustable lines required")
	// ErrUnknownLine is returned when an adjustable key does not name a selected shipment line.
	ErrUnknownLine = errors.New("search: unknown adjustable line")
	// ErrNegativeRemainder is returned when fixed lines already exceed the target box count.
	ErrNegativeRemainder = errors.New("search: fixed lines exceed target box count")
	// ErrInvalidRange is returned when adjustment ranges cannot cover the boxes to distribute.
	ErrInvalidRange = errors.New("search: incompatible adjustment range")
	// ErrNoFeasibleSolution is returned when no unseen distribution passes the feasibility gate.
	ErrNoFeasibleSolution = errors.New("search: no feasible distribution")
)
