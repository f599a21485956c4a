package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Discovery Method Errors.
	//
	// These never cross the orchestrator boundary. Each discovery method
	// catches them and reports the failure inside its MethodOutcome.

	// ErrNetwork indicates a fetch or connection failure.
	ErrNetwork = errors.New("network error")

	// ErrTimeout indicates a method exceeded its time budget.
	ErrTimeout = errors.New("timed out")

	// ErrParse indicates a response was received but not in the expected
	// shape: malformed payload or missing expected link patterns.
	ErrParse = errors.New("parse error")

	// ErrQuota indicates the external API rate or quota was exhausted.
	ErrQuota = errors.New("quota exhausted")

	// ErrNotApplicable indicates a method had insufficient metadata to run,
	// e.g. the video API method without a channel handle.
	ErrNotApplicable = errors.New("method not applicable")
)
