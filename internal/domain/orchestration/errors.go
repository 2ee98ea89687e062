package orchestration

import "errors"

var (
	// ErrValidation is returned for requests the orchestrator cannot accept.
	ErrValidation = errors.New("invalid process request")
	// ErrOrchestration marks a failure of orchestration logic itself, as
	// opposed to an individual pathway failure.
	ErrOrchestration = errors.New("orchestration failed")
)
