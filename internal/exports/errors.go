package exports

import "errors"

var (
	// ErrNotFound is returned when an export does not exist for the owner.
	ErrNotFound = errors.New("export not found")

	// ErrInvalidInput indicates a missing owner or an unknown template.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGeneration wraps failures while printing the document.
	ErrGeneration = errors.New("export generation failed")

	// ErrQueueUnavailable is returned by Enqueue when no queue is configured.
	ErrQueueUnavailable = errors.New("export queue not configured")
)
