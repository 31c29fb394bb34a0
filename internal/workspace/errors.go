package workspace

import "errors"

var (
	// ErrConfirmationRequired is returned by Reset when the caller has not confirmed.
	ErrConfirmationRequired = errors.New("reset requires confirmation")

	// ErrGeneration wraps failures while building the preview document.
	ErrGeneration = errors.New("preview generation failed")

	// ErrInvalidInput indicates a request the form cannot apply.
	ErrInvalidInput = errors.New("invalid input")
)

// User-facing messages shown after each action.
const (
	MessageSaved          = "Progress saved!"
	MessageLoaded         = "Progress loaded!"
	MessageNoSavedData    = "No saved data found."
	MessageReset          = "Form has been reset."
	MessageConfirmReset   = "Are you sure you want to reset? All unsaved changes will be lost."
	MessageGenerationFail = "An unexpected error occurred while generating the preview."
)
