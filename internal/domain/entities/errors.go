package entities

import "errors"

// Domain errors
var (
	// Input errors
	ErrEmptyIdea         = errors.New("idea text is empty")
	ErrMissingBackground = errors.New("no background selection")

	// Pipeline errors
	ErrNoBackgroundMedia = errors.New("no background media resolved")
	ErrEmptyScript       = errors.New("script service returned empty narration text")
)
