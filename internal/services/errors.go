package services

import (
	"errors"
)

// Stable error categories surfaced to the presentation layer. Handlers match
// with errors.Is and map each to its HTTP status; anything that is none of
// these is reported as an opaque internal failure.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrDuplicateReview = errors.New("duplicate review")
	ErrUnauthorized    = errors.New("not authorized")
	ErrValidation      = errors.New("validation failed")
)
