package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates an invalid schema document.
	ErrValidation = errors.New("validation error")

	// ErrCompile indicates a transform pipeline failure.
	ErrCompile = errors.New("compile error")

	// ErrOutput indicates a failure writing compiled artifacts.
	ErrOutput = errors.New("output error")

	// ErrNotFound indicates a schema document or directory was not found.
	ErrNotFound = errors.New("not found")
)
