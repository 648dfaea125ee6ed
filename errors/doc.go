// Package errors provides the structured error type used across meetingnotes.
// An AppError carries a machine-readable code, an HTTP status hint and
// optional details, and wraps its cause so errors.Is/As keep working.
package errors
