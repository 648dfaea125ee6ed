// Package util holds small helpers shared by config and logging code:
// human-readable sizes, secret masking and zero-value coalescing.
package util
