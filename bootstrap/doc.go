// Package bootstrap runs the application lifecycle: config defaults and
// validation, logger initialization, start and stop hooks, the startup ready
// check and summary, and graceful shutdown on SIGINT or SIGTERM.
package bootstrap
