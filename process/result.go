package process

import (
	"strings"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the captured standard error.
	Stderr []byte
	// ExitCode is the process exit code. -1 if the process was killed.
	ExitCode int
	// Duration is how long the process ran.
	Duration time.Duration
}

// StderrTail returns the last n lines of stderr, trimmed. Tools like ffmpeg
// print a long banner before the line that explains a failure.
func (r *Result) StderrTail(n int) string {
	if r == nil || n <= 0 {
		return ""
	}
	lines := strings.Split(strings.TrimRight(string(r.Stderr), "\r\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
