package process

import (
	"strings"
	"time"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
}

// String renders the command line for logs. Arguments containing spaces are
// quoted.
func (c Command) String() string {
	var b strings.Builder
	b.WriteString(c.Binary)
	for _, a := range c.Args {
		b.WriteByte(' ')
		if strings.ContainsAny(a, " \t") {
			b.WriteString(`"` + a + `"`)
		} else {
			b.WriteString(a)
		}
	}
	return b.String()
}
