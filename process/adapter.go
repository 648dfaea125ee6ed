package process

import (
	"context"
	"os/exec"
	"time"

	"github.com/kbukum/meetingnotes/provider"
)

var _ provider.RequestResponse[Command, *Result] = (*Adapter)(nil)

// Config configures a process adapter.
type Config struct {
	// Name identifies this adapter instance.
	Name string `yaml:"name,omitempty" mapstructure:"name"`
	// Binary is checked on PATH by IsAvailable. Optional.
	Binary string `yaml:"binary,omitempty" mapstructure:"binary"`
	// GracePeriod is the default grace period for SIGTERM to SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout is the default execution timeout. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
}

// Adapter exposes subprocess execution as a provider.RequestResponse so it can
// be wrapped with provider middleware and swapped for a fake in tests.
type Adapter struct {
	config Config
}

// NewAdapter creates a new process adapter.
func NewAdapter(cfg Config) *Adapter {
	if cfg.Name == "" {
		cfg.Name = cfg.Binary
	}
	return &Adapter{config: cfg}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// IsAvailable reports whether the configured binary resolves on PATH. Adapters
// without a binary are always available.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	if a.config.Binary == "" {
		return true
	}
	_, err := exec.LookPath(a.config.Binary)
	return err == nil
}

// Execute runs cmd, applying adapter-level defaults.
func (a *Adapter) Execute(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		cmd.Binary = a.config.Binary
	}
	if cmd.GracePeriod == 0 && a.config.GracePeriod > 0 {
		cmd.GracePeriod = a.config.GracePeriod
	}
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}
	return Run(ctx, cmd)
}
