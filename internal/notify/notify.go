// Package notify posts short progress messages to a Discord-compatible
// webhook. Delivery is best effort: failures are logged and never returned
// to the workflow.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/kbukum/meetingnotes/httpclient"
	"github.com/kbukum/meetingnotes/httpclient/rest"
	"github.com/kbukum/meetingnotes/logger"
	"github.com/kbukum/meetingnotes/provider"
	"github.com/kbukum/meetingnotes/util"
)

// Notifier sends a message and never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

var (
	_ Notifier              = (*Discord)(nil)
	_ provider.Sink[string] = (*Discord)(nil)
	_ provider.Closeable    = (*Discord)(nil)
)

// ErrNotConfigured is returned by Send when no webhook URL is set.
var ErrNotConfigured = errors.New("notify: webhook url not configured")

const defaultTimeout = 10 * time.Second

// Config configures the webhook notifier.
type Config struct {
	WebhookURL string        `yaml:"webhook_url" mapstructure:"webhook_url"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

type message struct {
	Content string `json:"content"`
}

// Discord posts {"content": message} to a webhook URL.
type Discord struct {
	client *rest.Client
	url    string
	log    *logger.Logger
}

// NewDiscord creates a notifier. An empty webhook URL is allowed; Notify then
// only logs a warning.
func NewDiscord(cfg Config, log *logger.Logger) (*Discord, error) {
	cfg.ApplyDefaults()
	client, err := rest.New(httpclient.Config{Name: "discord", Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Discord{client: client, url: cfg.WebhookURL, log: log.WithComponent("notify")}, nil
}

// Name returns "discord".
func (d *Discord) Name() string { return "discord" }

// IsAvailable reports whether a webhook URL is configured.
func (d *Discord) IsAvailable(_ context.Context) bool { return d.url != "" }

// Close releases idle connections.
func (d *Discord) Close(ctx context.Context) error { return d.client.Close(ctx) }

// Send posts the message and returns any delivery error.
func (d *Discord) Send(ctx context.Context, msg string) error {
	if d.url == "" {
		return ErrNotConfigured
	}
	_, err := rest.Post[struct{}](ctx, d.client, d.url, message{Content: msg})
	return err
}

// Notify posts the message. A missing URL logs a warning; a failed post logs
// an error. Neither is returned.
func (d *Discord) Notify(ctx context.Context, msg string) {
	log := d.log.WithContext(ctx)
	err := d.Send(ctx, msg)
	switch {
	case errors.Is(err, ErrNotConfigured):
		log.Warn("Discord webhook URL is missing, notification skipped", logger.Fields("message", msg))
	case err != nil:
		fields := logger.Fields(
			"message", msg,
			"webhook", util.MaskSecret(d.url, 33),
			"reason", rest.Reason(err),
			"retryable", httpclient.IsRetryable(err),
		)
		log.Error("Failed to send Discord notification", logger.MergeWithError(fields, err))
	default:
		log.Info("Sent Discord notification", logger.Fields("message", msg))
	}
}

// Nop discards every message.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, string) {}
