package bootstrap

import (
	"github.com/kbukum/meetingnotes/config"
)

// Config is the constraint for application configuration types. Any struct
// that embeds config.ServiceConfig satisfies it through promoted methods, as
// long as it also overrides ApplyDefaults and Validate when it has sections
// of its own.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
