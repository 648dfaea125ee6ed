package transcription

import "github.com/kbukum/meetingnotes/provider"

// Registry selects a transcription backend by Config.Provider. Backends add
// themselves with their package-level Register function.
type Registry = provider.Registry[Config, Provider]

// NewRegistry creates an empty transcription registry.
func NewRegistry() *Registry {
	return provider.NewRegistry[Config, Provider]()
}
