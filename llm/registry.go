package llm

import "github.com/kbukum/meetingnotes/provider"

// Registry selects an LLM backend by Config.Provider.
type Registry = provider.Registry[Config, Provider]

// NewRegistry creates a registry with a factory for every registered
// dialect. SDK-backed providers add themselves with RegisterFactory.
func NewRegistry() *Registry {
	r := provider.NewRegistry[Config, Provider]()
	for _, name := range Dialects() {
		r.RegisterFactory(name, dialectFactory)
	}
	return r
}

func dialectFactory(cfg Config) (Provider, error) {
	return New(cfg)
}
