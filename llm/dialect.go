package llm

import (
	"fmt"
	"sort"
	"sync"
)

// Dialect maps universal LLM types to and from one provider's HTTP format.
//
// Dialect implementations live in subpackages (llm/openai, llm/ollama) and
// register themselves from init. Backends that are not plain HTTP+JSON, such
// as Gemini through its SDK, implement Provider directly instead.
type Dialect interface {
	// Name returns the dialect identifier (e.g., "ollama", "openai").
	Name() string

	// ChatPath returns the API endpoint path for chat completion (e.g., "/api/chat").
	ChatPath() string

	// HealthPath returns the health-check endpoint path. Empty means no health endpoint.
	HealthPath() string

	// Defaults returns the base URL and model used when the config leaves them empty.
	Defaults() (baseURL, model string)

	// BuildRequest maps a universal CompletionRequest to the provider's JSON request body.
	BuildRequest(req CompletionRequest) (any, error)

	// ParseResponse maps the provider's JSON response body to a universal CompletionResponse.
	ParseResponse(body []byte) (*CompletionResponse, error)
}

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// RegisterDialect adds a dialect to the global registry. Typically called
// from init() in dialect packages; importing the package registers it:
//
//	import _ "github.com/kbukum/meetingnotes/llm/ollama"
func RegisterDialect(name string, d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[name] = d
}

// GetDialect retrieves a dialect by name from the global registry.
func GetDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("llm: unknown dialect %q (forgot to import driver?)", name)
	}
	return d, nil
}

// Dialects returns the sorted names of all registered dialects.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
