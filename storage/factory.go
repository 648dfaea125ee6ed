package storage

import (
	"fmt"
	"sync"

	"github.com/kbukum/meetingnotes/logger"
)

// Factory creates a Storage implementation from config.
type Factory func(cfg Config, log *logger.Logger) (Storage, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// RegisterFactory registers a storage backend factory for the given provider
// name. Backend packages call this from init.
func RegisterFactory(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// New creates a Storage implementation based on the given Config. Import
// the backend package (e.g. _ "github.com/kbukum/meetingnotes/storage/local")
// so its factory is registered.
func New(cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported provider %q (not registered)", cfg.Provider)
	}

	if log == nil {
		log = logger.GetGlobalLogger()
	}
	l := log.WithComponent("storage")
	l.Info("initializing storage", logger.Fields("provider", cfg.Provider, "base_path", cfg.BasePath))
	return f(cfg, l)
}

// NewLocal is New for callers that need filesystem paths. It fails when the
// configured backend is not local.
func NewLocal(cfg Config, log *logger.Logger) (LocalStorage, error) {
	s, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	ls, ok := s.(LocalStorage)
	if !ok {
		return nil, fmt.Errorf("storage: provider %q does not expose local paths", cfg.Provider)
	}
	return ls, nil
}
