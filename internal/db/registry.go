package db

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds an unconnected backend from a settings record.
type Factory func(cfg *Config) (Database, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a backend available under an engine identifier.
// Engines call this from their package init, database/sql style.
// It panics if the name is empty, the factory nil, or the name taken.
func Register(engine string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if engine == "" {
		panic("db: Register engine name is empty")
	}
	if factory == nil {
		panic("db: Register factory is nil")
	}
	if _, dup := registry[engine]; dup {
		panic("db: Register called twice for engine " + engine)
	}
	registry[engine] = factory
}

// Engines returns the registered engine identifiers, sorted.
func Engines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open builds the backend the settings record names. The backend is not
// yet connected; callers drive Connect themselves.
func Open(cfg *Config) (Database, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil database settings: %w", ErrMisconfigured)
	}
	registryMu.RLock()
	factory, ok := registry[cfg.Engine]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown database engine %q (registered: %v): %w",
			cfg.Engine, Engines(), ErrMisconfigured)
	}
	return factory(cfg)
}
