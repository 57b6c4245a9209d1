package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/voxnote/voxnote/internal/transcribe"
)

// Factory creates an engine from a config map.
type Factory func(config map[string]string) (transcribe.Engine, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register adds a named engine factory. Backends call this from init().
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// Create instantiates the named engine.
func Create(name string, config map[string]string) (transcribe.Engine, error) {
	mu.RLock()
	factory, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown ASR backend %q (available: %v)", name, List())
	}
	return factory(config)
}

// List returns all registered backend names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
