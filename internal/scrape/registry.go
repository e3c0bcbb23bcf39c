package scrape

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory builds a strategy instance.
type Factory func() Strategy

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a strategy factory under its canonical category name.
// Strategies self-register from init.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = factory
}

// Get resolves a rotation entry to a strategy, accepting the canonical name
// or any of the category's aliases.
func Get(name string) (Strategy, error) {
	norm := strings.ToLower(strings.TrimSpace(name))

	registryMu.RLock()
	defer registryMu.RUnlock()

	if factory, ok := registry[norm]; ok {
		return factory(), nil
	}
	for _, factory := range registry {
		s := factory()
		if s.Category().Matches(norm) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown category %q (available: %s)", name, strings.Join(availableLocked(), ", "))
}

// Available lists the registered canonical category names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return availableLocked()
}

func availableLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
