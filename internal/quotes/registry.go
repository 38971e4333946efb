package quotes

import (
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Provider)
)

func init() {
	Register(NewStatic())
}

// Register registers a quote provider.
func Register(p Provider) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if p == nil {
		panic("quotes: Register provider is nil")
	}
	if _, dup := registry[p.Name()]; dup {
		panic("quotes: Register called twice for provider " + p.Name())
	}
	registry[p.Name()] = p
}

// Get returns a quote provider by name.
func Get(name string) (Provider, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := registry[name]
	return p, ok
}

// List returns a sorted list of registered provider names.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	var names []string
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
