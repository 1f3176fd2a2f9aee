package compressor

import (
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds (name, factory) to the process-wide registry. It fails
// fatally (matching backends.Register's "call during package
// initialization" contract, but with the self-consistency check spec
// §4.1 requires) if name is empty, already registered, or if
// factory().TypeString() != name.
//
// Register is meant to be called from a scheme package's init(), the
// same way backends/xla and backends/simplego self-register with
// backends.Register.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if name == "" {
		Panic(KindConfiguration, "cannot register a compressor with an empty name")
	}
	if _, exists := registry[name]; exists {
		Panic(KindConfiguration, "compressor %q already registered", name)
	}
	instance := factory()
	if got := instance.TypeString(); got != name {
		Panic(KindConfiguration, "compressor factory registered as %q reports TypeString() == %q", name, got)
	}
	registry[name] = factory
}

// Create returns a fresh instance of the compressor registered under
// name. It fails fatally if name is unknown.
func Create(name string) Compressor {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		Panic(KindConfiguration, "unknown compressor %q (forgot a blank import of its package?)", name)
	}
	return factory()
}

// Registered returns the names currently registered, for diagnostics
// (e.g. cmd/gradbench --list).
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// unregisterForTest removes an entry; only used by registry_test.go to
// keep tests independent of registration order.
func unregisterForTest(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, name)
}
