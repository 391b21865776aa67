package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// Registry is the Prometheus registry to use. If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Registry: prometheus.DefaultRegisterer,
	}
}

// Instrumentable is an interface for components that can be instrumented with metrics.
type Instrumentable interface {
	// EnableMetrics enables metrics collection for this component.
	EnableMetrics(config Config) error

	// DisableMetrics disables metrics collection for this component.
	DisableMetrics()

	// MetricsEnabled returns true if metrics are currently enabled.
	MetricsEnabled() bool
}

var (
	registriesMu sync.Mutex
	registries   = map[prometheus.Registerer]*Registry{}
)

// FromConfig returns the Registry bound to config.Registry, creating and
// registering its collectors on first use. Components sharing a Registerer
// share one Registry and are told apart by their pool label. It returns nil
// when config is disabled.
func FromConfig(config Config) *Registry {
	if !config.Enabled {
		return nil
	}
	reg := config.Registry
	if reg == nil || reg == prometheus.DefaultRegisterer {
		return DefaultRegistry
	}

	registriesMu.Lock()
	defer registriesMu.Unlock()
	if r, ok := registries[reg]; ok {
		return r
	}
	r := NewRegistry(reg)
	registries[reg] = r
	return r
}
