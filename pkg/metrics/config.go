package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// Registry is the Prometheus registerer to use. FromConfig selects
	// DefaultRegistry when nil.
	Registry prometheus.Registerer

	// Namespace overrides the default "goprim" namespace for metrics.
	Namespace string

	// Labels are additional constant labels added to all metrics.
	Labels prometheus.Labels
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: "goprim",
		Labels:    nil,
	}
}

// FromConfig returns the registry a component should report to, or nil when
// config disables metrics. A nil config.Registry selects DefaultRegistry.
func FromConfig(config Config) *Registry {
	if !config.Enabled {
		return nil
	}
	if config.Registry == nil {
		return DefaultRegistry
	}
	return NewRegistryWithConfig(config)
}
