// Package log provides the process-wide component logger registry.
//
// Most applications need a single registry: this package creates it lazily from the
// default configuration and exposes the registry operations as package functions.
// NewWithDefaults builds a standalone registry configured for an environment:
//
// - In the non-production environment: colored console output, loggers starting at DEBUG
// - In any other environment: plain console output, loggers starting at ERROR
//
// Usage:
//
//	netLog := log.GetLogger("Net", nil)
//	netLog.Warn("Net", "retrying connection")
//
//	for _, name := range log.Components() {
//		fmt.Println(name)
//	}
package log

import (
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/complog"
	"github.com/hyp3rd/complog/internal/constants"
	"github.com/hyp3rd/complog/pkg/component"
)

//nolint:gochecknoglobals // the default registry is process-wide by definition.
var (
	defaultMu       sync.Mutex
	defaultRegistry *component.Registry
)

// Default returns the process-wide registry, creating it from
// complog.DefaultConfig on first use.
func Default() *component.Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultRegistry == nil {
		registry, err := component.NewRegistry(complog.DefaultConfig())
		if err != nil {
			// DefaultConfig always validates.
			panic(ewrap.Wrap(err, "creating default registry"))
		}

		defaultRegistry = registry
	}

	return defaultRegistry
}

// SetDefault replaces the process-wide registry. A nil registry makes the next
// Default call create a fresh one. The previous registry is not closed.
func SetDefault(registry *component.Registry) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultRegistry = registry
}

// GetLogger returns the logger of name from the default registry.
func GetLogger(name string, build complog.BuildContext) *component.Logger {
	return Default().GetLogger(name, build)
}

// Components returns the names registered in the default registry, sorted.
func Components() []string {
	return Default().Components()
}

// Reset forgets every logger of the default registry.
func Reset() {
	Default().Reset()
}

// NewWithDefaults creates a registry configured for environment.
// The non-production environment gets DevelopmentConfig, any other one ProductionConfig.
func NewWithDefaults(environment string) (*component.Registry, error) {
	config := complog.ProductionConfig()
	if environment == constants.NonProductionEnvironment {
		config = complog.DevelopmentConfig()
	}

	if environment != "" {
		config.Environment = environment
	}

	registry, err := component.NewRegistry(config)
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to create registry")
	}

	return registry, nil
}
