// Package postprocessor operates the global registry of controller code generators.
package postprocessor

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/robotpost/logging"
	"go.viam.com/robotpost/program"
	"go.viam.com/robotpost/referenceframe"
)

// A Constructor creates the post processor of a manufacturer.
type Constructor func(logger logging.Logger) program.PostProcessor

var (
	registryMu sync.RWMutex
	registry   = map[referenceframe.Manufacturer]Constructor{}
)

// Register registers the post processor of a manufacturer. Registering a manufacturer twice
// panics.
func Register(manufacturer referenceframe.Manufacturer, constructor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, old := registry[manufacturer]; old {
		panic(errors.Errorf("trying to register two post processors for manufacturer %s", manufacturer))
	}
	if constructor == nil {
		panic(errors.Errorf("cannot register a nil constructor for manufacturer %s", manufacturer))
	}
	registry[manufacturer] = constructor
}

// Lookup looks up the constructor of a manufacturer. nil is returned if there is none.
func Lookup(manufacturer referenceframe.Manufacturer) Constructor {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[manufacturer]
}

// New creates the post processor of a manufacturer.
func New(manufacturer referenceframe.Manufacturer, logger logging.Logger) (program.PostProcessor, error) {
	constructor := Lookup(manufacturer)
	if constructor == nil {
		return nil, errors.Wrapf(ErrUnsupportedManufacturer, "%s", manufacturer)
	}
	return constructor(logger), nil
}

// Registered returns the manufacturers that have a post processor, in declaration order.
func Registered() []referenceframe.Manufacturer {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]referenceframe.Manufacturer, 0, len(registry))
	for m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
