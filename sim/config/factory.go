// Package config provides YAML-based topology loading for simulations: a
// serializable Document describing models and connectors, and a
// ModelFactory registry mapping each document model's declared type to a
// constructor, mirroring the teacher's Engine node registry.
package config

import (
	"fmt"
	"sync"

	"github.com/go-devs/devsim/sim"
)

// ModelBuilder constructs a DevsModel from a document model's config
// payload. config holds the model's type-specific fields as decoded by
// ModelDoc (in YAML, every key beside id and type; nil when there are
// none); builders are responsible for interpreting it themselves.
type ModelBuilder func(id string, config map[string]interface{}) (sim.DevsModel, error)

// ModelFactory is a mutex-guarded registry of model type names to
// builders, modeled on the teacher's Engine.Add: duplicate registration
// is rejected rather than silently overwritten, and a nil receiver
// fails gracefully instead of panicking.
type ModelFactory struct {
	mu       sync.RWMutex
	builders map[string]ModelBuilder
}

// NewModelFactory creates an empty factory.
func NewModelFactory() *ModelFactory {
	return &ModelFactory{builders: make(map[string]ModelBuilder)}
}

// Register associates typeName with a builder. Registering the same
// typeName twice fails with a SerializationError rather than overwriting
// the earlier registration, the same duplicate-rejection posture the
// teacher's Engine.Add takes for node ids.
func (f *ModelFactory) Register(typeName string, builder ModelBuilder) error {
	if f == nil {
		return &sim.SimulationError{Kind: sim.ErrKindSerializationError, Message: "model factory is nil"}
	}
	if typeName == "" {
		return &sim.SimulationError{Kind: sim.ErrKindSerializationError, Message: "model type name cannot be empty"}
	}
	if builder == nil {
		return &sim.SimulationError{Kind: sim.ErrKindSerializationError, Message: "model builder cannot be nil"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.builders[typeName]; exists {
		return &sim.SimulationError{
			Kind:    sim.ErrKindSerializationError,
			Message: fmt.Sprintf("model type already registered: %s", typeName),
		}
	}
	f.builders[typeName] = builder
	return nil
}

// Build constructs a Model of the given type with the given id and
// config payload, failing with a SerializationError if typeName was
// never registered.
func (f *ModelFactory) Build(id, typeName string, modelConfig map[string]interface{}) (sim.Model, error) {
	if f == nil {
		return sim.Model{}, &sim.SimulationError{Kind: sim.ErrKindSerializationError, Message: "model factory is nil"}
	}

	f.mu.RLock()
	builder, ok := f.builders[typeName]
	f.mu.RUnlock()

	if !ok {
		return sim.Model{}, &sim.SimulationError{
			Kind:    sim.ErrKindSerializationError,
			Message: fmt.Sprintf("no builder registered for model type: %s", typeName),
			ModelID: id,
		}
	}

	inner, err := builder(id, modelConfig)
	if err != nil {
		return sim.Model{}, &sim.SimulationError{
			Kind:    sim.ErrKindSerializationError,
			Message: fmt.Sprintf("failed to build model %s of type %s: %v", id, typeName, err),
			ModelID: id,
			Cause:   err,
		}
	}
	return sim.NewModel(id, inner), nil
}
