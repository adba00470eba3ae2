package sim

import "github.com/go-devs/devsim/sim/emit"

// Option is a functional option for configuring a Simulation at
// construction time.
//
// Functional options keep NewSimulation's signature stable as
// configuration grows:
//
//	sim, err := NewSimulation(
//	    WithModels(models),
//	    WithConnectors(connectors),
//	    WithSeed("run-001"),
//	    WithEmitter(emit.NewLogEmitter(os.Stdout, false)),
//	)
type Option func(*simulationConfig) error

// simulationConfig collects options before they are applied to a
// Simulation, mirroring the teacher's engineConfig indirection.
type simulationConfig struct {
	models     []Model
	connectors []Connector
	seed       string
	emitter    emit.Emitter
	metrics    *PrometheusMetrics
}

// WithModels supplies the initial model set.
func WithModels(models []Model) Option {
	return func(cfg *simulationConfig) error {
		cfg.models = models
		return nil
	}
}

// WithConnectors supplies the initial connector set.
func WithConnectors(connectors []Connector) Option {
	return func(cfg *simulationConfig) error {
		cfg.connectors = connectors
		return nil
	}
}

// WithSeed seeds the simulation's shared RNG deterministically. Without
// this option the RNG is seeded from the zero-value seed string, which
// is itself deterministic but not tied to any particular run identity.
func WithSeed(seed string) Option {
	return func(cfg *simulationConfig) error {
		cfg.seed = seed
		return nil
	}
}

// WithEmitter attaches an observability sink. Without this option events
// are discarded (equivalent to emit.NewNullEmitter()).
func WithEmitter(emitter emit.Emitter) Option {
	return func(cfg *simulationConfig) error {
		cfg.emitter = emitter
		return nil
	}
}

// WithMetrics attaches a PrometheusMetrics collector. Without this
// option no metrics are recorded.
func WithMetrics(metrics *PrometheusMetrics) Option {
	return func(cfg *simulationConfig) error {
		cfg.metrics = metrics
		return nil
	}
}
