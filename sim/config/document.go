package config

import (
	"fmt"
	"os"

	yaml "go.yaml.in/yaml/v2"

	"github.com/go-devs/devsim/sim"
)

// Document is the serializable shape of a simulation topology: a flat
// list of model declarations and a flat list of connector declarations,
// matching the wire format the teacher's multi-llm-review example uses
// for its own YAML config (a top-level struct with yaml-tagged fields,
// no nested pointer indirection).
type Document struct {
	Models     []ModelDoc     `yaml:"models" json:"models"`
	Connectors []ConnectorDoc `yaml:"connectors" json:"connectors"`
}

// ModelDoc declares one model: its id, its registered factory type name,
// and an opaque config payload the matching ModelBuilder interprets. In
// YAML, type-specific fields (e.g. "interval: 2.5") sit inline at the
// model level alongside id/type rather than nested under a "config:"
// key; UnmarshalYAML/MarshalYAML on ModelDoc do the flattening so Config
// still arrives as a plain map for ModelBuilder to read. The JSON shape
// used at the sim/hostapi boundary keeps Config nested instead, since
// that boundary is produced and consumed entirely by this module's own
// code rather than hand-written by a document author.
type ModelDoc struct {
	ID     string                 `json:"id"`
	Type   string                 `json:"type"`
	Config map[string]interface{} `json:"config"`
}

// UnmarshalYAML decodes id and type from their own keys and collects
// every remaining key into Config, so "interval: 2.5" next to "id:" and
// "type:" ends up in Config["interval"] instead of being silently
// dropped as an unrecognized field.
func (m *ModelDoc) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw map[string]interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	if id, ok := raw["id"].(string); ok {
		m.ID = id
	}
	if typ, ok := raw["type"].(string); ok {
		m.Type = typ
	}
	delete(raw, "id")
	delete(raw, "type")

	if len(raw) == 0 {
		m.Config = nil
		return nil
	}
	m.Config = raw
	return nil
}

// MarshalYAML inlines Config's keys alongside id and type, the inverse
// of UnmarshalYAML, so Save round-trips the documented flat shape.
func (m ModelDoc) MarshalYAML() (interface{}, error) {
	raw := make(map[string]interface{}, len(m.Config)+2)
	for k, v := range m.Config {
		raw[k] = v
	}
	raw["id"] = m.ID
	raw["type"] = m.Type
	return raw, nil
}

// ConnectorDoc declares one connector between two model ports. The json
// tags mirror the yaml ones so the same shape can cross either the
// sim/config file-loading path or the sim/hostapi JSON boundary.
type ConnectorDoc struct {
	ID         string `yaml:"id" json:"id"`
	SourceID   string `yaml:"sourceId" json:"sourceId"`
	SourcePort string `yaml:"sourcePort" json:"sourcePort"`
	TargetID   string `yaml:"targetId" json:"targetId"`
	TargetPort string `yaml:"targetPort" json:"targetPort"`
}

// Load reads and parses a Document from a YAML file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is caller-supplied config location, not user input
	if err != nil {
		return nil, &sim.SimulationError{
			Kind:    sim.ErrKindSerializationError,
			Message: fmt.Sprintf("reading config file %s: %v", path, err),
			Cause:   err,
		}
	}
	return Parse(data)
}

// Parse decodes a Document from raw YAML bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &sim.SimulationError{
			Kind:    sim.ErrKindSerializationError,
			Message: fmt.Sprintf("parsing config: %v", err),
			Cause:   err,
		}
	}
	return &doc, nil
}

// Save writes doc as YAML to path.
func Save(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return &sim.SimulationError{
			Kind:    sim.ErrKindSerializationError,
			Message: fmt.Sprintf("marshaling config: %v", err),
			Cause:   err,
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return &sim.SimulationError{
			Kind:    sim.ErrKindSerializationError,
			Message: fmt.Sprintf("writing config file %s: %v", path, err),
			Cause:   err,
		}
	}
	return nil
}

// BuildConnectors converts the document's ConnectorDocs into sim.Connector
// values, in declaration order.
func (d *Document) BuildConnectors() []sim.Connector {
	connectors := make([]sim.Connector, len(d.Connectors))
	for i, c := range d.Connectors {
		connectors[i] = sim.NewConnector(c.ID, c.SourceID, c.SourcePort, c.TargetID, c.TargetPort)
	}
	return connectors
}

// BuildModels constructs sim.Model values for every ModelDoc using
// factory, in declaration order. Fails on the first model whose type was
// not registered with factory.
func (d *Document) BuildModels(factory *ModelFactory) ([]sim.Model, error) {
	models := make([]sim.Model, 0, len(d.Models))
	for _, md := range d.Models {
		m, err := factory.Build(md.ID, md.Type, md.Config)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}

// BuildSimulation constructs a *sim.Simulation from the document's
// models and connectors, combined with the given extra options (e.g.
// WithSeed, WithEmitter, WithMetrics).
func (d *Document) BuildSimulation(factory *ModelFactory, extra ...sim.Option) (*sim.Simulation, error) {
	models, err := d.BuildModels(factory)
	if err != nil {
		return nil, err
	}
	opts := append([]sim.Option{sim.WithModels(models), sim.WithConnectors(d.BuildConnectors())}, extra...)
	return sim.NewSimulation(opts...)
}
