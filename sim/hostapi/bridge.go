// Package hostapi defines a JSON-at-the-boundary bridge around
// sim.Simulation, for embedding contexts (CLIs, RPC servers, foreign
// language bindings) that want string/[]byte in, string/[]byte out
// rather than importing sim's Go types directly — the same boundary
// role the contracts package plays between the OSS and enterprise sides
// of a larger system.
//
// Bridge is a thin translator: every method does nothing but look up a
// simulation by its opaque handle, call the corresponding
// sim.Simulation method, and marshal/unmarshal at the boundary. All
// simulation semantics are those of sim.Simulation.Step; Bridge adds no
// behavior of its own beyond handle management and error-string
// flattening.
package hostapi

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/go-devs/devsim/sim"
	"github.com/go-devs/devsim/sim/config"
)

// Bridge holds a registry of *sim.Simulation instances keyed by an
// opaque string handle returned from Post, so a single Bridge can serve
// multiple independent simulations to a caller that only ever sees
// handles and JSON.
type Bridge struct {
	mu          sync.RWMutex
	simulations map[string]*sim.Simulation
	factory     *config.ModelFactory
}

// NewBridge creates a Bridge that builds models declared through Post
// using factory.
func NewBridge(factory *config.ModelFactory) *Bridge {
	return &Bridge{
		simulations: make(map[string]*sim.Simulation),
		factory:     factory,
	}
}

// Post constructs a new simulation from JSON-encoded model and connector
// declarations (each a JSON array of config.ModelDoc / config.ConnectorDoc)
// and returns an opaque handle for it.
func (b *Bridge) Post(modelsJSON, connectorsJSON []byte) (string, error) {
	var modelDocs []config.ModelDoc
	if err := json.Unmarshal(modelsJSON, &modelDocs); err != nil {
		return "", fmt.Errorf("unmarshaling models: %w", err)
	}
	var connectorDocs []config.ConnectorDoc
	if len(connectorsJSON) > 0 {
		if err := json.Unmarshal(connectorsJSON, &connectorDocs); err != nil {
			return "", fmt.Errorf("unmarshaling connectors: %w", err)
		}
	}

	doc := &config.Document{Models: modelDocs, Connectors: connectorDocs}
	s, err := doc.BuildSimulation(b.factory)
	if err != nil {
		return "", errString(err)
	}

	handle := uuid.NewString()
	b.mu.Lock()
	b.simulations[handle] = s
	b.mu.Unlock()
	return handle, nil
}

func (b *Bridge) lookup(handle string) (*sim.Simulation, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.simulations[handle]
	if !ok {
		return nil, fmt.Errorf("unknown simulation handle: %s", handle)
	}
	return s, nil
}

// MessageDoc is the JSON wire shape of a sim.Message.
type MessageDoc struct {
	SourceID   string  `json:"sourceId"`
	SourcePort string  `json:"sourcePort"`
	TargetID   string  `json:"targetId"`
	TargetPort string  `json:"targetPort"`
	Time       float64 `json:"time"`
	Content    string  `json:"content"`
}

func toMessageDoc(m sim.Message) MessageDoc {
	return MessageDoc{
		SourceID:   m.SourceID,
		SourcePort: m.SourcePort,
		TargetID:   m.TargetID,
		TargetPort: m.TargetPort,
		Time:       m.Time,
		Content:    m.Content,
	}
}

func marshalMessages(messages []sim.Message) (string, error) {
	docs := make([]MessageDoc, len(messages))
	for i, m := range messages {
		docs[i] = toMessageDoc(m)
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("marshaling messages: %w", err)
	}
	return string(data), nil
}

// Step executes one simulation step on the simulation identified by
// handle and returns the newly pending messages as a JSON array.
func (b *Bridge) Step(handle string) (string, error) {
	s, err := b.lookup(handle)
	if err != nil {
		return "", err
	}
	messages, err := s.Step()
	if err != nil {
		return "", errString(err)
	}
	return marshalMessages(messages)
}

// StepN executes n simulation steps and returns every emitted message
// as a JSON array.
func (b *Bridge) StepN(handle string, n int) (string, error) {
	s, err := b.lookup(handle)
	if err != nil {
		return "", err
	}
	messages, err := s.StepN(n)
	if err != nil {
		return "", errString(err)
	}
	return marshalMessages(messages)
}

// StepUntil steps until global time reaches until, returning every
// emitted message as a JSON array.
func (b *Bridge) StepUntil(handle string, until float64) (string, error) {
	s, err := b.lookup(handle)
	if err != nil {
		return "", err
	}
	messages, err := s.StepUntil(until)
	if err != nil {
		return "", errString(err)
	}
	return marshalMessages(messages)
}

// InjectInput enqueues an external message targeting (targetID,
// targetPort) with the given content on the simulation identified by
// handle.
func (b *Bridge) InjectInput(handle, targetID, targetPort, content string) error {
	s, err := b.lookup(handle)
	if err != nil {
		return err
	}
	if err := s.InjectInput(targetID, targetPort, content); err != nil {
		return errString(err)
	}
	return nil
}

// GetMessages returns the current pending message set as a JSON array.
func (b *Bridge) GetMessages(handle string) (string, error) {
	s, err := b.lookup(handle)
	if err != nil {
		return "", err
	}
	return marshalMessages(s.GetMessages())
}

// GetStatus returns the status string of the model with id.
func (b *Bridge) GetStatus(handle, id string) (string, error) {
	s, err := b.lookup(handle)
	if err != nil {
		return "", err
	}
	status, err := s.GetStatus(id)
	if err != nil {
		return "", errString(err)
	}
	return status, nil
}

// GetRecords returns the audit trail of the model with id, as a JSON
// array of {Time, Label, Content} objects.
func (b *Bridge) GetRecords(handle, id string) (string, error) {
	s, err := b.lookup(handle)
	if err != nil {
		return "", err
	}
	records, err := s.GetRecords(id)
	if err != nil {
		return "", errString(err)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshaling records: %w", err)
	}
	return string(data), nil
}

// Reset clears pending messages and resets global time to zero on the
// simulation identified by handle.
func (b *Bridge) Reset(handle string) error {
	s, err := b.lookup(handle)
	if err != nil {
		return err
	}
	s.Reset()
	return nil
}

// errString flattens a *sim.SimulationError into a plain error carrying
// only its formatted message, so nothing Go-specific (kind constants,
// wrapped causes) leaks across the boundary.
func errString(err error) error {
	return fmt.Errorf("%s", err.Error())
}
