package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/go-devs/devsim/sim/emit"
)

// Simulation owns a fixed topology of models and connectors, the pending
// message set between steps, and the Services every model handler reads
// and mutates through. It is the Go counterpart of the Rust Simulation
// struct grounding this package: the same four-phase step algorithm,
// expressed with explicit error returns instead of a fallible iterator
// chain.
//
// A Simulation is not safe for concurrent use. Step, StepN, and StepUntil
// mutate model state and the pending message set in place; callers that
// need parallel runs should construct one Simulation per goroutine.
type Simulation struct {
	models     []Model
	modelIndex map[string]*Model
	connectors []Connector
	messages   []Message
	services   *Services
	emitter    emit.Emitter
	metrics    *PrometheusMetrics
	runID      string
	stepCount  int
}

// NewSimulation constructs a Simulation from functional options. Models
// and connectors are taken as given — callers that want topology
// validated before running should call NewChecker(sim).Check() themselves;
// construction never fails on a malformed topology, only on option
// errors.
func NewSimulation(opts ...Option) (*Simulation, error) {
	cfg := &simulationConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.emitter == nil {
		cfg.emitter = emit.NewNullEmitter()
	}

	runID := cfg.seed
	if runID == "" {
		runID = uuid.NewString()
	}

	s := &Simulation{
		models:     cfg.models,
		connectors: cfg.connectors,
		services:   NewServices(cfg.seed),
		emitter:    cfg.emitter,
		metrics:    cfg.metrics,
		runID:      runID,
	}
	s.rebuildIndex()
	return s, nil
}

// rebuildIndex rebuilds the id-to-model lookup table. Safe to call
// whenever s.models is replaced wholesale; indexes point at the slice's
// own backing array, so the slice must not be reallocated afterward
// without calling this again.
func (s *Simulation) rebuildIndex() {
	s.modelIndex = make(map[string]*Model, len(s.models))
	for i := range s.models {
		s.modelIndex[s.models[i].ID] = &s.models[i]
	}
}

func (s *Simulation) findModel(id string) (*Model, error) {
	m, ok := s.modelIndex[id]
	if !ok {
		return nil, newModelNotFound(id)
	}
	return m, nil
}

// GetModels returns the simulation's models in declaration order.
func (s *Simulation) GetModels() []Model {
	return s.models
}

// GetConnectors returns the simulation's connectors in declaration order.
func (s *Simulation) GetConnectors() []Connector {
	return s.connectors
}

// GetMessages returns a copy of the pending message set awaiting
// dispatch on the next Step.
func (s *Simulation) GetMessages() []Message {
	result := make([]Message, len(s.messages))
	copy(result, s.messages)
	return result
}

// GetGlobalTime returns the current simulated time.
func (s *Simulation) GetGlobalTime() float64 {
	return s.services.GlobalTime()
}

// ComponentSnapshot is a cheap, read-only summary of a Simulation's
// current shape, for logging and metrics call sites that want a single
// value rather than three separate accessor calls.
type ComponentSnapshot struct {
	GlobalTime      float64
	ModelCount      int
	ConnectorCount  int
	PendingMessages int
}

// Snapshot returns a ComponentSnapshot of the simulation's current state.
func (s *Simulation) Snapshot() ComponentSnapshot {
	return ComponentSnapshot{
		GlobalTime:      s.GetGlobalTime(),
		ModelCount:      len(s.models),
		ConnectorCount:  len(s.connectors),
		PendingMessages: len(s.messages),
	}
}

// GetStatus returns the human-readable status of the model with id.
func (s *Simulation) GetStatus(id string) (string, error) {
	m, err := s.findModel(id)
	if err != nil {
		return "", err
	}
	return m.Status(), nil
}

// GetRecords returns the audit trail of the model with id.
func (s *Simulation) GetRecords(id string) ([]ModelRecord, error) {
	m, err := s.findModel(id)
	if err != nil {
		return nil, err
	}
	return m.Records(), nil
}

// SetRNG replaces the shared random source, e.g. to pin a deterministic
// sequence for a reproducible test run.
func (s *Simulation) SetRNG(rng *rand.Rand) {
	s.services.SetRNG(rng)
}

// PutMessage appends msg directly to the pending message set without
// validating that its target resolves to a model. Intended for tests and
// harnesses that construct messages by hand; InjectInput is the
// validated entry point for external stimulus.
func (s *Simulation) PutMessage(msg Message) {
	s.messages = append(s.messages, msg)
}

// Put replaces the simulation's topology wholesale: the model and
// connector sets are swapped for models and connectors, and the model
// id index is rebuilt against the new slice. The pending message set,
// global time, and RNG are left untouched — callers that also want a
// clean slate should follow Put with Reset.
func (s *Simulation) Put(models []Model, connectors []Connector) {
	s.models = models
	s.connectors = connectors
	s.rebuildIndex()
}

// InjectInput enqueues content as an external message targeting
// (targetID, targetPort), stamped at the current global time. It fails
// if targetID does not resolve to a model in this simulation.
func (s *Simulation) InjectInput(targetID, targetPort, content string) error {
	if _, err := s.findModel(targetID); err != nil {
		return err
	}
	s.messages = append(s.messages, NewMessage("", "", targetID, targetPort, s.GetGlobalTime(), content))
	return nil
}

// ResetMessages clears the pending message set without touching global
// time or model state.
func (s *Simulation) ResetMessages() {
	s.messages = nil
}

// ResetGlobalTime resets the clock to zero without touching the pending
// message set or model state.
func (s *Simulation) ResetGlobalTime() {
	s.services.SetGlobalTime(0)
}

// Reset clears the pending message set and resets global time to zero.
// Model-internal state is untouched; callers that need a fully fresh run
// should construct a new Simulation instead.
func (s *Simulation) Reset() {
	s.ResetMessages()
	s.ResetGlobalTime()
}

// Step executes one pass of the four-phase DEVS algorithm:
//
//  1. External phase: every message pending from the previous step is
//     dispatched to its target's EventsExt, against a snapshot taken
//     before this step runs. A message targeting an unknown model id
//     fails the step immediately.
//  2. Time-advance phase: dt is 0 if the external phase had any pending
//     messages, otherwise the minimum UntilNextEvent() across all
//     models (+Inf if there are no models). TimeAdvance(dt) is applied
//     to every model and global time is advanced by dt. This phase
//     always runs and always commits, even if a later phase fails.
//  3. Internal phase: every model whose UntilNextEvent() is exactly 0
//     after the time-advance fires EventsInt, and its emitted messages
//     are routed through the connector set into a fresh next-wave
//     buffer. Models are visited in stable declaration order.
//  4. Swap: the pending message set is replaced by the next-wave
//     buffer and a copy of it is returned.
//
// If the internal phase fails partway through, global time has already
// been committed by phase 2, but the next-wave buffer built so far is
// discarded: the pending message set is left exactly as it was before
// Step was called, not cleared. Callers that retry after fixing the
// failing model's state will re-dispatch the same pending messages at
// the already-advanced time.
func (s *Simulation) Step() ([]Message, error) {
	start := time.Now()
	s.stepCount++
	s.emitEvent("step_start", nil)

	pending := s.messages
	hadPending := len(pending) > 0

	if err := s.runExternalPhase(pending); err != nil {
		s.recordStepFailure(start, err)
		return nil, err
	}

	dt := s.timeAdvancePhase(hadPending)

	nextWave, err := s.internalPhase()
	if err != nil {
		s.recordStepFailure(start, err)
		return nil, err
	}

	s.messages = nextWave
	result := make([]Message, len(nextWave))
	copy(result, nextWave)

	s.recordStepSuccess(start, dt, len(nextWave))
	return result, nil
}

func (s *Simulation) runExternalPhase(pending []Message) error {
	for _, msg := range pending {
		m, err := s.findModel(msg.TargetID)
		if err != nil {
			return err
		}
		mm := ModelMessage{PortName: msg.TargetPort, Content: msg.Content}
		if err := m.EventsExt(mm, s.services); err != nil {
			s.incrementModelEventError(msg.TargetID, "ext")
			return newModelEventFailure(msg.TargetID, err)
		}
	}
	return nil
}

func (s *Simulation) timeAdvancePhase(hadPending bool) float64 {
	var dt float64
	if hadPending {
		dt = 0
	} else {
		dt = math.Inf(1)
		for i := range s.models {
			if u := s.models[i].UntilNextEvent(); u < dt {
				dt = u
			}
		}
	}

	for i := range s.models {
		s.models[i].TimeAdvance(dt)
	}
	s.services.SetGlobalTime(s.services.GlobalTime() + dt)
	return dt
}

func (s *Simulation) internalPhase() ([]Message, error) {
	nextWave := make([]Message, 0)
	for i := range s.models {
		m := &s.models[i]
		if m.UntilNextEvent() != 0.0 {
			continue
		}
		emitted, err := m.EventsInt(s.services)
		if err != nil {
			s.incrementModelEventError(m.ID, "int")
			return nil, newModelEventFailure(m.ID, err)
		}
		for _, out := range emitted {
			for _, target := range Route(s.connectors, m.ID, out.PortName) {
				nextWave = append(nextWave, NewMessage(m.ID, out.PortName, target.TargetID, target.TargetPort, s.services.GlobalTime(), out.Content))
			}
		}
	}
	return nextWave, nil
}

// StepN calls Step n times, accumulating every step's emitted messages
// into a single returned slice. If any step fails, StepN discards the
// accumulated messages from prior successful steps and returns only the
// error — the already-committed model state and global time from those
// prior steps remain in effect regardless.
func (s *Simulation) StepN(n int) ([]Message, error) {
	var accumulated []Message
	for i := 0; i < n; i++ {
		msgs, err := s.Step()
		if err != nil {
			return nil, err
		}
		accumulated = append(accumulated, msgs...)
	}
	return accumulated, nil
}

// StepUntil repeats Step until global time is at least until, accumulating
// every step's emitted messages — including the final step that reaches
// or exceeds until — into the returned slice. If global time is already
// >= until, StepUntil returns immediately with no steps taken.
//
// A topology with no models, or with no pending messages and only models
// reporting UntilNextEvent() == +Inf, advances global time to +Inf on
// the first step, which always satisfies any finite until and terminates
// the loop.
func (s *Simulation) StepUntil(until float64) ([]Message, error) {
	var accumulated []Message
	for s.GetGlobalTime() < until {
		msgs, err := s.Step()
		if err != nil {
			return nil, err
		}
		accumulated = append(accumulated, msgs...)
	}
	return accumulated, nil
}

func (s *Simulation) emitEvent(msg string, meta map[string]interface{}) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(emit.Event{
		RunID: s.runID,
		Step:  s.stepCount,
		Msg:   msg,
		Meta:  meta,
	})
}

func (s *Simulation) recordStepSuccess(start time.Time, dt float64, routed int) {
	s.emitEvent("step_complete", map[string]interface{}{
		"global_time": s.GetGlobalTime(),
		"dt":          dt,
		"routed":      routed,
	})
	if s.metrics == nil {
		return
	}
	s.metrics.RecordStepLatency(s.runID, time.Since(start), "success")
	s.metrics.SetGlobalTime(s.runID, s.GetGlobalTime())
	s.metrics.SetPendingMessages(s.runID, len(s.messages))
	s.metrics.AddMessagesRouted(s.runID, routed)
}

func (s *Simulation) recordStepFailure(start time.Time, err error) {
	s.emitEvent("step_error", map[string]interface{}{
		"global_time": s.GetGlobalTime(),
		"error":       err.Error(),
	})
	if s.metrics == nil {
		return
	}
	s.metrics.RecordStepLatency(s.runID, time.Since(start), "error")
}

func (s *Simulation) incrementModelEventError(modelID, phase string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementModelEventErrors(s.runID, modelID, phase)
}
