package sim

// DevsModel is the polymorphic event contract every simulation model must
// satisfy. It is the open trait-object form described in the design notes:
// new model kinds are registered dynamically through the config factory
// (see sim/config), so the contract is an interface rather than a closed
// tagged union.
//
// Contract:
//   - UntilNextEvent is a pure query: calling it repeatedly without an
//     intervening TimeAdvance or EventsInt must return the same value.
//   - After TimeAdvance(dt) where dt equals the previous UntilNextEvent(),
//     the next UntilNextEvent() call must return exactly 0.0.
//   - EventsInt may be called only when UntilNextEvent() == 0.0.
//   - EventsExt may be called at any time the engine has a message
//     targeted at the model; it must not emit messages directly — output
//     only happens through EventsInt's return value.
type DevsModel interface {
	// EventsExt reacts to an external input. It may mutate model state but
	// must not emit messages.
	EventsExt(incoming ModelMessage, services *Services) error

	// EventsInt fires the model's internal transition and returns the
	// messages emitted on its output ports.
	EventsInt(services *Services) ([]ModelMessage, error)

	// TimeAdvance notifies the model that dt simulated time has elapsed.
	TimeAdvance(dt float64)

	// UntilNextEvent reports the non-negative time until this model's next
	// scheduled internal event. May be math.Inf(1).
	UntilNextEvent() float64

	// Status returns a read-only human-readable status string.
	Status() string

	// Records returns the model's accumulated audit trail. The engine
	// never inspects the content of individual records.
	Records() []ModelRecord
}

// Model wraps a polymorphic DevsModel with the unique string ID the
// simulation addresses it by. Equality within a Simulation is defined by
// ID alone, which is why Simulation keys its model collection by ID
// rather than storing a slice and scanning it.
type Model struct {
	ID    string
	Inner DevsModel
}

// NewModel constructs a Model from an id and its DEVS-capable inner value.
func NewModel(id string, inner DevsModel) Model {
	return Model{ID: id, Inner: inner}
}

// EventsExt delegates to the inner model.
func (m *Model) EventsExt(incoming ModelMessage, services *Services) error {
	return m.Inner.EventsExt(incoming, services)
}

// EventsInt delegates to the inner model.
func (m *Model) EventsInt(services *Services) ([]ModelMessage, error) {
	return m.Inner.EventsInt(services)
}

// TimeAdvance delegates to the inner model.
func (m *Model) TimeAdvance(dt float64) {
	m.Inner.TimeAdvance(dt)
}

// UntilNextEvent delegates to the inner model.
func (m *Model) UntilNextEvent() float64 {
	return m.Inner.UntilNextEvent()
}

// Status delegates to the inner model.
func (m *Model) Status() string {
	return m.Inner.Status()
}

// Records delegates to the inner model.
func (m *Model) Records() []ModelRecord {
	return m.Inner.Records()
}
