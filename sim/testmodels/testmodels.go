// Package testmodels provides minimal sim.DevsModel implementations used
// by this module's own tests and by config examples. They are
// deliberately small: a countdown timer, an echo relay, and an
// accumulator, not a full generator/processor/storage simulation
// library.
package testmodels

import (
	"fmt"
	"math"

	"github.com/go-devs/devsim/sim"
)

// Countdown fires its internal transition once after a fixed delay,
// emitting a single message on its configured port and then going permanently
// quiescent (UntilNextEvent returns +Inf forever after).
type Countdown struct {
	remaining float64
	fired     bool
	port      string
	content   string
	records   []sim.ModelRecord
}

// NewCountdown creates a Countdown that fires after delay simulated-time
// units, emitting content on port.
func NewCountdown(delay float64, port, content string) *Countdown {
	return &Countdown{remaining: delay, port: port, content: content}
}

func (c *Countdown) EventsExt(_ sim.ModelMessage, services *sim.Services) error {
	c.records = append(c.records, sim.ModelRecord{Time: services.GlobalTime(), Label: "ext", Content: "ignored"})
	return nil
}

func (c *Countdown) EventsInt(services *sim.Services) ([]sim.ModelMessage, error) {
	c.fired = true
	c.records = append(c.records, sim.ModelRecord{Time: services.GlobalTime(), Label: "int", Content: c.content})
	return []sim.ModelMessage{{PortName: c.port, Content: c.content}}, nil
}

func (c *Countdown) TimeAdvance(dt float64) {
	if c.fired {
		return
	}
	c.remaining -= dt
}

func (c *Countdown) UntilNextEvent() float64 {
	if c.fired {
		return math.Inf(1)
	}
	return c.remaining
}

func (c *Countdown) Status() string {
	if c.fired {
		return "fired"
	}
	return fmt.Sprintf("counting down, remaining=%.3f", c.remaining)
}

func (c *Countdown) Records() []sim.ModelRecord {
	return c.records
}

// Relay forwards every message it receives on any input port back out
// on "out" unchanged, on its very next internal transition. It never
// schedules an internal event on its own — UntilNextEvent stays at +Inf
// until an external message arrives, at which point it reports 0 so the
// stepper fires it on the same time-advance.
type Relay struct {
	pending []sim.ModelMessage
	records []sim.ModelRecord
}

// NewRelay creates an idle Relay.
func NewRelay() *Relay {
	return &Relay{}
}

func (r *Relay) EventsExt(incoming sim.ModelMessage, services *sim.Services) error {
	r.pending = append(r.pending, incoming)
	r.records = append(r.records, sim.ModelRecord{Time: services.GlobalTime(), Label: "ext", Content: incoming.Content})
	return nil
}

func (r *Relay) EventsInt(services *sim.Services) ([]sim.ModelMessage, error) {
	out := make([]sim.ModelMessage, len(r.pending))
	for i, msg := range r.pending {
		out[i] = sim.ModelMessage{PortName: "out", Content: msg.Content}
		r.records = append(r.records, sim.ModelRecord{Time: services.GlobalTime(), Label: "int", Content: msg.Content})
	}
	r.pending = nil
	return out, nil
}

func (r *Relay) TimeAdvance(_ float64) {}

func (r *Relay) UntilNextEvent() float64 {
	if len(r.pending) > 0 {
		return 0
	}
	return math.Inf(1)
}

func (r *Relay) Status() string {
	return fmt.Sprintf("relay, pending=%d", len(r.pending))
}

func (r *Relay) Records() []sim.ModelRecord {
	return r.records
}

// Accumulator sums the numeric value of every incoming message's content
// (interpreted via fmt.Sscanf as a float64; non-numeric content is
// ignored) and never schedules an internal event — it is a pure sink
// exercised through EventsExt and Status/Records alone.
type Accumulator struct {
	total   float64
	count   int
	records []sim.ModelRecord
}

// NewAccumulator creates an Accumulator starting at zero.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

func (a *Accumulator) EventsExt(incoming sim.ModelMessage, services *sim.Services) error {
	var value float64
	if _, err := fmt.Sscanf(incoming.Content, "%g", &value); err == nil {
		a.total += value
	}
	a.count++
	a.records = append(a.records, sim.ModelRecord{Time: services.GlobalTime(), Label: "ext", Content: incoming.Content})
	return nil
}

func (a *Accumulator) EventsInt(_ *sim.Services) ([]sim.ModelMessage, error) {
	return nil, nil
}

func (a *Accumulator) TimeAdvance(_ float64) {}

func (a *Accumulator) UntilNextEvent() float64 {
	return math.Inf(1)
}

func (a *Accumulator) Status() string {
	return fmt.Sprintf("total=%.3f count=%d", a.total, a.count)
}

func (a *Accumulator) Records() []sim.ModelRecord {
	return a.records
}

// Total returns the running sum of numeric message contents received.
func (a *Accumulator) Total() float64 {
	return a.total
}
