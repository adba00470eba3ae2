package sim

import (
	"math"
	"reflect"
	"testing"
)

// stubModel is a minimal DevsModel used to verify Model's delegation.
type stubModel struct {
	extCalls  []ModelMessage
	intResult []ModelMessage
	intErr    error
	dtSeen    []float64
	status    string
	records   []ModelRecord
	until     float64
}

func (s *stubModel) EventsExt(incoming ModelMessage, _ *Services) error {
	s.extCalls = append(s.extCalls, incoming)
	return nil
}

func (s *stubModel) EventsInt(_ *Services) ([]ModelMessage, error) {
	return s.intResult, s.intErr
}

func (s *stubModel) TimeAdvance(dt float64) {
	s.dtSeen = append(s.dtSeen, dt)
}

func (s *stubModel) UntilNextEvent() float64 {
	return s.until
}

func (s *stubModel) Status() string {
	return s.status
}

func (s *stubModel) Records() []ModelRecord {
	return s.records
}

func TestModel_Delegation(t *testing.T) {
	inner := &stubModel{
		intResult: []ModelMessage{{PortName: "out", Content: "testing"}},
		status:    "idle",
		records:   []ModelRecord{{Time: 1, Label: "int", Content: "testing"}},
		until:     math.Inf(1),
	}
	m := NewModel("generator-01", inner)

	if m.ID != "generator-01" {
		t.Fatalf("ID = %q, want generator-01", m.ID)
	}

	if err := m.EventsExt(ModelMessage{PortName: "job", Content: "in"}, nil); err != nil {
		t.Fatalf("EventsExt() error = %v", err)
	}
	if len(inner.extCalls) != 1 || inner.extCalls[0].Content != "in" {
		t.Errorf("EventsExt not delegated: %+v", inner.extCalls)
	}

	out, err := m.EventsInt(nil)
	if err != nil {
		t.Fatalf("EventsInt() error = %v", err)
	}
	if !reflect.DeepEqual(out, inner.intResult) {
		t.Errorf("EventsInt() = %+v, want %+v", out, inner.intResult)
	}

	m.TimeAdvance(2.5)
	if len(inner.dtSeen) != 1 || inner.dtSeen[0] != 2.5 {
		t.Errorf("TimeAdvance not delegated: %+v", inner.dtSeen)
	}

	if got := m.UntilNextEvent(); got != math.Inf(1) {
		t.Errorf("UntilNextEvent() = %v, want +Inf", got)
	}

	if got := m.Status(); got != "idle" {
		t.Errorf("Status() = %q, want idle", got)
	}

	if !reflect.DeepEqual(m.Records(), inner.records) {
		t.Errorf("Records() = %+v, want %+v", m.Records(), inner.records)
	}
}
