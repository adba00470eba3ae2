package hostapi

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-devs/devsim/sim"
	"github.com/go-devs/devsim/sim/config"
	"github.com/go-devs/devsim/sim/testmodels"
)

func testFactory(t *testing.T) *config.ModelFactory {
	t.Helper()
	f := config.NewModelFactory()
	if err := f.Register("countdown", func(id string, cfg map[string]interface{}) (sim.DevsModel, error) {
		return testmodels.NewCountdown(1.0, "out", "testing"), nil
	}); err != nil {
		t.Fatalf("Register(countdown) error = %v", err)
	}
	if err := f.Register("relay", func(id string, cfg map[string]interface{}) (sim.DevsModel, error) {
		return testmodels.NewRelay(), nil
	}); err != nil {
		t.Fatalf("Register(relay) error = %v", err)
	}
	return f
}

func buildBridgeHandle(t *testing.T) (*Bridge, string) {
	t.Helper()
	b := NewBridge(testFactory(t))

	modelsJSON, err := json.Marshal([]config.ModelDoc{
		{ID: "timer-01", Type: "countdown"},
		{ID: "relay-01", Type: "relay"},
	})
	if err != nil {
		t.Fatalf("marshaling models: %v", err)
	}
	connectorsJSON, err := json.Marshal([]config.ConnectorDoc{
		{ID: "connector-01", SourceID: "timer-01", SourcePort: "out", TargetID: "relay-01", TargetPort: "in"},
	})
	if err != nil {
		t.Fatalf("marshaling connectors: %v", err)
	}

	handle, err := b.Post(modelsJSON, connectorsJSON)
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if handle == "" {
		t.Fatal("Post() returned empty handle")
	}
	return b, handle
}

func TestBridge_Post_UnknownModelType(t *testing.T) {
	b := NewBridge(config.NewModelFactory())

	modelsJSON, _ := json.Marshal([]config.ModelDoc{{ID: "x", Type: "nonexistent"}})
	if _, err := b.Post(modelsJSON, nil); err == nil {
		t.Fatal("expected Post() to fail for an unregistered model type")
	}
}

func TestBridge_Step_ReturnsJSONMessages(t *testing.T) {
	b, handle := buildBridgeHandle(t)

	raw, err := b.Step(handle)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	var docs []MessageDoc
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		t.Fatalf("unmarshaling Step() output: %v", err)
	}
	if len(docs) != 1 || docs[0].TargetID != "relay-01" || docs[0].Content != "testing" {
		t.Fatalf("Step() docs = %+v, want one message to relay-01", docs)
	}
}

func TestBridge_Step_UnknownHandle(t *testing.T) {
	b := NewBridge(config.NewModelFactory())
	if _, err := b.Step("no-such-handle"); err == nil {
		t.Fatal("expected Step() to fail for an unknown handle")
	}
}

func TestBridge_StepN_AccumulatesMessages(t *testing.T) {
	b, handle := buildBridgeHandle(t)

	raw, err := b.StepN(handle, 2)
	if err != nil {
		t.Fatalf("StepN() error = %v", err)
	}
	var docs []MessageDoc
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		t.Fatalf("unmarshaling StepN() output: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("StepN() docs = %+v, want exactly one message (relay has no outgoing connector)", docs)
	}
}

func TestBridge_StepUntil(t *testing.T) {
	b, handle := buildBridgeHandle(t)

	if _, err := b.StepUntil(handle, 1.0); err != nil {
		t.Fatalf("StepUntil() error = %v", err)
	}
}

func TestBridge_InjectInput_UnknownModelReturnsOpaqueError(t *testing.T) {
	b, handle := buildBridgeHandle(t)

	err := b.InjectInput(handle, "missing-model", "in", "testing")
	if err == nil {
		t.Fatal("expected InjectInput() to fail for an unknown model id")
	}
	// The error string must not leak the Go-specific SimulationError kind
	// constant representation; it should just be readable text.
	if !strings.Contains(err.Error(), "missing-model") {
		t.Errorf("error = %q, want it to mention the missing model id", err.Error())
	}
}

func TestBridge_GetStatus(t *testing.T) {
	b, handle := buildBridgeHandle(t)

	status, err := b.GetStatus(handle, "timer-01")
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if status == "" {
		t.Error("GetStatus() returned empty string")
	}

	if _, err := b.GetStatus(handle, "missing-model"); err == nil {
		t.Error("expected GetStatus() to fail for an unknown model id")
	}
}

func TestBridge_GetRecords_ReturnsJSONArray(t *testing.T) {
	b, handle := buildBridgeHandle(t)
	if _, err := b.Step(handle); err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	raw, err := b.GetRecords(handle, "timer-01")
	if err != nil {
		t.Fatalf("GetRecords() error = %v", err)
	}

	var records []sim.ModelRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		t.Fatalf("unmarshaling GetRecords() output: %v", err)
	}
	if len(records) == 0 {
		t.Error("expected at least one record after the timer fired")
	}
}

func TestBridge_Reset(t *testing.T) {
	b, handle := buildBridgeHandle(t)
	if _, err := b.Step(handle); err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	if err := b.Reset(handle); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	raw, err := b.GetMessages(handle)
	if err != nil {
		t.Fatalf("GetMessages() error = %v", err)
	}
	var docs []MessageDoc
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		t.Fatalf("unmarshaling GetMessages() output: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("GetMessages() after Reset() = %+v, want empty", docs)
	}
}

func TestBridge_MultipleHandlesAreIndependent(t *testing.T) {
	b, handle1 := buildBridgeHandle(t)
	_, handle2 := buildBridgeHandle(t)

	if handle1 == handle2 {
		t.Fatal("expected distinct handles for two separate Post() calls")
	}

	if _, err := b.Step(handle1); err != nil {
		t.Fatalf("Step(handle1) error = %v", err)
	}

	raw, err := b.GetMessages(handle2)
	if err != nil {
		t.Fatalf("GetMessages(handle2) error = %v", err)
	}
	var docs []MessageDoc
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		t.Fatalf("unmarshaling GetMessages(handle2) output: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("stepping handle1 affected handle2's pending messages: %+v", docs)
	}
}
