// Package sim provides a discrete-event simulation engine following the
// Discrete Event System Specification (DEVS) formalism.
package sim

// Message is a routed envelope carrying content from one model's output
// port to another model's input port, timestamped at the global time it
// was produced.
//
// Messages are created either externally via Simulation.InjectInput or by
// the router during a step. They are consumed at the start of the next
// step and are never persisted beyond that — Simulation does not retain
// message history across steps.
type Message struct {
	SourceID   string
	SourcePort string
	TargetID   string
	TargetPort string
	Time       float64
	Content    string
}

// NewMessage constructs a Message from its routing and payload fields.
func NewMessage(sourceID, sourcePort, targetID, targetPort string, time float64, content string) Message {
	return Message{
		SourceID:   sourceID,
		SourcePort: sourcePort,
		TargetID:   targetID,
		TargetPort: targetPort,
		Time:       time,
		Content:    content,
	}
}

// ModelMessage is the model-local view of a Message: a port name and its
// content, with no routing information. This is the shape models see at
// the events_ext boundary and the shape they emit from events_int.
type ModelMessage struct {
	PortName string
	Content  string
}

// ModelRecord is an opaque per-model audit entry. The engine never
// inspects its content; it exists purely for callers of GetRecords.
type ModelRecord struct {
	Time    float64
	Label   string
	Content string
}
