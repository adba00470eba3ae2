package emit

// Event represents an observability event emitted during simulation
// execution.
//
// Events provide detailed insight into simulation behavior:
//   - Model event-handler start/complete
//   - State transitions
//   - Errors and warnings
//   - Performance metrics
//   - Routing decisions
//
// Events are emitted to an Emitter which can:
//   - Log to stdout/stderr
//   - Send to OpenTelemetry
//   - Store in time-series databases
//   - Trigger alerts
type Event struct {
	// RunID identifies the simulation run that emitted this event.
	RunID string

	// Step is the sequential step number in the simulation (1-indexed).
	// Zero for simulation-level events (start, complete, error).
	Step int

	// ModelID identifies which model emitted this event.
	// Empty string for simulation-level events.
	ModelID string

	// Msg is a human-readable description of the event.
	Msg string

	// Meta contains additional structured data specific to this event.
	// Common keys:
	//   - "duration_ms": Handler duration in milliseconds
	//   - "error": Error details
	//   - "global_time": Simulated time at emission
	//   - "port": Output port a message was routed from
	//   - "targets": Number of targets a message fanned out to
	Meta map[string]interface{}
}
