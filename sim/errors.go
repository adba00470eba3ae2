package sim

import "fmt"

// ErrorKind identifies the category of a SimulationError, independent of
// the human-readable message. Callers that need to branch on failure type
// should switch on Kind rather than string-matching Error().
type ErrorKind string

const (
	// ErrKindModelNotFound indicates a lookup miss by model id.
	ErrKindModelNotFound ErrorKind = "ModelNotFound"
	// ErrKindInvalidModelConfiguration indicates a connector references a
	// model id that does not exist in the simulation.
	ErrKindInvalidModelConfiguration ErrorKind = "InvalidModelConfiguration"
	// ErrKindInvalidMessage indicates a pending message targets a model id
	// that does not exist in the simulation.
	ErrKindInvalidMessage ErrorKind = "InvalidMessage"
	// ErrKindDuplicateModelID indicates two or more models share an id.
	ErrKindDuplicateModelID ErrorKind = "DuplicateModelId"
	// ErrKindSerializationError indicates a configuration document failed
	// to parse or a model's type was not registered with the factory.
	ErrKindSerializationError ErrorKind = "SerializationError"
	// ErrKindModelEventFailure indicates a model's EventsExt or EventsInt
	// returned an error, bubbled up unchanged.
	ErrKindModelEventFailure ErrorKind = "ModelEventFailure"
	// ErrKindRngFailure indicates the shared random source could not
	// produce a value a model's event handler required.
	ErrKindRngFailure ErrorKind = "RngFailure"
)

// SimulationError is the structured error type returned by Simulation and
// Checker operations that need to report identifying context alongside
// the failure kind — the typed-error counterpart to the teacher's
// EngineError{Message, Code}.
type SimulationError struct {
	Kind        ErrorKind
	Message     string
	ModelID     string
	ConnectorID string
	Cause       error
}

// Error implements the error interface.
func (e *SimulationError) Error() string {
	switch {
	case e.ModelID != "" && e.ConnectorID != "":
		return fmt.Sprintf("%s: %s (model=%s connector=%s)", e.Kind, e.Message, e.ModelID, e.ConnectorID)
	case e.ModelID != "":
		return fmt.Sprintf("%s: %s (model=%s)", e.Kind, e.Message, e.ModelID)
	case e.ConnectorID != "":
		return fmt.Sprintf("%s: %s (connector=%s)", e.Kind, e.Message, e.ConnectorID)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying cause, if any, enabling errors.Is/As to
// see through a ModelEventFailure to the error a model handler returned.
func (e *SimulationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *SimulationError with the same Kind,
// enabling errors.Is(err, &SimulationError{Kind: ErrKindModelNotFound}).
func (e *SimulationError) Is(target error) bool {
	t, ok := target.(*SimulationError)
	if !ok {
		return false
	}
	if t.Kind == "" {
		return false
	}
	return e.Kind == t.Kind
}

func newModelNotFound(modelID string) *SimulationError {
	return &SimulationError{Kind: ErrKindModelNotFound, Message: "model not found", ModelID: modelID}
}

func newInvalidModelConfiguration(connectorID, modelID, message string) *SimulationError {
	return &SimulationError{Kind: ErrKindInvalidModelConfiguration, Message: message, ModelID: modelID, ConnectorID: connectorID}
}

func newInvalidMessage(modelID, message string) *SimulationError {
	return &SimulationError{Kind: ErrKindInvalidMessage, Message: message, ModelID: modelID}
}

func newDuplicateModelID(modelID, message string) *SimulationError {
	return &SimulationError{Kind: ErrKindDuplicateModelID, Message: message, ModelID: modelID}
}

func newModelEventFailure(modelID string, cause error) *SimulationError {
	return &SimulationError{Kind: ErrKindModelEventFailure, Message: "model event handler failed", ModelID: modelID, Cause: cause}
}
