package sim

// Connector is an immutable directed coupling between an output port of
// one model and an input port of another: (SourceID, SourcePort) ->
// (TargetID, TargetPort), identified by its own ID.
//
// A Connector does not validate that SourceID/TargetID resolve to models
// present in a simulation — that is the Checker's job, run explicitly
// before or between simulation runs. Connector.ID uniqueness is advisory
// and is not enforced anywhere in this package.
type Connector struct {
	ID         string
	SourceID   string
	SourcePort string
	TargetID   string
	TargetPort string
}

// NewConnector constructs a Connector from its id and routing fields.
func NewConnector(id, sourceID, sourcePort, targetID, targetPort string) Connector {
	return Connector{
		ID:         id,
		SourceID:   sourceID,
		SourcePort: sourcePort,
		TargetID:   targetID,
		TargetPort: targetPort,
	}
}
