package sim

import (
	"fmt"
	"sort"
	"strings"
)

// Checker runs static, non-mutating validation passes over a Simulation's
// topology and pending messages. Every method is safe to call at any
// point in a Simulation's lifecycle — none of them read or write the
// clock, model state, or the pending message set beyond inspecting it.
//
// Grounded on the checker module's unique_model_ids / connectors_source_to_model
// / connectors_target_to_model passes, with ValidMessages added for
// pending-message validation and Check added as the single entry point
// that runs all passes in order.
type Checker struct {
	sim *Simulation
}

// NewChecker wraps sim for validation. sim is not copied; Checker reads
// its current models, connectors, and messages at call time.
func NewChecker(sim *Simulation) *Checker {
	return &Checker{sim: sim}
}

// recordFailure increments checker_failures_total{check=check} on the
// wrapped simulation's metrics, if any are configured. Every exported
// validation pass calls this on its own failure path, so Check() gets
// the same recording for free by calling through them.
func (c *Checker) recordFailure(check string) {
	if c.sim == nil || c.sim.metrics == nil {
		return
	}
	c.sim.metrics.IncrementCheckerFailures(c.sim.runID, check)
}

// modelIndex builds a map from model id to Model, returning a
// SimulationError the first time a duplicate id is encountered — mirroring
// the fallible hash-build the other Checker passes rely on before they can
// even ask "does this id exist".
func (c *Checker) modelIndex() (map[string]*Model, error) {
	models := c.sim.GetModels()
	index := make(map[string]*Model, len(models))
	for i := range models {
		m := &models[i]
		if _, exists := index[m.ID]; exists {
			return nil, newDuplicateModelID(m.ID, "model id already exists")
		}
		index[m.ID] = m
	}
	return index, nil
}

// UniqueModelIDs fails if two or more models share an id. The error lists
// every duplicated id, not just the first.
func (c *Checker) UniqueModelIDs() error {
	models := c.sim.GetModels()
	seen := make(map[string]int, len(models))
	for _, m := range models {
		seen[m.ID]++
	}
	var dups []string
	for id, count := range seen {
		if count > 1 {
			dups = append(dups, id)
		}
	}
	if len(dups) == 0 {
		return nil
	}
	sort.Strings(dups)
	c.recordFailure("unique_model_ids")
	return &SimulationError{
		Kind:    ErrKindDuplicateModelID,
		Message: fmt.Sprintf("duplicate model ids found: %s", strings.Join(dups, ", ")),
	}
}

// ConnectorsSourceToModel fails if any connector's SourceID does not
// resolve to a model present in the simulation.
func (c *Checker) ConnectorsSourceToModel() error {
	index, err := c.modelIndex()
	if err != nil {
		c.recordFailure("connectors_source_to_model")
		return err
	}
	for _, conn := range c.sim.GetConnectors() {
		if _, ok := index[conn.SourceID]; !ok {
			c.recordFailure("connectors_source_to_model")
			return newInvalidModelConfiguration(conn.ID, conn.SourceID,
				fmt.Sprintf("connector %s: model not found with source_id %s", conn.ID, conn.SourceID))
		}
	}
	return nil
}

// ConnectorsTargetToModel fails if any connector's TargetID does not
// resolve to a model present in the simulation.
func (c *Checker) ConnectorsTargetToModel() error {
	index, err := c.modelIndex()
	if err != nil {
		c.recordFailure("connectors_target_to_model")
		return err
	}
	for _, conn := range c.sim.GetConnectors() {
		if _, ok := index[conn.TargetID]; !ok {
			c.recordFailure("connectors_target_to_model")
			return newInvalidModelConfiguration(conn.ID, conn.TargetID,
				fmt.Sprintf("connector %s: model not found with target_id %s", conn.ID, conn.TargetID))
		}
	}
	return nil
}

// ValidMessages fails if any currently pending message's TargetID does not
// resolve to a model present in the simulation.
func (c *Checker) ValidMessages() error {
	index, err := c.modelIndex()
	if err != nil {
		c.recordFailure("valid_messages")
		return err
	}
	for _, msg := range c.sim.GetMessages() {
		if _, ok := index[msg.TargetID]; !ok {
			c.recordFailure("valid_messages")
			return newInvalidMessage(msg.TargetID,
				fmt.Sprintf("pending message targets unknown model id %s", msg.TargetID))
		}
	}
	return nil
}

// Check runs every validation pass in order, returning the first failure
// encountered, or nil if the topology and pending messages are all
// well-formed.
func (c *Checker) Check() error {
	if err := c.UniqueModelIDs(); err != nil {
		return err
	}
	if err := c.ConnectorsSourceToModel(); err != nil {
		return err
	}
	if err := c.ConnectorsTargetToModel(); err != nil {
		return err
	}
	return c.ValidMessages()
}
