// Package selection tracks which vehicle, if any, the results view is focused on.
package selection

// State is a snapshot of the selection. The zero value is Unfocused.
type State struct {
	focused bool
	vehicle int
}

// Unfocused is the initial state in which every vehicle is emphasized.
var Unfocused = State{}

// FocusedOn returns the state focused on the given vehicle.
func FocusedOn(vehicleID int) State {
	return State{focused: true, vehicle: vehicleID}
}

// Focused returns the focused vehicle id and true, or 0 and false when unfocused.
func (s State) Focused() (int, bool) {
	return s.vehicle, s.focused
}

// Emphasized reports whether the vehicle's features render at full weight in this state.
func (s State) Emphasized(vehicleID int) bool {
	return !s.focused || s.vehicle == vehicleID
}

// Toggle returns the state after the user selects vehicleID.
func (s State) Toggle(vehicleID int) State {
	if s.focused && s.vehicle == vehicleID {
		return Unfocused
	}
	return FocusedOn(vehicleID)
}

// Controller holds the selection for one results view. It is not safe for concurrent use;
// the owning view serialises access.
type Controller struct {
	state State
}

// NewController returns an unfocused controller.
func NewController() *Controller {
	return &Controller{}
}

// Toggle applies a user selection and returns the new state.
func (c *Controller) Toggle(vehicleID int) State {
	c.state = c.state.Toggle(vehicleID)
	return c.state
}

// Clear drops any focus.
func (c *Controller) Clear() State {
	c.state = Unfocused
	return c.state
}

// Reset is called when a new result set replaces the current one.
func (c *Controller) Reset() {
	c.state = Unfocused
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Focused returns the focused vehicle id and true, or 0 and false when unfocused.
func (c *Controller) Focused() (int, bool) {
	return c.state.Focused()
}

// Emphasized reports whether the vehicle is currently drawn at full weight.
func (c *Controller) Emphasized(vehicleID int) bool {
	return c.state.Emphasized(vehicleID)
}
