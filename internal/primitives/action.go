// Action provides the immutable action primitive for store transitions.
//
// Actions are value types. Once created, an Action should not be mutated; the
// Payload field is shared with every reducer that sees the action, so payloads
// holding maps or slices must be treated as read-only.
//
// Example:
//
//	action := NewAction("SET_MAX", 20)
package primitives

// Reserved action types. Application code should not dispatch these directly.
const (
	// InitActionType is passed to every reducer whose slice has no initial value.
	InitActionType = "@@slicestore/INIT"
	// SetActionType carries a SetPayload and is applied by assignable reducers.
	SetActionType = "@@slicestore/SET"
)

type Action struct {
	Type    string `json:"type" yaml:"type"`
	Payload any    `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// NewAction creates and returns a new immutable Action.
func NewAction(actionType string, payload any) Action {
	return Action{
		Type:    actionType,
		Payload: payload,
	}
}

// InitAction returns the action used to compute missing initial slice values.
func InitAction() Action {
	return Action{Type: InitActionType}
}

// SetPayload replaces the whole value of a single slice.
type SetPayload struct {
	Slice string `json:"slice" yaml:"slice"`
	Value any    `json:"value" yaml:"value"`
}

// NewSetAction builds the reserved action that replaces slice with value.
func NewSetAction(slice string, value any) Action {
	return Action{
		Type:    SetActionType,
		Payload: SetPayload{Slice: slice, Value: value},
	}
}
