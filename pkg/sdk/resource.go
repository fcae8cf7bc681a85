package sdk

// Resource is a desired or observed object: an address plus a
// type-specific payload. spec is opaque to the SDK core; it is
// interpreted only by the provider and, when a schema is registered,
// by the validator.
type Resource struct {
	Address  ResourceAddress        `json:"address"`
	Spec     map[string]interface{} `json:"spec"`
	Metadata map[string]string      `json:"metadata,omitempty"`
}

// ChangeType enumerates the kind of transition a Change represents.
type ChangeType string

const (
	ChangeCreate ChangeType = "Create"
	ChangeUpdate ChangeType = "Update"
	ChangeDelete ChangeType = "Delete"
	ChangeNoOp   ChangeType = "NoOp"
)

// Change is a planned transition for one address. Invariants:
// Create => Before absent, After present; Delete => Before present,
// After absent; Update => both present; NoOp => both may be present
// and equal modulo ComputedFields.
type Change struct {
	Address        ResourceAddress `json:"address"`
	ChangeType     ChangeType      `json:"change_type"`
	Before         *Resource       `json:"before,omitempty"`
	After          *Resource       `json:"after,omitempty"`
	ComputedFields []string        `json:"computed_fields,omitempty"`
}

// State is a persisted snapshot of the currently managed resource set,
// owned by the engine (not by the provider).
type State struct {
	Version   int                 `json:"version"`
	Resources map[string]Resource `json:"resources"`
	Metadata  map[string]string   `json:"metadata"`
}

// NewState returns a fresh State: version 1, empty maps.
func NewState() *State {
	return &State{
		Version:   1,
		Resources: make(map[string]Resource),
		Metadata:  make(map[string]string),
	}
}
