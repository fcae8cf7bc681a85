package sdk

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ResourceAddress is the stable identity of one managed object. Two
// resources with equal addresses refer to the same managed object.
type ResourceAddress struct {
	ResourceType string `json:"resource_type"`
	Name         string `json:"name"`
	Namespace    string `json:"namespace,omitempty"`
}

// String renders the canonical text form: "type.namespace/name" when a
// namespace is present, otherwise "type.name".
func (a ResourceAddress) String() string {
	if a.Namespace != "" {
		return fmt.Sprintf("%s.%s/%s", a.ResourceType, a.Namespace, a.Name)
	}
	return fmt.Sprintf("%s.%s", a.ResourceType, a.Name)
}

// addressWire mirrors the JSON shape on the wire, where namespace is a
// nullable field rather than an omitted one.
type addressWire struct {
	ResourceType string  `json:"resource_type"`
	Name         string  `json:"name"`
	Namespace    *string `json:"namespace"`
}

// MarshalJSON emits namespace as an explicit null rather than omitting
// the key, matching the wire shape described in SPEC_FULL.md §6.
func (a ResourceAddress) MarshalJSON() ([]byte, error) {
	w := addressWire{ResourceType: a.ResourceType, Name: a.Name}
	if a.Namespace != "" {
		ns := a.Namespace
		w.Namespace = &ns
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts either a null or an absent namespace key.
func (a *ResourceAddress) UnmarshalJSON(data []byte) error {
	var w addressWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	a.ResourceType = w.ResourceType
	a.Name = w.Name
	if w.Namespace != nil {
		a.Namespace = *w.Namespace
	} else {
		a.Namespace = ""
	}
	return nil
}

// Validate checks the non-empty-string invariants on resource_type and
// name. Namespace, when present, is also required to be non-empty by
// construction (an explicitly empty namespace is indistinguishable from
// an absent one on the wire, so it is treated as absent).
func (a ResourceAddress) Validate() error {
	if strings.TrimSpace(a.ResourceType) == "" {
		return fmt.Errorf("resource address: resource_type must not be empty")
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("resource address: name must not be empty")
	}
	return nil
}
