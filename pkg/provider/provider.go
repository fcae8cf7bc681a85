// Package provider defines the capability contract a user-supplied
// provider implements: the six RPC methods the dispatcher routes to,
// and their request/response shapes.
package provider

import (
	"context"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

// Metadata describes a provider: name, version, and optional
// author/repository/description. Pure; must be cheap to compute.
type Metadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	Repository  string `json:"repository,omitempty"`
}

// Capabilities lists the resource types a provider manages plus two
// feature flags. Pure.
type Capabilities struct {
	ResourceTypes []string `json:"resource_types"`
	CanImport     bool     `json:"can_import"`
	CanValidate   bool     `json:"can_validate"`
}

// PlanRequest carries the inputs to Plan.
type PlanRequest struct {
	WorkspacePath string         `json:"workspace_path"`
	DesiredState  []sdk.Resource `json:"desired_state"`
	CurrentState  []sdk.Resource `json:"current_state"`
}

// PlanResponse carries the outcome of Plan. Tie-breaks and ordering
// among Changes are at the provider's discretion.
type PlanResponse struct {
	Changes []sdk.Change `json:"changes"`
}

// AddressError pairs a failing address with a human-readable message;
// used in both ApplyResponse.FailedAddresses and
// ValidateResponse.Errors.
type AddressError struct {
	Address sdk.ResourceAddress
	Message string
}

// MarshalJSON renders an AddressError as the two-element
// [address, message] wire tuple used throughout §6.
func (a AddressError) MarshalJSON() ([]byte, error) {
	return marshalAddressErrorTuple(a)
}

// UnmarshalJSON parses the two-element [address, message] wire tuple.
func (a *AddressError) UnmarshalJSON(data []byte) error {
	return unmarshalAddressErrorTuple(data, a)
}

// ApplyRequest carries the Changes to execute.
type ApplyRequest struct {
	Changes []sdk.Change `json:"changes"`
}

// ApplyResponse splits addresses into successes and failures. Partial
// success is a first-class outcome, not an error.
type ApplyResponse struct {
	SuccessfulAddresses []sdk.ResourceAddress `json:"successful_addresses"`
	FailedAddresses     []AddressError        `json:"failed_addresses"`
}

// ValidateRequest carries the Resources to validate.
type ValidateRequest struct {
	Resources []sdk.Resource `json:"resources"`
}

// ValidateResponse carries the outcome of Validate.
type ValidateResponse struct {
	Valid  bool           `json:"valid"`
	Errors []AddressError `json:"errors,omitempty"`
}

// ImportRequest identifies an external object to bring under management.
type ImportRequest struct {
	Address sdk.ResourceAddress `json:"address"`
	ID      string              `json:"id"`
}

// ImportResponse carries the imported Resource.
type ImportResponse struct {
	Resource sdk.Resource `json:"resource"`
}

// Provider is the interface a plugin author implements. Validate and
// Import have SDK-supplied defaults (see Base) so implementors only
// need to override what they actually support.
type Provider interface {
	Metadata(ctx context.Context) (Metadata, error)
	Capabilities(ctx context.Context) (Capabilities, error)
	Plan(ctx context.Context, req PlanRequest) (PlanResponse, error)
	Apply(ctx context.Context, req ApplyRequest) (ApplyResponse, error)
	Validate(ctx context.Context, req ValidateRequest) (ValidateResponse, error)
	Import(ctx context.Context, req ImportRequest) (ImportResponse, error)
}
