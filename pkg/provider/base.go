package provider

import (
	"context"
	"fmt"
)

// Base implements the two optional methods of Provider with the
// defaults SPEC_FULL.md §4.C mandates: Validate always reports valid,
// Import always fails with a provider error. Embed Base in a concrete
// provider to get these defaults for free, overriding only what the
// provider actually supports.
type Base struct{}

// Validate is the default implementation: always valid.
func (Base) Validate(ctx context.Context, req ValidateRequest) (ValidateResponse, error) {
	return ValidateResponse{Valid: true}, nil
}

// Import is the default implementation: always fails.
func (Base) Import(ctx context.Context, req ImportRequest) (ImportResponse, error) {
	return ImportResponse{}, fmt.Errorf("import is not supported by this provider")
}
