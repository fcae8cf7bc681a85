package schema

import "github.com/froyo-sdk/provider-sdk/pkg/sdk"

// CompositeValidator runs an ordered list of validators against a
// Resource and merges their outputs: the aggregate is valid iff every
// sub-result is valid; errors and warnings concatenate in encounter
// order.
type CompositeValidator struct {
	validators []Validator
}

// NewCompositeValidator builds a CompositeValidator over validators, in
// the given order.
func NewCompositeValidator(validators ...Validator) *CompositeValidator {
	return &CompositeValidator{validators: validators}
}

// Add appends another validator to the end of the pipeline, returning
// the receiver for chaining.
func (c *CompositeValidator) Add(v Validator) *CompositeValidator {
	c.validators = append(c.validators, v)
	return c
}

// Validate implements Validator.
func (c *CompositeValidator) Validate(resource sdk.Resource) ValidationResult {
	agg := ValidationResult{Valid: true}
	for _, v := range c.validators {
		r := v.Validate(resource)
		if !r.Valid {
			agg.Valid = false
		}
		agg.Errors = append(agg.Errors, r.Errors...)
		agg.Warnings = append(agg.Warnings, r.Warnings...)
	}
	return agg
}

// DefaultComposite builds the pipeline this SDK registers by default:
// the additive baseline checks, the schema validator backed by
// registry, then an optional trailing set of extra validators (for
// example a policy validator) in the order supplied.
func DefaultComposite(registry *Registry, extra ...Validator) *CompositeValidator {
	c := NewCompositeValidator(BaselineValidator{}, NewSchemaValidator(registry))
	for _, v := range extra {
		c.Add(v)
	}
	return c
}
