package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

func TestBaselineValidatorEmptySpec(t *testing.T) {
	r := sdk.Resource{Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"}, Spec: map[string]interface{}{}}
	result := BaselineValidator{}.Validate(r)
	assert.False(t, result.Valid)
	assert.Equal(t, CodeEmptySpec, result.Errors[0].Code)
}

func TestBaselineValidatorReservedFieldName(t *testing.T) {
	r := sdk.Resource{
		Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"},
		Spec:    map[string]interface{}{"_internal": "x"},
	}
	result := BaselineValidator{}.Validate(r)
	assert.False(t, result.Valid)
	assert.Equal(t, CodeReservedFieldName, result.Errors[0].Code)
	assert.Equal(t, "spec._internal", result.Errors[0].Path)
}

func TestBaselineValidatorPasses(t *testing.T) {
	r := sdk.Resource{
		Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"},
		Spec:    map[string]interface{}{"age": 30},
	}
	assert.True(t, BaselineValidator{}.Validate(r).Valid)
}

func TestValidationResultOnlySchemaNotFound(t *testing.T) {
	r := Invalid(ValidationError{Path: "spec", Code: CodeSchemaNotFound})
	assert.True(t, r.OnlySchemaNotFound())

	r2 := Invalid(
		ValidationError{Path: "spec", Code: CodeSchemaNotFound},
		ValidationError{Path: "spec/age", Code: CodeSchemaValidationError},
	)
	assert.False(t, r2.OnlySchemaNotFound())

	assert.False(t, Valid().OnlySchemaNotFound())
}

func TestValidationResultJoinErrors(t *testing.T) {
	r := Invalid(
		ValidationError{Path: "spec/age", Message: "must be >= 18"},
		ValidationError{Path: "spec/name", Message: "is required"},
	)
	assert.Equal(t, "spec/age: must be >= 18; spec/name: is required", r.JoinErrors())
}
