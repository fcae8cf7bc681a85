package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

const userSchema = `{
	"type": "object",
	"properties": {"age": {"type": "integer", "minimum": 18}},
	"required": ["age"]
}`

func TestSchemaValidatorNotFound(t *testing.T) {
	registry := NewRegistry()
	v := NewSchemaValidator(registry)

	r := sdk.Resource{Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"}, Spec: map[string]interface{}{"age": 15}}
	result := v.Validate(r)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeSchemaNotFound, result.Errors[0].Code)
	assert.True(t, result.OnlySchemaNotFound())
}

func TestSchemaValidatorRejectsViolation(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("user", json.RawMessage(userSchema)))

	v := NewSchemaValidator(registry)
	r := sdk.Resource{Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"}, Spec: map[string]interface{}{"age": 15}}
	result := v.Validate(r)

	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.JoinErrors(), "spec/age")
	assert.Contains(t, result.JoinErrors(), "minimum")
}

func TestSchemaValidatorAccepts(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("user", json.RawMessage(userSchema)))

	v := NewSchemaValidator(registry)
	r := sdk.Resource{Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"}, Spec: map[string]interface{}{"age": 21}}
	assert.True(t, v.Validate(r).Valid)
}

func TestRegistryRegisterIsIdempotentOverwrite(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("user", json.RawMessage(`{"type":"object"}`)))
	require.NoError(t, registry.Register("user", json.RawMessage(userSchema)))

	_, ok := registry.Lookup("user")
	assert.True(t, ok)
}

func TestRegistryRejectsInvalidSchema(t *testing.T) {
	registry := NewRegistry()
	err := registry.Register("user", json.RawMessage(`{"type": 123}`))
	assert.Error(t, err)
}

func TestCompositeValidatorConcatenatesAndANDs(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("user", json.RawMessage(userSchema)))
	composite := DefaultComposite(registry)

	r := sdk.Resource{Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"}, Spec: map[string]interface{}{}}
	result := composite.Validate(r)
	assert.False(t, result.Valid)
	// EMPTY_SPEC from the baseline validator and the schema's own
	// required-field violation should both appear.
	codes := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		codes = append(codes, e.Code)
	}
	assert.Contains(t, codes, CodeEmptySpec)
}

type hostPackageSpec struct {
	Package string `json:"package"`
	Version string `json:"version,omitempty"`
}

func TestRegisterTypeDerivesSchemaFromGoType(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, RegisterType[hostPackageSpec](registry, "package"))

	v := NewSchemaValidator(registry)

	valid := sdk.Resource{Address: sdk.ResourceAddress{ResourceType: "package", Name: "a"}, Spec: map[string]interface{}{"package": "nginx"}}
	assert.True(t, v.Validate(valid).Valid)

	invalid := sdk.Resource{Address: sdk.ResourceAddress{ResourceType: "package", Name: "a"}, Spec: map[string]interface{}{"package": 123}}
	result := v.Validate(invalid)
	assert.False(t, result.Valid)
}

func TestCompositePassThroughWhenOnlySchemaNotFound(t *testing.T) {
	registry := NewRegistry()
	composite := DefaultComposite(registry)

	r := sdk.Resource{Address: sdk.ResourceAddress{ResourceType: "unregistered", Name: "a"}, Spec: map[string]interface{}{"k": "v"}}
	result := composite.Validate(r)
	assert.False(t, result.Valid)
	assert.True(t, result.OnlySchemaNotFound())
}
