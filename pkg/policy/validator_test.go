package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

const denyOver65 = `
package froyo.policies

deny[msg] {
	input.spec.age > 65
	msg := "age must not exceed 65"
}
`

func TestValidatorAllowsWithinPolicy(t *testing.T) {
	v := NewValidator("age-limit", denyOver65)
	r := sdk.Resource{
		Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"},
		Spec:    map[string]interface{}{"age": 30},
	}
	result := v.Validate(r)
	assert.True(t, result.Valid)
}

func TestValidatorDeniesOverLimit(t *testing.T) {
	v := NewValidator("age-limit", denyOver65)
	r := sdk.Resource{
		Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"},
		Spec:    map[string]interface{}{"age": 70},
	}
	result := v.Validate(r)
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "policy:age-limit", result.Errors[0].Code)
	assert.Contains(t, result.Errors[0].Message, "age must not exceed 65")
}

func TestValidatorExtractsPackageName(t *testing.T) {
	v := NewValidator("age-limit", denyOver65)
	assert.Equal(t, "froyo.policies", v.packageName)
}

func TestBuiltinValidatorAllowsSpecWithoutPassword(t *testing.T) {
	v := NewBuiltinValidator()
	r := sdk.Resource{
		Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"},
		Spec:    map[string]interface{}{"username": "alice"},
	}
	assert.True(t, v.Validate(r).Valid)
}

func TestBuiltinValidatorRejectsPlaintextPassword(t *testing.T) {
	v := NewBuiltinValidator()
	r := sdk.Resource{
		Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"},
		Spec:    map[string]interface{}{"username": "alice", "password": "hunter2"},
	}
	result := v.Validate(r)
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodePolicyViolation, result.Errors[0].Code)
	assert.Contains(t, result.Errors[0].Message, "password")
}
