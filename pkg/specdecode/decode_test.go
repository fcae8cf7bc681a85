package specdecode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

type userSpec struct {
	Age int `json:"age"`
}

func TestDecodeSuccess(t *testing.T) {
	r := sdk.Resource{
		Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"},
		Spec:    map[string]interface{}{"age": 30},
	}

	var out userSpec
	require.NoError(t, Decode(r, &out))
	assert.Equal(t, 30, out.Age)
}

func TestDecodeErrorIncludesAddressAndType(t *testing.T) {
	r := sdk.Resource{
		Address: sdk.ResourceAddress{ResourceType: "user", Name: "a", Namespace: "team"},
		Spec:    map[string]interface{}{"age": "not-a-number"},
	}

	var out userSpec
	err := Decode(r, &out)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "user.team/a"))
	assert.True(t, strings.Contains(err.Error(), "type=user"))
}
