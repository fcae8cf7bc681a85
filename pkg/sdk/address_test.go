package sdk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceAddressString(t *testing.T) {
	cases := []struct {
		name string
		addr ResourceAddress
		want string
	}{
		{"no namespace", ResourceAddress{ResourceType: "user", Name: "alice"}, "user.alice"},
		{"with namespace", ResourceAddress{ResourceType: "user", Name: "alice", Namespace: "prod"}, "user.prod/alice"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.addr.String())
		})
	}
}

func TestResourceAddressJSONRoundTrip(t *testing.T) {
	cases := []ResourceAddress{
		{ResourceType: "pkg", Name: "nginx"},
		{ResourceType: "pkg", Name: "nginx", Namespace: "web"},
	}
	for _, want := range cases {
		data, err := json.Marshal(want)
		require.NoError(t, err)

		var got ResourceAddress
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, want, got)
	}
}

func TestResourceAddressMarshalsNullNamespace(t *testing.T) {
	data, err := json.Marshal(ResourceAddress{ResourceType: "pkg", Name: "nginx"})
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	ns, present := raw["namespace"]
	assert.True(t, present, "namespace key must be present even when empty")
	assert.Nil(t, ns)
}

func TestResourceAddressValidate(t *testing.T) {
	assert.NoError(t, ResourceAddress{ResourceType: "pkg", Name: "nginx"}.Validate())
	assert.Error(t, ResourceAddress{ResourceType: "", Name: "nginx"}.Validate())
	assert.Error(t, ResourceAddress{ResourceType: "pkg", Name: ""}.Validate())
	assert.Error(t, ResourceAddress{ResourceType: "  ", Name: "nginx"}.Validate())
}
