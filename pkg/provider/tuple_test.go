package provider

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

func TestAddressErrorTupleRoundTrip(t *testing.T) {
	want := AddressError{
		Address: sdk.ResourceAddress{ResourceType: "pkg", Name: "nginx"},
		Message: "boom",
	}

	data, err := json.Marshal(want)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"resource_type":"pkg","name":"nginx","namespace":null},"boom"]`, string(data))

	var got AddressError
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, want, got)
}

func TestApplyResponseRoundTrip(t *testing.T) {
	want := ApplyResponse{
		SuccessfulAddresses: []sdk.ResourceAddress{{ResourceType: "pkg", Name: "a"}},
		FailedAddresses: []AddressError{
			{Address: sdk.ResourceAddress{ResourceType: "pkg", Name: "b"}, Message: "boom"},
		},
	}
	data, err := json.Marshal(want)
	require.NoError(t, err)

	var got ApplyResponse
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, want, got)
}
