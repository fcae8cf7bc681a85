// Package specdecode decodes a Resource's untyped spec map into a
// caller-supplied typed struct, via a marshal/unmarshal round trip
// rather than a reflection-based mapper — matching the decoding
// behavior the distributed spec format was originally defined against.
package specdecode

import (
	"encoding/json"
	"fmt"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

// Decode marshals resource.Spec to JSON and unmarshals it into out,
// which must be a pointer. On failure, the returned error names the
// resource's canonical address and resource type.
func Decode(resource sdk.Resource, out interface{}) error {
	raw, err := json.Marshal(resource.Spec)
	if err != nil {
		return sdk.NewSerializationError("failed to serialize spec", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return sdk.NewConfigError(
			fmt.Sprintf("invalid spec for %s (type=%s): %v", resource.Address.String(), resource.Address.ResourceType, err),
			err,
		)
	}

	return nil
}
