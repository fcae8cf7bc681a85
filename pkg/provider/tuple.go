package provider

import (
	"encoding/json"
	"fmt"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

// marshalAddressErrorTuple and unmarshalAddressErrorTuple implement the
// [address, message] wire tuple that §6 of SPEC_FULL.md specifies for
// failed_addresses and validate's errors, instead of the more verbose
// {"address": ..., "message": ...} object shape.
func marshalAddressErrorTuple(a AddressError) ([]byte, error) {
	return json.Marshal([2]interface{}{a.Address, a.Message})
}

func unmarshalAddressErrorTuple(data []byte, out *AddressError) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("address/message tuple: %w", err)
	}
	var addr sdk.ResourceAddress
	if err := json.Unmarshal(tuple[0], &addr); err != nil {
		return fmt.Errorf("address/message tuple: address: %w", err)
	}
	var msg string
	if err := json.Unmarshal(tuple[1], &msg); err != nil {
		return fmt.Errorf("address/message tuple: message: %w", err)
	}
	out.Address = addr
	out.Message = msg
	return nil
}
