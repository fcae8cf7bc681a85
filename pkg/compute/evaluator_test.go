package compute

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

func changeWithSpec(spec map[string]interface{}) sdk.Change {
	return sdk.Change{
		Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"},
		After: &sdk.Resource{
			Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"},
			Spec:    spec,
		},
	}
}

func TestEvaluateComputesResult(t *testing.T) {
	e := NewEvaluator(0)
	change := changeWithSpec(map[string]interface{}{"first_name": "ada", "last_name": "lovelace"})

	field := Field{
		Name:   "full_name",
		Script: `result = spec["first_name"] + "_" + spec["last_name"]`,
	}

	v, err := e.Evaluate(context.Background(), change, field)
	require.NoError(t, err)
	assert.Equal(t, "ada_lovelace", v)
}

func TestEvaluateMissingResultErrors(t *testing.T) {
	e := NewEvaluator(0)
	change := changeWithSpec(map[string]interface{}{})

	field := Field{Name: "nothing", Script: `x = 1`}

	_, err := e.Evaluate(context.Background(), change, field)
	assert.Error(t, err)
}

func TestEvaluateRequiresAfterState(t *testing.T) {
	e := NewEvaluator(0)
	change := sdk.Change{Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"}}

	_, err := e.Evaluate(context.Background(), change, Field{Name: "x", Script: "result = 1"})
	assert.Error(t, err)
}

func TestEvaluateAllStopsOnFirstError(t *testing.T) {
	e := NewEvaluator(0)
	change := changeWithSpec(map[string]interface{}{"age": 5})

	fields := []Field{
		{Name: "ok", Script: "result = spec[\"age\"]"},
		{Name: "bad", Script: "x = 1"},
	}

	_, err := e.EvaluateAll(context.Background(), change, fields)
	assert.Error(t, err)
}
