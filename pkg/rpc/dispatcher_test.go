package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/froyo-sdk/provider-sdk/pkg/provider"
	"github.com/froyo-sdk/provider-sdk/pkg/schema"
	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

type stubProvider struct {
	provider.Base
	metadata     provider.Metadata
	capabilities provider.Capabilities
	planResp     provider.PlanResponse
	applyResp    provider.ApplyResponse
	planErr      error
	applyErr     error
}

func (s *stubProvider) Metadata(ctx context.Context) (provider.Metadata, error) {
	return s.metadata, nil
}

func (s *stubProvider) Capabilities(ctx context.Context) (provider.Capabilities, error) {
	return s.capabilities, nil
}

func (s *stubProvider) Plan(ctx context.Context, req provider.PlanRequest) (provider.PlanResponse, error) {
	return s.planResp, s.planErr
}

func (s *stubProvider) Apply(ctx context.Context, req provider.ApplyRequest) (provider.ApplyResponse, error) {
	return s.applyResp, s.applyErr
}

func rawID(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestDispatchMethodNotFound(t *testing.T) {
	d := NewDispatcher(&stubProvider{}, nil)
	resp := d.Dispatch(context.Background(), sdk.RequestEnvelope{Method: "bogus", ID: rawID(t, 1)})
	require.NotNil(t, resp.Error)
	assert.Equal(t, sdk.CodeMethodNotFound, resp.Error.Code)
}

func TestDispatchMetadataSuccess(t *testing.T) {
	p := &stubProvider{metadata: provider.Metadata{Name: "demo", Version: "1.0.0"}}
	d := NewDispatcher(p, nil)
	resp := d.Dispatch(context.Background(), sdk.RequestEnvelope{Method: "metadata", ID: rawID(t, 1)})
	require.Nil(t, resp.Error)

	var got provider.Metadata
	require.NoError(t, json.Unmarshal(resp.Result, &got))
	assert.Equal(t, "demo", got.Name)
}

func TestDispatchPlanInvalidParams(t *testing.T) {
	d := NewDispatcher(&stubProvider{}, nil)
	resp := d.Dispatch(context.Background(), sdk.RequestEnvelope{Method: "plan", Params: json.RawMessage(`{`), ID: rawID(t, 1)})
	require.NotNil(t, resp.Error)
	assert.Equal(t, sdk.CodeInvalidParams, resp.Error.Code)
}

func TestDispatchPlanProviderError(t *testing.T) {
	p := &stubProvider{planErr: fmt.Errorf("boom")}
	d := NewDispatcher(p, nil)
	params := rawID(t, provider.PlanRequest{})
	resp := d.Dispatch(context.Background(), sdk.RequestEnvelope{Method: "plan", Params: params, ID: rawID(t, 1)})
	require.NotNil(t, resp.Error)
	assert.Equal(t, sdk.CodeProviderError, resp.Error.Code)
}

func TestDispatchValidateRejectsBySchema(t *testing.T) {
	registry := schema.NewRegistry()
	require.NoError(t, registry.Register("user", json.RawMessage(`{
		"type": "object",
		"properties": {"age": {"type": "integer", "minimum": 18}},
		"required": ["age"]
	}`)))

	d := NewDispatcher(&stubProvider{}, schema.DefaultComposite(registry))

	params := rawID(t, provider.ValidateRequest{
		Resources: []sdk.Resource{{
			Address: sdk.ResourceAddress{ResourceType: "user", Name: "a"},
			Spec:    map[string]interface{}{"age": 5},
		}},
	})
	resp := d.Dispatch(context.Background(), sdk.RequestEnvelope{Method: "validate", Params: params, ID: rawID(t, 1)})
	require.NotNil(t, resp.Error)
	assert.Equal(t, sdk.CodeInvalidParams, resp.Error.Code)
}

func TestDispatchPassesThroughWhenSchemaNotRegistered(t *testing.T) {
	registry := schema.NewRegistry()
	d := NewDispatcher(&stubProvider{planResp: provider.PlanResponse{}}, schema.DefaultComposite(registry))

	params := rawID(t, provider.PlanRequest{
		DesiredState: []sdk.Resource{{
			Address: sdk.ResourceAddress{ResourceType: "unregistered", Name: "a"},
			Spec:    map[string]interface{}{"x": 1},
		}},
	})
	resp := d.Dispatch(context.Background(), sdk.RequestEnvelope{Method: "plan", Params: params, ID: rawID(t, 1)})
	assert.Nil(t, resp.Error)
}

func TestDispatchSucceedsWithNilMetricsCollector(t *testing.T) {
	m := NewMetrics(nil)
	p := &stubProvider{metadata: provider.Metadata{Name: "demo"}}
	d := NewDispatcher(p, nil).WithMetrics(m)
	resp := d.Dispatch(context.Background(), sdk.RequestEnvelope{Method: "metadata", ID: rawID(t, 1)})
	assert.Nil(t, resp.Error)
}
