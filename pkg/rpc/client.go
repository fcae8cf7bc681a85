package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

// Client is a single-threaded stdio JSON-RPC client: one call is sent
// and awaited before the next is issued, matching a provider's single
// in-flight request contract.
type Client struct {
	transport Transport
	stdin     io.WriteCloser
	stdout    *bufio.Scanner

	mu     sync.Mutex
	closed bool
}

// NewClient builds a Client around the given Transport. The transport
// is not started until Start is called.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// Start launches the provider process via the transport and prepares
// the client for calls.
func (c *Client) Start(ctx context.Context) error {
	stdin, stdout, err := c.transport.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}
	c.stdin = stdin
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	c.stdout = scanner
	return nil
}

// Close closes the client's stdin (signaling EOF to the provider) and
// releases the transport.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.stdin != nil {
		_ = c.stdin.Close()
	}
	return c.transport.Close()
}

// Call sends one JSON-RPC request and blocks until its matching
// response is read. Requests are auto-assigned a UUID id; use CallWithID
// to choose the id explicitly.
func (c *Client) Call(method string, params interface{}) (json.RawMessage, error) {
	return c.CallWithID(method, params, uuid.NewString())
}

// CallWithID sends one JSON-RPC request using a caller-chosen id.
func (c *Client) CallWithID(method string, params interface{}, id interface{}) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("client is closed")
	}

	encodedParams, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode params: %w", err)
	}
	encodedID, err := json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request id: %w", err)
	}

	req := sdk.RequestEnvelope{
		JSONRPC: "2.0",
		Method:  method,
		Params:  encodedParams,
		ID:      encodedID,
	}

	line, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	if _, err := c.stdin.Write(append(line, '\n')); err != nil {
		return nil, fmt.Errorf("failed to write request: %w", err)
	}

	if !c.stdout.Scan() {
		if err := c.stdout.Err(); err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		return nil, io.EOF
	}

	var resp sdk.ResponseEnvelope
	if err := json.Unmarshal(c.stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("provider returned error %d: %s", resp.Error.Code, resp.Error.Message)
	}

	return resp.Result, nil
}
