package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
	"github.com/froyo-sdk/provider-sdk/pkg/telemetry"
)

// maxLineBytes bounds a single request/response line. 8 MiB comfortably
// covers a plan over a large desired/current state while still catching
// a runaway or malformed stream (see DESIGN.md's Open Question note).
const maxLineBytes = 8 * 1024 * 1024

// Server hosts a Dispatcher over a newline-delimited JSON-RPC stream.
// One line in is one request; one line out is one response. It never
// batches, and a malformed line never terminates the loop.
type Server struct {
	dispatcher *Dispatcher
	logger     *telemetry.Logger
}

// NewServer builds a Server around a Dispatcher. logger may be nil, in
// which case diagnostics are dropped.
func NewServer(d *Dispatcher, logger *telemetry.Logger) *Server {
	return &Server{dispatcher: d, logger: logger}
}

// Serve runs the read/dispatch/write loop until ctx is canceled or r
// reaches EOF, which is a clean shutdown. Diagnostics (parse failures,
// write failures) are logged, never written to w.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	bw := bufio.NewWriter(w)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				s.logf("read error: %v", err)
				return err
			}
			return nil
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := s.handleLine(ctx, line)
		if err := s.writeResponse(bw, resp); err != nil {
			s.logf("write error: %v", err)
			return err
		}
	}
}

func (s *Server) handleLine(ctx context.Context, line []byte) *sdk.ResponseEnvelope {
	var req sdk.RequestEnvelope
	if err := json.Unmarshal(line, &req); err != nil {
		s.logf("parse error: %v", err)
		return sdk.NewErrorEnvelope(nil, sdk.CodeParseError, fmt.Sprintf("parse error: %v", err))
	}

	if req.JSONRPC != "" && req.JSONRPC != "2.0" {
		return sdk.NewErrorEnvelope(req.ID, sdk.CodeParseError, fmt.Sprintf("unsupported jsonrpc version: %s", req.JSONRPC))
	}

	return s.dispatcher.Dispatch(ctx, req)
}

func (s *Server) writeResponse(bw *bufio.Writer, resp *sdk.ResponseEnvelope) error {
	resp.JSONRPC = "2.0"
	encoded, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if _, err := bw.Write(encoded); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.logger == nil {
		return
	}
	s.logger.Errorf(format, args...)
}
