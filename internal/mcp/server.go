// Package mcp serves a tools.Registry over the Model Context Protocol using
// the official Go SDK. Every registry tool becomes an MCP tool whose input
// schema is the registry schema; failures are returned as classified error
// records with isError set.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/schmitthub/dockmcp/internal/logger"
	"github.com/schmitthub/dockmcp/internal/tools"
)

// DefaultDrainTimeout bounds how long Serve waits, after stdin closes, for
// answers to requests that were already received.
const DefaultDrainTimeout = 30 * time.Second

// Implementation identifies the server to clients.
type Implementation struct {
	Name    string
	Version string
}

// Server exposes a registry as MCP tools.
type Server struct {
	registry *tools.Registry
	sdk      *mcpsdk.Server

	// DrainTimeout overrides DefaultDrainTimeout when positive.
	DrainTimeout time.Duration
}

// NewServer returns a server exposing every tool in registry.
func NewServer(registry *tools.Registry, info Implementation, instructions string) *Server {
	sdk := mcpsdk.NewServer(
		&mcpsdk.Implementation{Name: info.Name, Version: info.Version},
		&mcpsdk.ServerOptions{Instructions: instructions},
	)
	s := &Server{registry: registry, sdk: sdk}
	for _, t := range registry.Tools() {
		sdk.AddTool(&mcpsdk.Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: inputSchema(t.Input),
		}, s.handler(t.Name))
	}
	return s
}

// inputSchema returns the wire form of a registry schema.
func inputSchema(s tools.Schema) map[string]any {
	if len(s) == 0 {
		return map[string]any{"type": "object"}
	}
	return map[string]any(s)
}

// Serve runs one session over newline-delimited JSON-RPC on in and out.
// It returns nil once in reaches EOF and pending requests are answered, or
// ctx.Err() when ctx is done first.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	timeout := s.DrainTimeout
	if timeout <= 0 {
		timeout = DefaultDrainTimeout
	}
	conn := newDrainConn(in, out, timeout)

	logger.Info().Int("tools", len(s.registry.Tools())).Msg("mcp server listening on stdio")
	err := s.sdk.Run(ctx, &mcpsdk.IOTransport{Reader: drainReader{conn}, Writer: drainWriter{conn}})
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case conn.sawEOF(), errors.Is(err, io.EOF):
		logger.Info().Msg("stdin closed, shutting down")
		return nil
	}
	return err
}

func (s *Server) handler(name string) mcpsdk.ToolHandler {
	return func(ctx context.Context, req *mcpsdk.CallToolRequest) (res *mcpsdk.CallToolResult, _ error) {
		log := logger.Log.With().Str("tool", name).Logger()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("tool panicked")
				res = ErrorResult(fmt.Errorf("tool %s failed: %v", name, r))
			}
		}()

		var args map[string]any
		if raw := req.Params.Arguments; len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return ErrorResult(&tools.ArgumentError{Message: fmt.Sprintf("arguments for %s must be a JSON object: %v", name, err)}), nil
			}
		}

		out, err := s.registry.Call(ctx, name, args)
		if err != nil {
			log.Warn().Err(err).Msg("tool call failed")
			return ErrorResult(err), nil
		}
		return TextResult(out), nil
	}
}

// TextResult renders a record as an indented JSON text block.
func TextResult(record any) *mcpsdk.CallToolResult {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return ErrorResult(fmt.Errorf("encoding result: %w", err))
	}
	return &mcpsdk.CallToolResult{Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}}}
}

// ErrorResult renders err as a classified error record with isError set.
func ErrorResult(err error) *mcpsdk.CallToolResult {
	data, _ := json.MarshalIndent(tools.ClassifyError(err), "", "  ")
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
		IsError: true,
	}
}
