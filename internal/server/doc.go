// Package server implements the MCP (Model Context Protocol) server for
// sketch classification.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - sketch_load: dimensions, format and binarization statistics
//   - sketch_classify: circle, triangle or unknown with confidence and metrics
//   - sketch_contours: every traced contour with its area and circularity
//   - sketch_classify_fused: algorithmic result fused with the learned model
//
// The classification tools accept per-call threshold overrides. They are
// merged onto the server's tuning and validated before the pipeline runs. A
// region or named quadrant restricts classification to part of the image,
// and invert flips dark ink on a light page into the light-on-dark form the
// pipeline expects. With debug set, sketch_classify also returns a PNG
// overlay of the traced geometry.
//
// # Image Caching
//
// Images are cached by path and reused across tool calls for the lifetime
// of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// An unreachable model is not an error: sketch_classify_fused falls back to
// the algorithmic result and reports model_error.
//
// # Usage
//
//	srv := server.New(server.WithTuning(tuning))
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
