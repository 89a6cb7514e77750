// Package server exposes the scoreboard pipeline as MCP tools over stdio.
//
// The server speaks line-delimited JSON-RPC 2.0:
//   - Input: one JSON-RPC request per line on stdin
//   - Output: one JSON-RPC response per line on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - scoreboard_extract: Run the full pipeline on a screenshot
//   - scoreboard_parse_text: Parse raw OCR text without any image
//   - scoreboard_preprocess: Return the normalized image of one section
//   - image_load: Decode a screenshot and report its metadata
//   - ocr_info: Report whether the recognition engine is usable
//
// # Image Caching
//
// Screenshots are cached by path for the lifetime of the process, so a
// preprocess preview followed by an extraction decodes the file once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000 and the Go error string as data. Unparseable requests are logged
// and skipped.
package server
