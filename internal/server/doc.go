// Package server exposes the swipe solver over two transports.
//
// # HTTP
//
// Handler serves a small JSON API:
//   - GET /: service status and version
//   - GET /health: dictionary size and source, OCR availability, upload folder
//   - POST /solve: multipart upload in the "screenshot" field
//
// Uploads are checked against the allowed extensions and the size limit,
// written to the upload folder under a random name and removed once solved,
// whatever the outcome. A screenshot that yields nothing answers
// {"swipes": []} with status 200; only malformed requests get a 4xx.
//
// # MCP
//
// ServeMCP speaks JSON-RPC 2.0 over line-delimited stdio:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// Tools:
//   - solve_puzzle: ranked words and swipe paths for a screenshot
//   - detect_letters: letters, positions and the detection trace
//   - find_words: words from letters given directly
//   - dictionary_info: dictionary size/source, word lookups, OCR status
//   - annotate_solution: screenshot with letters and paths drawn over it
//
// Screenshots loaded by tools are cached by path for the server's lifetime,
// so detect, solve and annotate on one file decode it once.
//
// Tool errors are JSON-RPC errors with code -32000; the message is
// "Tool execution failed" and data carries the Go error string.
package server
