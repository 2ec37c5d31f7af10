package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/swipe-solver/internal/dictionary"
	"github.com/ironsheep/swipe-solver/internal/imaging"
	"github.com/ironsheep/swipe-solver/internal/logging"
	"github.com/ironsheep/swipe-solver/internal/ocr"
	"github.com/ironsheep/swipe-solver/internal/solver"
)

// Name is reported in the MCP handshake.
const Name = "swipe-solver"

// OCRStatus reports whether character recognition is usable.
type OCRStatus interface {
	Info() ocr.Info
}

// Options configures both surfaces.
type Options struct {
	Version string

	// UploadDir holds uploaded screenshots while they are being solved.
	UploadDir string

	// MaxUploadBytes caps the /solve request body.
	MaxUploadBytes int64

	// AllowedExtensions lists accepted upload extensions without the dot.
	AllowedExtensions []string
}

// DefaultOptions mirrors the upload limits of the HTTP API.
func DefaultOptions() Options {
	return Options{
		Version:           "dev",
		UploadDir:         "uploads",
		MaxUploadBytes:    16 << 20,
		AllowedExtensions: []string{"png", "jpg", "jpeg", "gif", "bmp", "webp"},
	}
}

// Server exposes the solver over MCP (stdio JSON-RPC) and HTTP.
type Server struct {
	solver *solver.Solver
	dict   *dictionary.Dictionary
	ocr    OCRStatus
	cache  *imaging.ImageCache
	opts   Options
	log    *logging.Logger
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server. ocrStatus may be nil.
func New(s *solver.Solver, dict *dictionary.Dictionary, ocrStatus OCRStatus, opts Options, log *logging.Logger) *Server {
	def := DefaultOptions()
	if opts.Version == "" {
		opts.Version = def.Version
	}
	if opts.UploadDir == "" {
		opts.UploadDir = def.UploadDir
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = def.MaxUploadBytes
	}
	if len(opts.AllowedExtensions) == 0 {
		opts.AllowedExtensions = def.AllowedExtensions
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Server{
		solver: s,
		dict:   dict,
		ocr:    ocrStatus,
		cache:  imaging.NewImageCache(),
		opts:   opts,
		log:    log,
	}
}

// Run serves MCP on stdin/stdout until stdin closes or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.ServeMCP(ctx, os.Stdin, os.Stdout)
}

// ServeMCP reads one JSON-RPC request per line from r and writes responses
// to w.
func (s *Server) ServeMCP(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)
	defer s.cache.Clear()

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("failed to parse request", "error", err)
			if err := encoder.Encode(s.errorResponse(nil, -32700, "Parse error", err.Error())); err != nil {
				s.log.Error("failed to encode response", "error", err)
			}
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.Error("failed to encode response", "error", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: map[string]interface{}{
				"tools": ToolDefinitions(),
			},
		}
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, -32601, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    Name,
				"version": s.opts.Version,
			},
		},
	}
}

func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

func (s *Server) ocrInfo() ocr.Info {
	if s.ocr == nil {
		return ocr.Info{Available: false, Backend: ocr.Backend, Error: ocr.ErrUnavailable.Error()}
	}
	return s.ocr.Info()
}
