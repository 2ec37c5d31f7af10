package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/ironsheep/swipe-solver/internal/dictionary"
	"github.com/ironsheep/swipe-solver/internal/imaging"
	"github.com/ironsheep/swipe-solver/internal/letters"
	"github.com/ironsheep/swipe-solver/internal/ocr"
	"github.com/ironsheep/swipe-solver/internal/solver"
	"github.com/ironsheep/swipe-solver/internal/swipe"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "solve_puzzle":
		return s.handleSolvePuzzle(args)
	case "detect_letters":
		return s.handleDetectLetters(args)
	case "find_words":
		return s.handleFindWords(args)
	case "dictionary_info":
		return s.handleDictionaryInfo(args)
	case "annotate_solution":
		return s.handleAnnotateSolution(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments; missing arguments decode as zero.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

var errPathRequired = errors.New("path is required")

type pathArgs struct {
	Path   string `json:"path"`
	Reload bool   `json:"reload"`
}

func (s *Server) loadImage(args json.RawMessage) (image.Image, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errPathRequired
	}
	if a.Reload {
		s.cache.Evict(a.Path)
	}
	return s.cache.Load(a.Path)
}

// handleSolvePuzzle follows the solve contract: an unreadable image is an
// empty result, not a tool error.
func (s *Server) handleSolvePuzzle(args json.RawMessage) (interface{}, error) {
	img, err := s.loadImage(args)
	if err != nil {
		if errors.Is(err, errPathRequired) {
			return nil, err
		}
		s.log.Warn("failed to load screenshot", "error", err)
		return solver.Empty(), nil
	}
	return s.solver.SolveImage(img), nil
}

// DetectLettersResult is returned by detect_letters.
type DetectLettersResult struct {
	Width        int                   `json:"width"`
	Height       int                   `json:"height"`
	Letters      string                `json:"letters"`
	Observations []letters.Observation `json:"observations"`
	Trace        letters.Trace         `json:"trace"`
}

func (s *Server) handleDetectLetters(args json.RawMessage) (interface{}, error) {
	img, err := s.loadImage(args)
	if err != nil {
		return nil, err
	}
	a := s.solver.Analyze(img)
	if a.Error != "" {
		return nil, errors.New(a.Error)
	}
	var sb strings.Builder
	for _, o := range a.Observations {
		sb.WriteString(o.Letter)
	}
	return &DetectLettersResult{
		Width:        a.Width,
		Height:       a.Height,
		Letters:      sb.String(),
		Observations: a.Observations,
		Trace:        a.Trace,
	}, nil
}

func (s *Server) handleFindWords(args json.RawMessage) (interface{}, error) {
	var a struct {
		Letters string `json:"letters"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	obs := letters.Ring(a.Letters, image.Point{X: 200, Y: 200}, 100)
	if len(obs) == 0 {
		return nil, errors.New("letters must contain at least one letter A-Z")
	}
	return s.solver.Words(obs), nil
}

// DictionaryInfoResult is returned by dictionary_info.
type DictionaryInfoResult struct {
	Size     int               `json:"size"`
	Source   dictionary.Source `json:"source"`
	Contains map[string]bool   `json:"contains,omitempty"`
	OCR      ocr.Info          `json:"ocr"`
}

func (s *Server) handleDictionaryInfo(args json.RawMessage) (interface{}, error) {
	var a struct {
		Words []string `json:"words"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	res := &DictionaryInfoResult{
		Size:   s.dict.Len(),
		Source: s.dict.Source(),
		OCR:    s.ocrInfo(),
	}
	if len(a.Words) > 0 {
		res.Contains = make(map[string]bool, len(a.Words))
		for _, w := range a.Words {
			res.Contains[strings.ToUpper(w)] = s.dict.Contains(w)
		}
	}
	return res, nil
}

// AnnotateResult is returned by annotate_solution. Image is omitted when the
// rendering was written to OutputPath.
type AnnotateResult struct {
	Swipes     []swipe.Candidate     `json:"swipes"`
	OutputPath string                `json:"output_path,omitempty"`
	Image      *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleAnnotateSolution(args json.RawMessage) (interface{}, error) {
	var a struct {
		OutputPath string `json:"output_path"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(args)
	if err != nil {
		return nil, err
	}

	analysis := s.solver.Analyze(img)
	rendered := solver.Annotate(img, analysis)
	res := &AnnotateResult{Swipes: analysis.Result().Swipes}

	if a.OutputPath != "" {
		f, err := os.Create(a.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		if err := imaging.EncodePNG(f, rendered); err != nil {
			return nil, err
		}
		res.OutputPath = a.OutputPath
		return res, nil
	}

	res.Image, err = imaging.EncodeBase64(rendered)
	if err != nil {
		return nil, err
	}
	return res, nil
}
