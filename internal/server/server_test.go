package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/swipe-solver/internal/solver"
)

// callTool sends one tools/call request through handleRequest and returns
// the decoded text payload.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) *MCPResponse {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	require.NoError(t, err)

	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	require.NotNil(t, resp)
	if resp.Error != nil || out == nil {
		return resp
	}

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	content, ok := result["content"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, content, 1)
	text, ok := content[0]["text"].(string)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text), out))
	return resp
}

func TestServeMCP(t *testing.T) {
	s := newTestServer(t, nil)
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"ping"}`,
		`{not json`,
		`{"jsonrpc":"2.0","id":4,"method":"bogus"}`,
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, s.ServeMCP(context.Background(), strings.NewReader(in), &out))

	var responses []map[string]interface{}
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		responses = append(responses, m)
	}
	require.Len(t, responses, 5, "the notification gets no response")

	info := responses[0]["result"].(map[string]interface{})["serverInfo"].(map[string]interface{})
	assert.Equal(t, Name, info["name"])
	assert.Equal(t, "test", info["version"])

	tools := responses[1]["result"].(map[string]interface{})["tools"].([]interface{})
	assert.Len(t, tools, len(ToolDefinitions()))

	assert.Equal(t, float64(3), responses[2]["id"])

	parseErr := responses[3]["error"].(map[string]interface{})
	assert.Equal(t, float64(-32700), parseErr["code"])

	notFound := responses[4]["error"].(map[string]interface{})
	assert.Equal(t, float64(-32601), notFound["code"])
}

func TestServeMCP_Cancelled(t *testing.T) {
	s := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := s.ServeMCP(ctx, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, out.Len())
}

func TestToolDefinitions(t *testing.T) {
	names := map[string]bool{}
	for _, tool := range ToolDefinitions() {
		assert.NotEmpty(t, tool.Description, tool.Name)
		assert.Equal(t, "object", tool.InputSchema["type"], tool.Name)
		names[tool.Name] = true
	}
	for _, want := range []string{"solve_puzzle", "detect_letters", "find_words", "dictionary_info", "annotate_solution"} {
		assert.True(t, names[want], "missing tool %s", want)
	}
}

func TestSolvePuzzleTool(t *testing.T) {
	s := newTestServer(t, partObservations())
	path := createTestImageFile(t, 400, 700, color.White)

	var res solver.Result
	resp := callTool(t, s, "solve_puzzle", map[string]interface{}{"path": path}, &res)
	require.Nil(t, resp.Error)
	require.NotEmpty(t, res.Swipes)
	assert.Equal(t, "PART", res.Swipes[0].Word)
	assert.Equal(t, 1, s.cache.Len())
}

func TestSolvePuzzleTool_UnreadableImage(t *testing.T) {
	s := newTestServer(t, partObservations())

	var res solver.Result
	resp := callTool(t, s, "solve_puzzle", map[string]interface{}{"path": filepath.Join(t.TempDir(), "missing.png")}, &res)
	require.Nil(t, resp.Error)
	assert.NotNil(t, res.Swipes)
	assert.Empty(t, res.Swipes)

	resp = callTool(t, s, "solve_puzzle", map[string]interface{}{}, nil)
	require.NotNil(t, resp.Error, "a missing path argument is a tool error")
	assert.Equal(t, -32000, resp.Error.Code)
}

func TestDetectLettersTool(t *testing.T) {
	s := newTestServer(t, partObservations())
	path := createTestImageFile(t, 400, 700, color.White)

	var res DetectLettersResult
	resp := callTool(t, s, "detect_letters", map[string]interface{}{"path": path}, &res)
	require.Nil(t, resp.Error)
	assert.Equal(t, "PART", res.Letters)
	assert.Equal(t, 400, res.Width)
	assert.Equal(t, 700, res.Height)
	assert.Len(t, res.Observations, 4)
	assert.Equal(t, "fixed", res.Trace.Strategy)
}

func TestDetectLettersTool_Reload(t *testing.T) {
	s := newTestServer(t, partObservations())
	path := createTestImageFile(t, 400, 700, color.White)

	var res DetectLettersResult
	callTool(t, s, "detect_letters", map[string]interface{}{"path": path}, &res)
	require.Equal(t, 400, res.Width)

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 200, 100))))
	require.NoError(t, f.Close())

	callTool(t, s, "detect_letters", map[string]interface{}{"path": path}, &res)
	assert.Equal(t, 400, res.Width, "cached image is reused")

	callTool(t, s, "detect_letters", map[string]interface{}{"path": path, "reload": true}, &res)
	assert.Equal(t, 200, res.Width)
	assert.Equal(t, 100, res.Height)
}

func TestFindWordsTool(t *testing.T) {
	s := newTestServer(t, nil)

	var res solver.Result
	resp := callTool(t, s, "find_words", map[string]interface{}{"letters": "t a p"}, &res)
	require.Nil(t, resp.Error)
	require.Len(t, res.Swipes, 1)
	assert.Equal(t, "TAP", res.Swipes[0].Word)

	resp = callTool(t, s, "find_words", map[string]interface{}{"letters": "123"}, nil)
	assert.NotNil(t, resp.Error)
}

func TestDictionaryInfoTool(t *testing.T) {
	s := newTestServer(t, nil)

	var res DictionaryInfoResult
	resp := callTool(t, s, "dictionary_info", map[string]interface{}{"words": []string{"part", "zzz"}}, &res)
	require.Nil(t, resp.Error)
	assert.Equal(t, 9, res.Size)
	assert.Equal(t, "fallback", string(res.Source))
	assert.Equal(t, map[string]bool{"PART": true, "ZZZ": false}, res.Contains)
	assert.True(t, res.OCR.Available)
}

func TestAnnotateSolutionTool(t *testing.T) {
	s := newTestServer(t, partObservations())
	path := createTestImageFile(t, 400, 700, color.White)

	var res AnnotateResult
	resp := callTool(t, s, "annotate_solution", map[string]interface{}{"path": path}, &res)
	require.Nil(t, resp.Error)
	require.NotNil(t, res.Image)
	assert.Equal(t, 400, res.Image.Width)
	assert.NotEmpty(t, res.Swipes)

	data, err := base64.StdEncoding.DecodeString(res.Image.ImageBase64)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
}

func TestAnnotateSolutionTool_OutputPath(t *testing.T) {
	s := newTestServer(t, partObservations())
	path := createTestImageFile(t, 400, 700, color.White)
	out := filepath.Join(t.TempDir(), "annotated.png")

	var res AnnotateResult
	resp := callTool(t, s, "annotate_solution", map[string]interface{}{"path": path, "output_path": out}, &res)
	require.Nil(t, resp.Error)
	assert.Equal(t, out, res.OutputPath)
	assert.Nil(t, res.Image)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 700, img.Bounds().Dy())
}

func TestUnknownTool(t *testing.T) {
	s := newTestServer(t, nil)

	resp := callTool(t, s, "image_load", map[string]interface{}{}, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32000, resp.Error.Code)
	assert.Contains(t, resp.Error.Data, "unknown tool")
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t, nil)

	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: json.RawMessage(`"nope"`)})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}
