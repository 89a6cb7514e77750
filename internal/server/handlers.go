package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/scoreboard-ocr/internal/imaging"
	"github.com/ironsheep/scoreboard-ocr/internal/scoreboard"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "scoreboard_extract").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
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

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "scoreboard_extract":
		return s.handleScoreboardExtract(args)
	case "scoreboard_parse_text":
		return s.handleScoreboardParseText(args)
	case "scoreboard_preprocess":
		return s.handleScoreboardPreprocess(args)
	case "image_load":
		return s.handleImageLoad(args)
	case "ocr_info":
		return s.ocrInfo(), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments, treating missing arguments as {}.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	return json.Unmarshal(args, v)
}

type scoreboardExtractArgs struct {
	Path      string `json:"path"`
	BySection bool   `json:"by_section"`
}

func (s *Server) handleScoreboardExtract(args json.RawMessage) (interface{}, error) {
	var a scoreboardExtractArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	report, err := s.pipeline.Extract(img)
	if err != nil {
		return nil, err
	}

	if a.BySection {
		return report.BySection(), nil
	}
	return report.Merged(), nil
}

type scoreboardParseTextArgs struct {
	Text          string `json:"text"`
	NameColumn    string `json:"name_column"`
	KDAColumn     string `json:"kda_column"`
	CreditsColumn string `json:"credits_column"`
	Strict        bool   `json:"strict"`
}

func (s *Server) handleScoreboardParseText(args json.RawMessage) (interface{}, error) {
	var a scoreboardParseTextArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	profile := s.pipeline.Profile()
	parser := scoreboard.NewParser(scoreboard.Options{
		SkipPrefixes: profile.SkipPrefixes,
		Strict:       a.Strict || profile.Strict,
	})

	if a.NameColumn != "" || a.KDAColumn != "" || a.CreditsColumn != "" {
		return parser.ParseColumns(a.NameColumn, a.KDAColumn, a.CreditsColumn), nil
	}
	return parser.Parse(a.Text), nil
}

type scoreboardPreprocessArgs struct {
	Path    string `json:"path"`
	Section string `json:"section"`
}

func (s *Server) handleScoreboardPreprocess(args json.RawMessage) (interface{}, error) {
	var a scoreboardPreprocessArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	profile := s.pipeline.Profile()
	section := profile.Sections[0]
	if a.Section != "" {
		var ok bool
		if section, ok = profile.Section(a.Section); !ok {
			return nil, fmt.Errorf("unknown section: %s", a.Section)
		}
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	normalized, err := s.pipeline.Normalize(img, section)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(normalized)
}

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}
