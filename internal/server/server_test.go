package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"image"
	"strings"
	"testing"

	"github.com/ironsheep/scoreboard-ocr/internal/config"
	"github.com/ironsheep/scoreboard-ocr/internal/ocr"
	"github.com/ironsheep/scoreboard-ocr/internal/pipeline"
)

// newTestServer creates a server whose recognizer always returns text
func newTestServer(t *testing.T, text string) *Server {
	t.Helper()
	return newTestServerWith(t, ocr.RecognizerFunc(func(image.Image, ocr.Mode) (string, error) {
		return text, nil
	}))
}

func newTestServerWith(t *testing.T, rec ocr.Recognizer) *Server {
	t.Helper()
	p, err := pipeline.New(config.Default(), rec)
	if err != nil {
		t.Fatalf("pipeline.New failed: %v", err)
	}
	return New(p, func() ocr.Info {
		return ocr.Info{Available: true, Version: "test", Backend: "fake"}
	})
}

func TestNew(t *testing.T) {
	s := newTestServer(t, "")
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
	if s.ocrInfo == nil {
		t.Fatal("New() did not set ocrInfo")
	}

	// A nil info func falls back to an unknown backend
	if info := New(s.pipeline, nil).ocrInfo(); info.Backend != "unknown" {
		t.Errorf("Backend: got %q, want unknown", info.Backend)
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := newTestServer(t, "")
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}
	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != ServerName {
		t.Errorf("serverInfo.name: got %v, want %s", info["name"], ServerName)
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := newTestServer(t, "")
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "ping-1", Method: "ping"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("ping failed: %+v", resp)
	}
	if resp.ID != "ping-1" {
		t.Errorf("ID: got %v, want ping-1", resp.ID)
	}
}

func TestHandleRequest_InitializedNotification(t *testing.T) {
	s := newTestServer(t, "")
	if resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"}); resp != nil {
		t.Errorf("notification should not produce a response, got %+v", resp)
	}
}

func TestHandleRequest_UnknownMethod(t *testing.T) {
	s := newTestServer(t, "")
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "unknown/method"})

	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("Error.Code: got %d, want -32601", resp.Error.Code)
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	s := newTestServer(t, "")
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	result := resp.Result.(map[string]interface{})
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatalf("tools: got %T, want []Tool", result["tools"])
	}
	if len(tools) != len(GetToolDefinitions()) {
		t.Errorf("tools: got %d, want %d", len(tools), len(GetToolDefinitions()))
	}
}

func TestServe(t *testing.T) {
	s := newTestServer(t, "")

	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"scoreboard_parse_text","arguments":{"text":"Ritzy 6 2 0 n 50"}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"ping"}`,
	}, "\n")

	var out bytes.Buffer
	if err := s.Serve(strings.NewReader(input), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var ids []interface{}
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp MCPResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response line %q: %v", scanner.Text(), err)
		}
		if resp.Error != nil {
			t.Errorf("response %v: unexpected error %+v", resp.ID, resp.Error)
		}
		ids = append(ids, resp.ID)
	}

	// Blank, malformed and notification lines produce no output
	want := []interface{}{float64(1), float64(2), float64(3)}
	if len(ids) != len(want) {
		t.Fatalf("responses: got ids %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("response %d: got id %v, want %v", i, ids[i], want[i])
		}
	}
}
