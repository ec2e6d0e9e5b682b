package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thesisalign/thesisalign/internal/analyzer"
	"github.com/thesisalign/thesisalign/internal/config"
	"github.com/thesisalign/thesisalign/internal/database"
	"github.com/thesisalign/thesisalign/internal/keywords"
)

func setupServer(t *testing.T, withDB bool) *Server {
	t.Helper()

	kw := keywords.FromEntries(
		keywords.Entry{Term: "algorithm", WeightA: 20, WeightB: 10},
		keywords.Entry{Term: "network", WeightA: 10, WeightB: 20},
		keywords.Entry{Term: "barcode", WeightA: 5, WeightB: 20},
	)
	cfg := config.Default()
	az, err := analyzer.New(kw, cfg.Analyzer())
	if err != nil {
		t.Fatalf("analyzer.New failed: %v", err)
	}

	var db *database.DB
	if withDB {
		db, err = database.Open(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		t.Cleanup(func() { db.Close() })
	}

	return New(db, az, cfg)
}

type response struct {
	ID     any             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type toolResult struct {
	Content []contentItem `json:"content"`
	IsError bool          `json:"isError"`
}

// session sends each request on its own line and returns the responses in order
func session(t *testing.T, s *Server, requests ...string) []response {
	t.Helper()

	in := strings.Join(requests, "\n") + "\n"
	var out bytes.Buffer
	if err := s.Serve(context.Background(), strings.NewReader(in), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var responses []response
	scanner := bufio.NewScanner(&out)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var r response
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			t.Fatalf("invalid response line %q: %v", scanner.Text(), err)
		}
		responses = append(responses, r)
	}
	return responses
}

func callTool(id int, name string, args any) string {
	data, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": args},
	})
	return string(data)
}

func toolText(t *testing.T, r response) (string, bool) {
	t.Helper()
	if r.Error != nil {
		t.Fatalf("unexpected rpc error: %+v", r.Error)
	}
	var tr toolResult
	if err := json.Unmarshal(r.Result, &tr); err != nil {
		t.Fatalf("invalid tool result: %v", err)
	}
	if len(tr.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(tr.Content))
	}
	return tr.Content[0].Text, tr.IsError
}

func TestServe_Protocol(t *testing.T) {
	s := setupServer(t, false)

	responses := session(t, s,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":4,"method":"nope"}`,
		`not json`,
	)

	if len(responses) != 5 {
		t.Fatalf("expected 5 responses (notification gets none), got %d", len(responses))
	}

	var initRes initializeResult
	if err := json.Unmarshal(responses[0].Result, &initRes); err != nil {
		t.Fatalf("invalid initialize result: %v", err)
	}
	if initRes.ServerInfo.Name != "thesisalign" {
		t.Errorf("server name = %q", initRes.ServerInfo.Name)
	}

	var tools toolsListResult
	if err := json.Unmarshal(responses[1].Result, &tools); err != nil {
		t.Fatalf("invalid tools/list result: %v", err)
	}
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
		if _, ok := s.handlers[tool.Name]; !ok {
			t.Errorf("tool %q has no handler", tool.Name)
		}
	}
	if len(names) != 5 {
		t.Errorf("expected 5 tools, got %v", names)
	}

	var resources resourcesListResult
	if err := json.Unmarshal(responses[2].Result, &resources); err != nil {
		t.Fatalf("invalid resources/list result: %v", err)
	}
	if len(resources.Resources) != 3 {
		t.Errorf("expected 3 resources, got %d", len(resources.Resources))
	}

	if responses[3].Error == nil || responses[3].Error.Code != codeMethodNotFound {
		t.Errorf("expected method not found, got %+v", responses[3].Error)
	}
	if responses[4].Error == nil || responses[4].Error.Code != codeParseError {
		t.Errorf("expected parse error, got %+v", responses[4].Error)
	}
}

func TestClassifyAndQuery(t *testing.T) {
	s := setupServer(t, true)

	responses := session(t, s,
		callTool(1, "classify_sections", map[string]any{
			"title":        "Barcode Network Monitor",
			"introduction": "A campus network with barcode scanners.",
			"source":       "campus.txt",
			"save":         true,
		}),
		callTool(2, "list_results", map[string]any{"dominant": "it"}),
		callTool(3, "list_results", map[string]any{"dominant": "CS"}),
		callTool(4, "get_result", map[string]any{"identifier": "CAMPUS.TXT"}),
		callTool(5, "get_stats", nil),
	)
	if len(responses) != 5 {
		t.Fatalf("expected 5 responses, got %d", len(responses))
	}

	text, isErr := toolText(t, responses[0])
	if isErr {
		t.Fatalf("classify_sections failed: %s", text)
	}
	var classified classifyResult
	if err := json.Unmarshal([]byte(text), &classified); err != nil {
		t.Fatalf("invalid classify result: %v", err)
	}
	if classified.ID == "" {
		t.Error("saved result has no id")
	}
	if classified.Result.DominantCode != "IT" {
		t.Errorf("dominant = %q, want IT", classified.Result.DominantCode)
	}

	var listed []resultSummary
	text, _ = toolText(t, responses[1])
	if err := json.Unmarshal([]byte(text), &listed); err != nil {
		t.Fatalf("invalid list result: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != classified.ID {
		t.Errorf("list_results(IT) = %+v", listed)
	}

	text, _ = toolText(t, responses[2])
	if err := json.Unmarshal([]byte(text), &listed); err != nil {
		t.Fatalf("invalid list result: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("list_results(CS) = %+v, want none", listed)
	}

	var rec database.Record
	text, isErr = toolText(t, responses[3])
	if isErr {
		t.Fatalf("get_result failed: %s", text)
	}
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		t.Fatalf("invalid record: %v", err)
	}
	if rec.ID != classified.ID {
		t.Errorf("get_result id = %q, want %q", rec.ID, classified.ID)
	}

	var stats database.Stats
	text, _ = toolText(t, responses[4])
	if err := json.Unmarshal([]byte(text), &stats); err != nil {
		t.Fatalf("invalid stats: %v", err)
	}
	if stats.TotalResults != 1 || stats.DominantB != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestToolErrors(t *testing.T) {
	s := setupServer(t, false)

	responses := session(t, s,
		callTool(1, "classify_text", map[string]any{"text": "   "}),
		callTool(2, "classify_sections", map[string]any{}),
		callTool(3, "classify_text", map[string]any{"text": "Algorithm notes", "save": true}),
		callTool(4, "list_results", nil),
		callTool(5, "missing_tool", nil),
	)

	for i := 0; i < 4; i++ {
		if text, isErr := toolText(t, responses[i]); !isErr {
			t.Errorf("call %d: expected tool error, got %s", i+1, text)
		}
	}
	if responses[4].Error == nil || responses[4].Error.Code != codeInvalidParams {
		t.Errorf("expected invalid params for unknown tool, got %+v", responses[4].Error)
	}
}

func TestReadResources(t *testing.T) {
	s := setupServer(t, true)

	read := func(id int, uri string) string {
		data, _ := json.Marshal(map[string]any{
			"jsonrpc": "2.0", "id": id, "method": "resources/read",
			"params": map[string]any{"uri": uri},
		})
		return string(data)
	}

	responses := session(t, s,
		read(1, uriKeywords),
		read(2, uriSummary),
		read(3, uriRecent),
		read(4, "thesisalign://nope"),
		`{"jsonrpc":"2.0","id":5,"method":"ping"}`,
	)

	texts := make([]string, 3)
	for i := range texts {
		var r readResourceResult
		if err := json.Unmarshal(responses[i].Result, &r); err != nil || len(r.Contents) != 1 {
			t.Fatalf("resource %d: invalid result %s", i+1, responses[i].Result)
		}
		texts[i] = r.Contents[0].Text
	}

	if !strings.Contains(texts[0], "barcode\t5\t20") || !strings.Contains(texts[0], "(3 terms)") {
		t.Errorf("keywords resource:\n%s", texts[0])
	}
	if !strings.Contains(texts[1], "Total results: 0") {
		t.Errorf("summary resource:\n%s", texts[1])
	}
	if !strings.Contains(texts[2], "No results yet") {
		t.Errorf("recent resource:\n%s", texts[2])
	}
	if responses[3].Error == nil {
		t.Error("expected error for unknown resource")
	}
	if responses[4].Error != nil {
		t.Errorf("ping with a healthy history failed: %+v", responses[4].Error)
	}
}
