package wiki

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testMCPImpl = &mcp.Implementation{Name: "stardew-wiki-test", Version: "0.1.0"}

func mcpSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	s := testService(t, fakeWiki(t, defaultPages()), "")
	srv := NewMCPServer(s)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if err := result.GetError(); err != nil {
		t.Fatalf("CallTool(%s) tool error: %v", name, err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func TestMCP_SearchWiki(t *testing.T) {
	session := mcpSession(t)

	text := mcpCallTool(t, session, "search_wiki", map[string]any{"query": "what does sebastian like"})

	var resp struct {
		Success      bool   `json:"success"`
		Count        int    `json:"count"`
		StrategyUsed string `json:"strategy_used"`
		Results      []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || resp.Count != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.StrategyUsed != "Sebastian" {
		t.Errorf("strategy_used = %q, want Sebastian", resp.StrategyUsed)
	}
	if resp.Results[0].URL != "https://wiki.test/Sebastian" {
		t.Errorf("url = %q", resp.Results[0].URL)
	}
}

func TestMCP_GetPageData(t *testing.T) {
	session := mcpSession(t)

	text := mcpCallTool(t, session, "get_page_data", map[string]any{"page_title": "Strawberry"})

	var resp struct {
		Success   bool   `json:"success"`
		PageTitle string `json:"page_title"`
		Data      struct {
			RecordType string   `json:"record_type"`
			GrowthTime int      `json:"growth_time"`
			Warnings   []string `json:"warnings"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || resp.PageTitle != "Strawberry" {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Data.RecordType != "crop" || resp.Data.GrowthTime != 8 {
		t.Errorf("data = %+v, want crop with growth_time 8", resp.Data)
	}
	if resp.Data.Warnings == nil {
		t.Error("warnings must always be present, even when empty")
	}
}

func TestMCP_GetPageDataNotFoundIsResultNotProtocolError(t *testing.T) {
	session := mcpSession(t)

	// A missing page is a tool result with success=false, not an MCP error.
	text := mcpCallTool(t, session, "get_page_data", map[string]any{"page_title": "Strawbery"})

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Success {
		t.Fatal("success = true for a missing page")
	}
	if !strings.Contains(resp.Error, "search_wiki") {
		t.Errorf("error = %q, should recommend the search tool", resp.Error)
	}
}

func TestMCP_GetPageMarkdown(t *testing.T) {
	session := mcpSession(t)

	text := mcpCallTool(t, session, "get_page_markdown", map[string]any{"page_title": "Sebastian"})

	var resp struct {
		Success  bool   `json:"success"`
		Markdown string `json:"markdown"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || !strings.Contains(resp.Markdown, "mountains") {
		t.Errorf("resp = %+v", resp)
	}
}

func TestMCP_CacheStats(t *testing.T) {
	session := mcpSession(t)

	mcpCallTool(t, session, "get_page_data", map[string]any{"page_title": "Strawberry"})
	text := mcpCallTool(t, session, "wiki_cache_stats", map[string]any{})

	var stats struct {
		Size   int `json:"size"`
		Misses int `json:"misses"`
	}
	if err := json.Unmarshal([]byte(text), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.Size != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want one cached page from one miss", stats)
	}
}

func TestMCP_FetchHistoryDisabled(t *testing.T) {
	session := mcpSession(t)

	text := mcpCallTool(t, session, "wiki_fetch_history", map[string]any{})

	var resp struct {
		Entries []any `json:"entries"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Entries == nil || len(resp.Entries) != 0 {
		t.Errorf("entries = %v, want empty array", resp.Entries)
	}
}

func TestMCP_SearchRequiresQuery(t *testing.T) {
	session := mcpSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "search_wiki",
		Arguments: map[string]any{},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatal("expected TextContent")
	}
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(tc.Text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Success || !strings.Contains(resp.Error, "query") {
		t.Errorf("resp = %+v, want a query-required failure", resp)
	}
}
