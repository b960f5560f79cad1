package wiki

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer builds an MCP server exposing the wiki tools.
func NewMCPServer(s *Service) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "stardew-wiki", Version: "1.0.0"}, nil)
	s.RegisterMCP(srv)
	return srv
}

// RegisterMCP registers the wiki tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerSearchTool(srv)
	s.registerPageDataTool(srv)
	s.registerPageMarkdownTool(srv)
	s.registerCacheStatsTool(srv)
	s.registerHistoryTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// failure is the {success:false, error} result shape the tools return for
// taxonomy errors. Only malformed arguments become protocol-level errors.
type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// registerTool wires decode → endpoint → JSON text content. A decode failure
// sets the protocol error flag; an endpoint failure is reported inside the
// result so the caller sees the taxonomy message.
func registerTool[Req any](srv *mcp.Server, tool *mcp.Tool, endpoint func(context.Context, *Req) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r Req
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}

		resp, err := endpoint(ctx, &r)
		if err != nil {
			resp = failure{Error: err.Error()}
		}

		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// --- search_wiki ---

type searchReq struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Service) registerSearchTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "search_wiki",
		Description: "Search the Stardew Valley wiki. Natural-language questions are rewritten into page-title strategies before falling back to keyword search.",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Search query or question"},
			"limit": map[string]any{"type": "integer", "description": "Max results (1-50, default 10)"},
		}, []string{"query"}),
	}

	registerTool(srv, tool, func(ctx context.Context, r *searchReq) (any, error) {
		if r.Query == "" {
			return nil, fmt.Errorf("query is required")
		}
		return s.SmartSearch(ctx, r.Query, r.Limit)
	})
}

// --- get_page_data ---

type pageReq struct {
	PageTitle string `json:"page_title"`
}

func (s *Service) registerPageDataTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_page_data",
		Description: "Fetch a wiki page by exact title and extract structured data (crops, NPCs, fish, recipes, bundles, and more). Use search_wiki first to find the exact title.",
		InputSchema: inputSchema(map[string]any{
			"page_title": map[string]any{"type": "string", "description": "Exact wiki page title"},
		}, []string{"page_title"}),
	}

	registerTool(srv, tool, func(ctx context.Context, r *pageReq) (any, error) {
		if r.PageTitle == "" {
			return nil, fmt.Errorf("page_title is required")
		}
		return s.GetPageData(ctx, r.PageTitle)
	})
}

// --- get_page_markdown ---

func (s *Service) registerPageMarkdownTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_page_markdown",
		Description: "Fetch a wiki page by exact title and return its full content as markdown. Prefer this over get_page_data for festival and overview pages.",
		InputSchema: inputSchema(map[string]any{
			"page_title": map[string]any{"type": "string", "description": "Exact wiki page title"},
		}, []string{"page_title"}),
	}

	registerTool(srv, tool, func(ctx context.Context, r *pageReq) (any, error) {
		if r.PageTitle == "" {
			return nil, fmt.Errorf("page_title is required")
		}
		return s.GetPageMarkdown(ctx, r.PageTitle)
	})
}

// --- wiki_cache_stats ---

func (s *Service) registerCacheStatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "wiki_cache_stats",
		Description: "Report page cache statistics: size, hits, misses, hit rate.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	registerTool(srv, tool, func(_ context.Context, _ *struct{}) (any, error) {
		return s.CacheStats(), nil
	})
}

// --- wiki_fetch_history ---

type historyReq struct {
	Limit int `json:"limit"`
}

func (s *Service) registerHistoryTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "wiki_fetch_history",
		Description: "List recent wiki fetch operations, newest first. Empty when no history database is configured.",
		InputSchema: inputSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Max entries (default 50)"},
		}, nil),
	}

	registerTool(srv, tool, func(ctx context.Context, r *historyReq) (any, error) {
		entries, err := s.FetchHistory(ctx, r.Limit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"entries": entries}, nil
	})
}
