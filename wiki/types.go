package wiki

import (
	"github.com/oakhollow/stardewiki/wiki/internal/fetch"
	"github.com/oakhollow/stardewiki/wiki/internal/wikiparse"
)

// SearchResponse is the tool-facing shape of a search. Zero results is a
// success with count 0.
type SearchResponse struct {
	Success      bool                 `json:"success"`
	Count        int                  `json:"count"`
	Query        string               `json:"query"`
	StrategyUsed string               `json:"strategy_used,omitempty"`
	Results      []fetch.SearchResult `json:"results"`
}

// PageData is the tool-facing shape of a structured page extraction. The
// record marshals flattened: record_type, name, warnings, and the
// type-specific fields in one object.
type PageData struct {
	Success    bool              `json:"success"`
	PageTitle  string            `json:"page_title"`
	PageURL    string            `json:"page_url"`
	Categories []string          `json:"categories"`
	Data       *wikiparse.Record `json:"data"`
}

// PageMarkdown is the tool-facing shape of a full-page markdown rendering.
type PageMarkdown struct {
	Success   bool   `json:"success"`
	PageTitle string `json:"page_title"`
	PageURL   string `json:"page_url"`
	Markdown  string `json:"markdown"`
}
