package mcp

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

const (
	uriSummary  = "thesisalign://summary"
	uriRecent   = "thesisalign://recent"
	uriKeywords = "thesisalign://keywords"
)

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         uriSummary,
		Name:        "Classification Summary",
		Description: "Counts per category and interpretation over all stored results",
		MimeType:    "text/plain",
	},
	{
		URI:         uriRecent,
		Name:        "Recent Results",
		Description: "Most recently classified documents",
		MimeType:    "text/plain",
	},
	{
		URI:         uriKeywords,
		Name:        "Keyword Table",
		Description: "Loaded keyword vocabulary with its per-category weights",
		MimeType:    "text/plain",
	},
}

type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

type readResourceParams struct {
	URI string `json:"uri"`
}

type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}
