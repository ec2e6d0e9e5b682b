package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

var (
	sourceProp = stringProp("Name to record the document under, e.g. its file name")
	saveProp   = map[string]any{
		"type":        "boolean",
		"description": "Store the result in the history database (default: false)",
	}
)

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "classify_text",
		Description: "Classify the full text of a thesis or capstone manuscript. Sections are located automatically; returns per-section scores, totals, the dominant category, alignment interpretation, suggestion and decisive keywords.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":   stringProp("Full plain text of the document"),
				"source": sourceProp,
				"save":   saveProp,
			},
			"required": []string{"text"},
		},
	},
	{
		Name:        "classify_sections",
		Description: "Classify a document whose sections are already separated. Omitted sections count as not found; at least one section is required.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":        stringProp("Title of the document"),
				"introduction": stringProp("Introduction or background text"),
				"objectives":   stringProp("Objectives of the study"),
				"scope":        stringProp("Scope and limitations text"),
				"source":       sourceProp,
				"save":         saveProp,
			},
		},
	},
	{
		Name:        "list_results",
		Description: "List stored classification results, newest first.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"dominant": stringProp("Only results decided for this category code (e.g. CS or IT)"),
				"source":   stringProp("Filter by source name (case-insensitive partial match)"),
				"since_days": map[string]any{
					"type":        "integer",
					"description": "Only show results classified in the last N days",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results to return (default: 20)",
				},
			},
		},
	},
	{
		Name:        "get_result",
		Description: "Get a stored classification result by ID, ID prefix or source name.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"identifier": stringProp("Result ID, unique ID prefix or source name"),
			},
			"required": []string{"identifier"},
		},
	},
	{
		Name:        "get_stats",
		Description: "Get aggregate statistics over stored results: counts per category, average totals, interpretation breakdown and most frequent keywords.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"since_days": map[string]any{
					"type":        "integer",
					"description": "Calculate stats for the last N days only",
				},
			},
		},
	},
}
