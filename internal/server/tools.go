package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the screenshot file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "scoreboard_extract",
			Description: "Extract player name, K/D/A and credits from a scoreboard screenshot. Returns a JSON object keyed by player name.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"by_section": map[string]interface{}{
						"type":        "boolean",
						"description": "Group players by scoreboard section (team) instead of merging them. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "scoreboard_parse_text",
			Description: "Parse raw OCR text into player records. Either pass 'text' with one player per line, or the three separately recognized columns.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "OCR text, one scoreboard row per line",
					},
					"name_column": map[string]interface{}{
						"type":        "string",
						"description": "OCR text of the name column",
					},
					"kda_column": map[string]interface{}{
						"type":        "string",
						"description": "OCR text of the K/D/A column",
					},
					"credits_column": map[string]interface{}{
						"type":        "string",
						"description": "OCR text of the credits column",
					},
					"strict": map[string]interface{}{
						"type":        "boolean",
						"description": "Drop rows with an incomplete K/D/A or whose credits overlap the K/D/A. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "scoreboard_preprocess",
			Description: "Crop, mask and normalize one scoreboard section exactly as it is fed to OCR, returned as base64-encoded PNG. Use this to check crop and mask settings.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"section": map[string]interface{}{
						"type":        "string",
						"description": "Section name from the profile. Defaults to the first section",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_load",
			Description: "Load a screenshot and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ocr_info",
			Description: "Report whether the OCR engine is available and which version is linked.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}
