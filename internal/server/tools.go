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
		"description": "Absolute path to the screenshot (PNG, JPEG, GIF, BMP or WebP)",
	}
}

func reloadProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Re-read the file even if this path was loaded before (the game replaced the screenshot)",
	}
}

// ToolDefinitions returns all available tools
func ToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "solve_puzzle",
			Description: "Detect the letter wheel in a word game screenshot and return ranked dictionary words with the swipe path (screen coordinates) for each. Returns {\"swipes\": []} when nothing is found.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"reload": reloadProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "detect_letters",
			Description: "Detect letters and their pixel positions in a screenshot. Reports which detection strategy produced the result and how many letters each strategy found.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"reload": reloadProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "find_words",
			Description: "Find dictionary words formable from the given letters without a screenshot. Letters are laid out on a circle to produce example swipe paths.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"letters": map[string]interface{}{
						"type":        "string",
						"description": "Available letters, e.g. \"PART\". Repeat a letter for duplicate tiles.",
					},
				},
				"required": []string{"letters"},
			},
		},
		{
			Name:        "dictionary_info",
			Description: "Report the loaded dictionary's size and source (cache, remote or fallback) and OCR availability. Optionally check whether words are in the dictionary.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"words": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Words to look up",
					},
				},
			},
		},
		{
			Name:        "annotate_solution",
			Description: "Solve a screenshot and draw the detected letters and swipe paths over it. Returns a base64 PNG, or writes it to output_path when given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"reload": reloadProperty(),
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to write the annotated PNG to",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}
