package mcp

import (
	"encoding/json"

	"lifesuite/internal/operations"
)

// Tool represents an operation exposed via MCP
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// toolDescription is serialized into Tool.Description so clients see when
// to pick the tool as well as what it does.
type toolDescription struct {
	Description string `json:"description"`
	UseWhen     string `json:"use_when,omitempty"`
	SideEffects string `json:"side_effects,omitempty"`
}

func buildTools(ops []operations.Operation) []Tool {
	tools := make([]Tool, 0, len(ops))
	for i := range ops {
		tools = append(tools, toolFor(&ops[i]))
	}
	return tools
}

func toolFor(op *operations.Operation) Tool {
	desc, err := json.Marshal(toolDescription{
		Description: op.Description,
		UseWhen:     op.UseWhen,
		SideEffects: op.SideEffects,
	})
	if err != nil {
		desc = []byte(op.Description)
	}

	properties := make(map[string]interface{}, len(op.Params))
	for _, p := range op.Params {
		prop := map[string]interface{}{
			"type":        "string",
			"description": p.Description,
		}
		if !p.Required {
			prop["default"] = p.Default
		}
		if len(p.Options) > 0 {
			prop["examples"] = p.Options
		}
		properties[p.Name] = prop
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if req := op.Required(); len(req) > 0 {
		schema["required"] = req
	}

	return Tool{
		Name:        op.Name,
		Description: string(desc),
		InputSchema: schema,
	}
}

// ContentBlock is one item of a tools/call result.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the tools/call result payload.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError"`
}

func textResult(text string) *ToolResult {
	return &ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}
