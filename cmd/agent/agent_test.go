package main

import (
	"testing"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestConvertSchema(t *testing.T) {
	got := convertSchema(map[string]any{
		"type":     "object",
		"required": []any{"kind"},
		"properties": map[string]any{
			"kind":         map[string]any{"type": "string", "description": "what to export"},
			"max_skills":   map[string]any{"type": "integer"},
			"strict_gain":  map[string]any{"type": "boolean"},
			"known_skills": map[string]any{"type": []any{"null", "array"}, "items": map[string]any{"type": "string"}},
		},
	})

	assert.Equal(t, genai.TypeObject, got.Type)
	assert.Equal(t, []string{"kind"}, got.Required)
	require.Len(t, got.Properties, 4)
	assert.Equal(t, genai.TypeString, got.Properties["kind"].Type)
	assert.Equal(t, "what to export", got.Properties["kind"].Description)
	assert.Equal(t, genai.TypeInteger, got.Properties["max_skills"].Type)
	assert.Equal(t, genai.TypeBoolean, got.Properties["strict_gain"].Type)
	assert.Equal(t, genai.TypeArray, got.Properties["known_skills"].Type)
	assert.Equal(t, genai.TypeString, got.Properties["known_skills"].Items.Type)
}

func TestConvertSchemaFallback(t *testing.T) {
	assert.Equal(t, genai.TypeObject, convertSchema(nil).Type)
	assert.Equal(t, genai.TypeObject, convertSchema("nope").Type)
}

func TestGeminiTools(t *testing.T) {
	assert.Nil(t, geminiTools(nil))

	got := geminiTools([]*mcp.Tool{
		{Name: "coverage_plan", Description: "plan"},
		{Name: "skill_demand", InputSchema: map[string]any{"type": "object"}},
	})

	require.Len(t, got, 1)
	require.Len(t, got[0].FunctionDeclarations, 2)
	assert.Equal(t, "coverage_plan", got[0].FunctionDeclarations[0].Name)
	assert.Equal(t, genai.TypeObject, got[0].FunctionDeclarations[1].Parameters.Type)
}

func TestToolResponse(t *testing.T) {
	ok := toolResponse(&mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: "done"}}})
	assert.Equal(t, map[string]any{"result": "done"}, ok)

	failed := toolResponse(&mcp.CallToolResult{IsError: true, Content: []mcp.Content{&mcp.TextContent{Text: "graph is empty"}}})
	assert.Equal(t, map[string]any{"error": "graph is empty"}, failed)

	empty := toolResponse(&mcp.CallToolResult{})
	assert.Equal(t, map[string]any{"result": "Tool executed successfully"}, empty)
}

func TestSystemPrompt(t *testing.T) {
	assert.NotContains(t, systemPrompt(""), "spreadsheet_id")
	assert.Contains(t, systemPrompt("abc"), `spreadsheet_id "abc"`)
}

func TestStreamEndpoint(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/mcp/stream", streamEndpoint(""))
	assert.Equal(t, "http://h:1/mcp/stream", streamEndpoint("http://h:1/"))
	assert.Equal(t, "http://h:1/mcp/stream", streamEndpoint("http://h:1/mcp/stream"))
}
