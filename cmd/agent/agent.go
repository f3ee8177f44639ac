package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genai"
)

const maxIterations = 10

const systemPromptTemplate = `You are a career planning assistant. You answer questions about which skills
job postings ask for, using the skill analytics tools of a skillgraph server.

AVAILABLE TOOLS:
- coverage_plan: order skills to learn so the most postings become fully attainable
- skill_gaps: the skills missing from postings that are almost within reach, optionally per top employer (companies)
- skill_demand: skills ranked by the share of postings requiring them, with a required/optional split (split) and employers hiring for given skills (employers_for)
- skill_graph: which skills are requested together, grouped into clusters
- skill_report: all of the above in one call
- reload_corpus: reload postings after the data changed
- sheets_export: write a plan, gap ranking, demand ranking or clusters to Google Sheets
- graph_inspect: low-level Neo4j queries, only when the user asks about stored data%s

TOOL USAGE GUIDELINES:
- When the user lists skills they have, pass them as known_skills.
- "What should I learn next" questions: call coverage_plan.
- "How close am I" questions: call skill_gaps.
- Market overview questions: call skill_demand or skill_graph.
- "Who is hiring for X" questions: call skill_demand with employers_for.
- Never invent numbers; only report what the tools return.
- If a tool fails, explain the error plainly and suggest what to change
  (for an empty graph, lower min_edge_weight or min_node_degree).`

// Agent drives a Gemini conversation that calls MCP tools
type Agent struct {
	session *mcp.ClientSession
	gemini  *genai.Client
	model   string
	tools   []*mcp.Tool
	config  *genai.GenerateContentConfig
}

// NewAgent connects to the MCP endpoint and prepares the Gemini model
func NewAgent(ctx context.Context, endpoint, apiKey, model, sheetsID string) (*Agent, error) {
	mcpClient := mcp.NewClient(&mcp.Implementation{
		Name:    "skillgraph-agent",
		Version: "0.1.0",
	}, nil)

	session, err := mcpClient.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: endpoint}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MCP server at %s: %w", endpoint, err)
	}

	toolsResp, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	gemini, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to initialize Gemini: %w", err)
	}

	a := &Agent{
		session: session,
		gemini:  gemini,
		model:   model,
		tools:   toolsResp.Tools,
	}
	a.config = &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt(sheetsID), genai.RoleUser),
		Tools:             geminiTools(a.tools),
	}
	return a, nil
}

func systemPrompt(sheetsID string) string {
	if sheetsID == "" {
		return fmt.Sprintf(systemPromptTemplate, "")
	}
	return fmt.Sprintf(systemPromptTemplate, fmt.Sprintf(
		"\n\nFor sheets_export, always use spreadsheet_id %q. Do not ask the user for it.", sheetsID))
}

func geminiTools(tools []*mcp.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  convertSchema(tool.InputSchema),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// Close ends the MCP session
func (a *Agent) Close() error {
	return a.session.Close()
}

// RunQuery answers one user request, calling tools until the model replies with text
func (a *Agent) RunQuery(ctx context.Context, query string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(query, genai.RoleUser)}

	for i := 0; i < maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		resp, err := a.gemini.Models.GenerateContent(ctx, a.model, contents, a.config)
		if err != nil {
			return "", fmt.Errorf("gemini API error: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", errors.New("no response candidates from Gemini")
		}

		reply := resp.Candidates[0].Content
		contents = append(contents, reply)

		var (
			text      strings.Builder
			responses []*genai.Part
		)
		for _, part := range reply.Parts {
			switch {
			case part.FunctionCall != nil:
				fc := part.FunctionCall
				fmt.Printf("[Tool] %s\n", fc.Name)
				responses = append(responses, genai.NewPartFromFunctionResponse(fc.Name, a.callTool(ctx, fc.Name, fc.Args)))
			case part.Text != "":
				text.WriteString(part.Text)
			}
		}

		if len(responses) > 0 {
			contents = append(contents, genai.NewContentFromParts(responses, genai.RoleUser))
			continue
		}
		if text.Len() > 0 {
			return text.String(), nil
		}
	}

	return "", errors.New("max iterations reached")
}

// callTool runs an MCP tool and shapes the outcome as a Gemini function response
func (a *Agent) callTool(ctx context.Context, name string, args map[string]any) map[string]any {
	if args == nil {
		args = map[string]any{}
	}

	toolCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	result, err := a.session.CallTool(toolCtx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return toolResponse(result)
}

func toolResponse(result *mcp.CallToolResult) map[string]any {
	var texts []string
	for _, content := range result.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			texts = append(texts, tc.Text)
		}
	}

	text := strings.Join(texts, "\n")
	if result.IsError {
		return map[string]any{"error": text}
	}
	if text == "" {
		text = "Tool executed successfully"
	}
	return map[string]any{"result": text}
}
