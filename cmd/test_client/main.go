package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/mcp/stream", "MCP stream endpoint")
	known := flag.String("known", "python,sql", "comma separated skills the learner has")
	flag.Parse()

	ctx := context.Background()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "skillgraph-test-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: *endpoint}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	knownSkills := strings.Split(*known, ",")

	testListTools(ctx, session)
	testCoveragePlan(ctx, session, knownSkills)
	testSkillGraph(ctx, session)
	testSkillGaps(ctx, session, knownSkills)
	testSkillDemand(ctx, session, knownSkills)
	testGraphInspect(ctx, session)

	fmt.Println("\nAll tests completed")
}

func testListTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: list tools")

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Printf("list tools failed: %v", err)
		return
	}
	for _, tool := range res.Tools {
		fmt.Printf("  %s: %s\n", tool.Name, tool.Description)
	}
}

func testCoveragePlan(ctx context.Context, session *mcp.ClientSession, known []string) {
	fmt.Println("\nTEST: coverage_plan")

	call(ctx, session, "coverage_plan", map[string]any{
		"known_skills": known,
		"max_skills":   10,
		"unlocks":      5,
	})

	fmt.Println("\n  strict gain")
	call(ctx, session, "coverage_plan", map[string]any{
		"known_skills": known,
		"max_skills":   10,
		"strict_gain":  true,
	})
}

func testSkillGraph(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: skill_graph")

	call(ctx, session, "skill_graph", map[string]any{})

	// thresholds high enough to empty the graph; expected to fail
	fmt.Println("\n  empty graph")
	call(ctx, session, "skill_graph", map[string]any{"min_edge_weight": 1000000})
}

func testSkillGaps(ctx context.Context, session *mcp.ClientSession, known []string) {
	fmt.Println("\nTEST: skill_gaps")

	call(ctx, session, "skill_gaps", map[string]any{
		"known_skills": known,
		"top":          15,
		"companies":    3,
	})
}

func testSkillDemand(ctx context.Context, session *mcp.ClientSession, known []string) {
	fmt.Println("\nTEST: skill_demand")

	call(ctx, session, "skill_demand", map[string]any{
		"limit":         20,
		"split":         10,
		"known_skills":  known,
		"employers_for": known,
	})
}

func testGraphInspect(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: graph_inspect")

	call(ctx, session, "graph_inspect", map[string]any{})
	call(ctx, session, "graph_inspect", map[string]any{"skill": "python"})
	call(ctx, session, "graph_inspect", map[string]any{
		"cypher": "MATCH (j:Job) RETURN count(j) AS total",
	})
}

func call(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) {
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		log.Printf("%s failed: %v", name, err)
		return
	}
	if result.IsError {
		fmt.Printf("%s returned an error:\n", name)
	}
	printResult(result)
}

func printResult(res *mcp.CallToolResult) {
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}
