package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	endpoint := streamEndpoint(os.Getenv("MCP_URL"))

	apiKey := firstNonEmpty(os.Getenv("GOOGLE_API_KEY"), os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		log.Fatal("GOOGLE_API_KEY or GEMINI_API_KEY environment variable must be set")
	}
	model := firstNonEmpty(os.Getenv("GOOGLE_MODEL"), "gemini-2.5-flash")
	sheetsID := firstNonEmpty(os.Getenv("GOOGLE_SHEETS_ID"), os.Getenv("SHEETS_ID"))

	agent, err := NewAgent(ctx, endpoint, apiKey, model, sheetsID)
	if err != nil {
		log.Fatalf("Failed to create agent: %v", err)
	}
	defer func() { _ = agent.Close() }()

	fmt.Printf("Connected to %s with %d tools (model %s)\n", endpoint, len(agent.tools), model)

	if len(os.Args) > 1 {
		answer, err := agent.RunQuery(ctx, strings.Join(os.Args[1:], " "))
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		fmt.Println(answer)
		return
	}

	fmt.Println("Ask about skills and job postings. Type 'quit' to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			return
		}

		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "":
			continue
		case "quit", "exit", "q":
			return
		}

		answer, err := agent.RunQuery(ctx, input)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			fmt.Printf("An error occurred: %v\n", err)
			continue
		}
		fmt.Println(answer)
	}
}

func streamEndpoint(base string) string {
	if base == "" {
		base = "http://localhost:8080"
	}
	if strings.HasSuffix(base, "/mcp/stream") {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/mcp/stream"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
