package main

import (
	"os"

	"github.com/honeycarbs/skillgraph/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
