//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/skillgraph/internal/config"
	"github.com/honeycarbs/skillgraph/pkg/logging"
)

// InitializeResources creates Resources with all resources wired up
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, error) {
	wire.Build(
		// Storage - SQLite and/or Neo4j
		provideStorage,

		// Services
		provideAnalysisService,

		// Export
		provideSheetsClient,

		newResources,
	)

	return &Resources{}, nil
}
