package mcp

import (
	"context"
	"fmt"

	"github.com/honeycarbs/skillgraph/internal/config"
	"github.com/honeycarbs/skillgraph/internal/mcp/tools"
	"github.com/honeycarbs/skillgraph/pkg/logging"
	sheetsclient "github.com/honeycarbs/skillgraph/pkg/sheets"
)

type sheetsClientAdapter struct {
	client *sheetsclient.Client
}

func (a *sheetsClientAdapter) WriteTable(ctx context.Context, spreadsheetID, tab string, header []string, rows [][]interface{}) (int, error) {
	if a == nil || a.client == nil {
		return 0, tools.ErrSheetsUnavailable
	}

	n, err := a.client.WriteTable(ctx, spreadsheetID, tab, header, rows)
	if err != nil {
		return 0, fmt.Errorf("sheets: export to %s failed: %w", spreadsheetID, err)
	}
	return n, nil
}

// provideSheetsClient connects to Google Sheets when credentials are configured.
// Without them the adapter still registers and sheets_export reports the problem.
func provideSheetsClient(ctx context.Context, cfg config.Config, logger *logging.Logger) *sheetsClientAdapter {
	if cfg.Sheets.CredentialsPath == "" {
		logger.Info("Google Sheets export disabled", "reason", "GOOGLE_SHEETS_CREDENTIALS_PATH not set")
		return &sheetsClientAdapter{}
	}

	client, err := sheetsclient.NewClient(ctx, sheetsclient.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		logger.Warn("Google Sheets client unavailable", "err", err)
		return &sheetsClientAdapter{}
	}
	return &sheetsClientAdapter{client: client}
}
