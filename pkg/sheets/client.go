package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Client struct {
	service *sheets.Service
}

type Config struct {
	CredentialsPath string
	CredentialsJSON []byte
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption

	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	} else if len(cfg.CredentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	} else {
		return nil, fmt.Errorf("sheets: credentials path or JSON is required")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	return &Client{
		service: service,
	}, nil
}

func (c *Client) Service() *sheets.Service {
	return c.service
}

func (c *Client) AppendValues(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	if c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := c.service.Spreadsheets.Values.Append(spreadsheetID, range_, valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()

	return err
}

func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	if c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, range_, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()

	return err
}

// WriteTable replaces the contents of tab with header followed by rows, starting at A1
func (c *Client) WriteTable(ctx context.Context, spreadsheetID, tab string, header []string, rows [][]interface{}) (int, error) {
	if tab == "" {
		tab = "Sheet1"
	}

	if err := c.ClearValues(ctx, spreadsheetID, fmt.Sprintf("%s!A:Z", tab)); err != nil {
		return 0, fmt.Errorf("sheets: failed to clear %s: %w", tab, err)
	}

	values := make([][]interface{}, 0, len(rows)+1)
	if len(header) > 0 {
		head := make([]interface{}, len(header))
		for i, h := range header {
			head[i] = h
		}
		values = append(values, head)
	}
	values = append(values, rows...)

	if err := c.UpdateValues(ctx, spreadsheetID, fmt.Sprintf("%s!A1", tab), values); err != nil {
		return 0, fmt.Errorf("sheets: failed to write %s: %w", tab, err)
	}
	return len(rows), nil
}

func (c *Client) ClearValues(ctx context.Context, spreadsheetID, range_ string) error {
	if c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, range_, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}
