package sheetsclient

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client wraps the Google Sheets API for a single spreadsheet.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewClient creates a Sheets client from a resolved credential option. The
// credential handle is produced once at startup and injected here, never
// re-derived per request.
func NewClient(ctx context.Context, spreadsheetID string, creds option.ClientOption) (*Client, error) {
	service, err := sheets.NewService(ctx, creds, option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// SpreadsheetID returns the configured spreadsheet ID.
func (c *Client) SpreadsheetID() string {
	return c.spreadsheetID
}

// GetValues reads values from an A1-style range.
func (c *Client) GetValues(ctx context.Context, readRange string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values: %w", err)
	}

	return resp.Values, nil
}

// AppendRows appends all given rows below the range in a single call, so a
// batch either lands whole or not at all.
func (c *Client) AppendRows(ctx context.Context, appendRange string, rows [][]interface{}) error {
	vr := &sheets.ValueRange{Values: rows}
	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, appendRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}

	return nil
}

// UpdateCell patches a single cell addressed by an A1 reference.
func (c *Client) UpdateCell(ctx context.Context, a1 string, value interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := c.service.Spreadsheets.Values.Update(c.spreadsheetID, a1, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update cell: %w", err)
	}

	return nil
}
