// Package sheets is a thin wrapper over the Google Sheets values API
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

// Client writes cell ranges of one or more spreadsheets
type Client struct {
	service *sheets.Service
}

// Config selects the service account credentials
type Config struct {
	CredentialsPath string
	// Options are appended after the credentials, e.g. option.WithEndpoint in tests
	Options []option.ClientOption
}

// NewClient creates a Sheets client authenticated with a service account file
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("sheets: credentials path is required")
	}

	opts := append([]option.ClientOption{option.WithCredentialsFile(cfg.CredentialsPath)}, cfg.Options...)
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	return &Client{service: service}, nil
}

// NewClientWithService wraps an existing service
func NewClientWithService(service *sheets.Service) *Client {
	return &Client{service: service}
}

// UpdateValues overwrites the cells starting at rng
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]any) error {
	if c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: update %s: %w", rng, err)
	}
	return nil
}

// ClearValues empties the cells of rng
func (c *Client) ClearValues(ctx context.Context, spreadsheetID, rng string) error {
	if c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: clear %s: %w", rng, err)
	}
	return nil
}
