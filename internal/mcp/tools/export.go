package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/plugplayers/internal/export"
)

// PaymentExporter writes the payments ledger to a spreadsheet
type PaymentExporter interface {
	ExportPayments(ctx context.Context, actorID, tab string) (export.Result, error)
}

// ExportPaymentsParams defines the arguments for the export_payments tool
type ExportPaymentsParams struct {
	ActorID string `json:"actor_id" jsonschema:"User id of a platform admin"`
	Tab     string `json:"tab,omitempty" jsonschema:"Sheet tab to replace, defaults to Payments"`
}

type exportTool struct {
	exporter PaymentExporter
}

// WithExportPayments registers the export_payments tool. A nil exporter
// registers nothing
func WithExportPayments(exporter PaymentExporter) Option {
	return func(reg *registry) {
		if exporter == nil {
			reg.logger.Info("export_payments disabled, Google Sheets not configured")
			return
		}
		t := exportTool{exporter: exporter}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "export_payments",
			Description: "Replace a Google Sheets tab with the current payments ledger",
		}, t.handle)
	}
}

func (t exportTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params *ExportPaymentsParams) (*sdkmcp.CallToolResult, any, error) {
	res, err := t.exporter.ExportPayments(ctx, params.ActorID, params.Tab)
	if err != nil {
		return nil, nil, toolError("export_payments", err)
	}
	msg := fmt.Sprintf("[export_payments] wrote %d payment(s) to %s/%s", res.WrittenRows, res.SpreadsheetID, res.Tab)
	return textResult(msg), res, nil
}
