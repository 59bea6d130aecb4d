// Package export writes the payments ledger to a spreadsheet
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/pkg/logging"
)

const defaultTab = "Payments"

var header = []any{
	"Payment ID", "Contract ID", "Client", "Candidate", "Amount", "Status", "Payment Date", "Disbursement Date", "Notes",
}

// SheetWriter is the subset of the Sheets client the exporter needs
type SheetWriter interface {
	ClearValues(ctx context.Context, spreadsheetID, rng string) error
	UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]any) error
}

// PaymentLister lists every payment on the platform
type PaymentLister interface {
	AllPayments(ctx context.Context) ([]domain.Payment, error)
}

// AdminGuard rejects actors that are not platform admins
type AdminGuard interface {
	RequireAdmin(ctx context.Context, actorID string) (domain.User, error)
}

// Result summarizes one export run
type Result struct {
	SpreadsheetID string    `json:"spreadsheet_id"`
	Tab           string    `json:"tab"`
	WrittenRows   int       `json:"written_rows"`
	CompletedAt   time.Time `json:"completed_at"`
}

// Option configures Exporter
type Option func(*Exporter)

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(e *Exporter) {
		e.logger = l
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(e *Exporter) {
		e.clock = clock
	}
}

// Exporter replaces a sheet tab with the current payments ledger
type Exporter struct {
	writer        SheetWriter
	payments      PaymentLister
	guard         AdminGuard
	spreadsheetID string
	logger        *logging.Logger
	clock         func() time.Time
}

// NewExporter creates an Exporter targeting spreadsheetID
func NewExporter(writer SheetWriter, payments PaymentLister, guard AdminGuard, spreadsheetID string, opts ...Option) (*Exporter, error) {
	if writer == nil {
		return nil, fmt.Errorf("export: sheet writer is required")
	}
	if payments == nil || guard == nil {
		return nil, fmt.Errorf("export: payment source and admin guard are required")
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("export: spreadsheet id is required")
	}

	e := &Exporter{
		writer:        writer,
		payments:      payments,
		guard:         guard,
		spreadsheetID: spreadsheetID,
		logger:        logging.NewNop(),
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ExportPayments writes a header row and one row per payment, newest first.
// Rows left over from a previous, longer export are cleared
func (e *Exporter) ExportPayments(ctx context.Context, actorID, tab string) (Result, error) {
	if _, err := e.guard.RequireAdmin(ctx, actorID); err != nil {
		return Result{}, err
	}
	if tab == "" {
		tab = defaultTab
	}

	payments, err := e.payments.AllPayments(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("export: list payments: %w", err)
	}

	if err := e.writer.ClearValues(ctx, e.spreadsheetID, fmt.Sprintf("%s!A1:Z", tab)); err != nil {
		return Result{}, fmt.Errorf("export: clear tab: %w", err)
	}

	values := make([][]any, 0, len(payments)+1)
	values = append(values, header)
	for _, p := range payments {
		values = append(values, Row(p))
	}
	if err := e.writer.UpdateValues(ctx, e.spreadsheetID, fmt.Sprintf("%s!A1", tab), values); err != nil {
		return Result{}, fmt.Errorf("export: write rows: %w", err)
	}

	res := Result{
		SpreadsheetID: e.spreadsheetID,
		Tab:           tab,
		WrittenRows:   len(payments),
		CompletedAt:   e.clock().UTC(),
	}
	e.logger.Info("payments exported", "spreadsheet_id", res.SpreadsheetID, "tab", tab, "rows", res.WrittenRows)
	return res, nil
}

// Row renders one payment as sheet cells
func Row(p domain.Payment) []any {
	disbursed := ""
	if p.DisbursementDate != nil {
		disbursed = p.DisbursementDate.UTC().Format(time.RFC3339)
	}
	return []any{
		p.ID,
		p.ContractID,
		p.ClientName,
		p.CandidateName,
		p.Amount.StringFixed(2),
		string(p.Status),
		p.PaymentDate.UTC().Format(time.RFC3339),
		disbursed,
		p.Notes,
	}
}
