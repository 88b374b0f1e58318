package sheets

import (
	"context"
	"fmt"
	"strings"

	"bakery-orders/internal/domain"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// appendRange targets the first sheet; the API locates the first free row.
const appendRange = "A1"

// Appender logs finalized orders as rows of a Google spreadsheet. It is a
// best-effort collaborator: callers are expected to discard its errors.
type Appender struct {
	svc           *gsheets.Service
	spreadsheetID string
}

// NewAppender builds a Sheets client from a service-account credentials file.
func NewAppender(ctx context.Context, spreadsheetID, credentialsFile string) (*Appender, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}
	return &Appender{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// OrderCreated appends one row for the order.
func (a *Appender) OrderCreated(ctx context.Context, o domain.Order) error {
	body := &gsheets.ValueRange{Values: [][]interface{}{rowForOrder(o)}}
	_, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, appendRange, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append order %d: %w", o.ID, err)
	}
	return nil
}

// rowForOrder flattens an order into one spreadsheet row.
func rowForOrder(o domain.Order) []interface{} {
	return []interface{}{
		o.ID,
		o.CreatedAt.Format("2006-01-02 15:04:05"),
		o.CustomerName,
		o.CustomerPhone,
		o.CustomerAddress,
		string(o.Mode),
		formatCents(o.TotalCents),
		o.DeliveryDateString(),
		string(o.Status),
		itemSummary(o.Items),
	}
}

func itemSummary(items []domain.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%dx #%d", it.Quantity, it.ProductID))
	}
	return strings.Join(parts, "; ")
}

// formatCents renders an integer cent amount as a 2-decimal string.
func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
