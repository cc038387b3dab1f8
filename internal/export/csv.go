// Package export renders order lists into the CSV format the finance team
// ingests. Quoting and escaping follow RFC 4180 via encoding/csv.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/search"
)

// orderColumns is the fixed header row. Column order is part of the contract
// with the downstream spreadsheet tooling; do not reorder.
var orderColumns = []string{
	"orderId",
	"customer",
	"email",
	"amount",
	"currency",
	"status",
	"paymentStatus",
	"date",
	"trackingCarrier",
	"trackingNumber",
}

// WriteOrdersCSV streams the given orders as CSV, header row first. The export
// reflects exactly the rows passed in, so callers apply filtering and search
// before handing the slice over.
func WriteOrdersCSV(w io.Writer, orders []*domain.Order) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(orderColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, order := range orders {
		carrier, number := "", ""
		if order.Tracking != nil {
			carrier = order.Tracking.Carrier
			number = order.Tracking.Number
		}

		row := []string{
			order.Number,
			order.Customer.Name,
			order.Customer.Email,
			search.FormatAmount(order.AmountMinor),
			order.Currency,
			string(order.Status),
			string(order.Payment.Status),
			order.CreatedAt.UTC().Format(time.RFC3339),
			carrier,
			number,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for order %s: %w", order.Number, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Filename returns the attachment name for an export generated at the given time.
func Filename(now time.Time) string {
	return fmt.Sprintf("orders-%s.csv", now.UTC().Format("2006-01-02"))
}
