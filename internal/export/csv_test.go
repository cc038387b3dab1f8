package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ida-management/backoffice/internal/domain"
)

func TestWriteOrdersCSV(t *testing.T) {
	created := time.Date(2025, 2, 10, 14, 5, 0, 0, time.UTC)

	orders := []*domain.Order{
		{
			Number:    "IDA-1001",
			CreatedAt: created,
			Customer: domain.Customer{
				Name:  `Maria "Mia" Silva, Jr.`,
				Email: "maria@example.com",
			},
			AmountMinor: 4900,
			Currency:    "USD",
			Status:      domain.OrderStatusCompleted,
			Payment:     domain.Payment{Status: domain.PaymentStatusPaid},
			Tracking:    &domain.Tracking{Carrier: "DHL", Number: "JD014600003RU"},
		},
		{
			Number:    "IDA-1002",
			CreatedAt: created.Add(time.Hour),
			Customer: domain.Customer{
				Name:  "Wei Chen",
				Email: "wei.chen@example.com",
			},
			AmountMinor: 7905,
			Currency:    "USD",
			Status:      domain.OrderStatusProcessing,
			Payment:     domain.Payment{Status: domain.PaymentStatusPending},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOrdersCSV(&buf, orders))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"orderId", "customer", "email", "amount", "currency",
		"status", "paymentStatus", "date", "trackingCarrier", "trackingNumber",
	}, records[0])

	assert.Equal(t, []string{
		"IDA-1001", `Maria "Mia" Silva, Jr.`, "maria@example.com", "49.00", "USD",
		"completed", "paid", "2025-02-10T14:05:00Z", "DHL", "JD014600003RU",
	}, records[1])

	assert.Equal(t, "79.05", records[2][3])
	assert.Equal(t, "", records[2][8], "missing tracking leaves carrier empty")
	assert.Equal(t, "", records[2][9], "missing tracking leaves number empty")
}

func TestWriteOrdersCSVQuotesSpecialCharacters(t *testing.T) {
	orders := []*domain.Order{
		{
			Number:   "IDA-2001",
			Customer: domain.Customer{Name: "Comma, Inc.", Email: "a@example.com"},
			Currency: "EUR",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOrdersCSV(&buf, orders))

	assert.Contains(t, buf.String(), `"Comma, Inc."`)
}

func TestWriteOrdersCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersCSV(&buf, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1, "header only")
}

func TestFilename(t *testing.T) {
	at := time.Date(2025, 7, 4, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "orders-2025-07-04.csv", Filename(at))
}
