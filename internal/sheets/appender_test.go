package sheets

import (
	"testing"
	"time"

	"bakery-orders/internal/domain"
)

func TestRowForOrder(t *testing.T) {
	date := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	o := domain.Order{
		ID:              42,
		CustomerName:    "Ana",
		CustomerPhone:   "111",
		CustomerAddress: "Rua X, 10",
		Mode:            domain.ModeDelivery,
		TotalCents:      1400,
		DeliveryDate:    &date,
		Status:          domain.StatusPending,
		CreatedAt:       time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		Items: []domain.OrderItem{
			{ProductID: 2, Quantity: 1, UnitPriceCents: 1400},
		},
	}

	row := rowForOrder(o)
	if len(row) != 10 {
		t.Fatalf("expected 10 columns, got %d", len(row))
	}
	if row[0] != int64(42) {
		t.Fatalf("unexpected id column %v", row[0])
	}
	if row[6] != "14.00" {
		t.Fatalf("unexpected total column %v", row[6])
	}
	if row[7] != "2026-03-06" {
		t.Fatalf("unexpected delivery date column %v", row[7])
	}
	if row[9] != "1x #2" {
		t.Fatalf("unexpected item summary %v", row[9])
	}
}

func TestRowForPickupOrderHasNoDate(t *testing.T) {
	o := domain.Order{
		ID:     7,
		Mode:   domain.ModePickup,
		Status: domain.StatusDone,
		Items: []domain.OrderItem{
			{ProductID: 1, Quantity: 2, UnitPriceCents: 500},
			{ProductID: 1, Quantity: 1, UnitPriceCents: 500},
		},
	}

	row := rowForOrder(o)
	if row[7] != "" {
		t.Fatalf("pickup order must have empty delivery date column, got %v", row[7])
	}
	if row[9] != "2x #1; 1x #1" {
		t.Fatalf("unexpected item summary %v", row[9])
	}
}

func TestFormatCents(t *testing.T) {
	cases := map[int64]string{
		0:    "0.00",
		5:    "0.05",
		500:  "5.00",
		1400: "14.00",
		1001: "10.01",
	}
	for cents, want := range cases {
		if got := formatCents(cents); got != want {
			t.Fatalf("formatCents(%d): expected %s, got %s", cents, want, got)
		}
	}
}
