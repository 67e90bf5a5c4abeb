package models_test

import (
	"testing"

	"github.com/defensoria/siri-backend/models"
	"github.com/shopspring/decimal"
)

func item(requested, added string) models.OrderItem {
	return models.OrderItem{
		Quantity:      decimal.RequireFromString(requested),
		AddedQuantity: decimal.RequireFromString(added),
	}
}

func TestComputeOrderFlagsEmptyOrder(t *testing.T) {
	isSent, partially, completely := models.ComputeOrderFlags(nil)
	if isSent || partially || completely {
		t.Fatalf("empty order: got sent=%v partially=%v completely=%v, want all false", isSent, partially, completely)
	}
}

func TestComputeOrderFlagsNothingFulfilled(t *testing.T) {
	items := []models.OrderItem{item("10", "0"), item("5", "0")}
	isSent, partially, completely := models.ComputeOrderFlags(items)
	if isSent || partially || completely {
		t.Fatalf("untouched order: got sent=%v partially=%v completely=%v, want all false", isSent, partially, completely)
	}
}

func TestComputeOrderFlagsPartialFulfillment(t *testing.T) {
	items := []models.OrderItem{item("10", "10"), item("5", "0")}
	isSent, partially, completely := models.ComputeOrderFlags(items)
	if !isSent || !partially || completely {
		t.Fatalf("half-delivered order: got sent=%v partially=%v completely=%v, want true/true/false", isSent, partially, completely)
	}
}

func TestComputeOrderFlagsShortDelivery(t *testing.T) {
	// every item got something but one is short, still partial
	items := []models.OrderItem{item("10", "10"), item("5", "2.5")}
	isSent, partially, completely := models.ComputeOrderFlags(items)
	if !isSent || !partially || completely {
		t.Fatalf("short delivery: got sent=%v partially=%v completely=%v, want true/true/false", isSent, partially, completely)
	}
}

func TestComputeOrderFlagsCompleteFulfillment(t *testing.T) {
	items := []models.OrderItem{item("10", "10"), item("5", "5")}
	isSent, partially, completely := models.ComputeOrderFlags(items)
	if !isSent || partially || !completely {
		t.Fatalf("complete order: got sent=%v partially=%v completely=%v, want true/false/true", isSent, partially, completely)
	}
}

func TestComputeOrderFlagsDecimalScaleInsensitive(t *testing.T) {
	// 10 and 10.00 must compare equal
	items := []models.OrderItem{item("10", "10.00")}
	isSent, partially, completely := models.ComputeOrderFlags(items)
	if !isSent || partially || !completely {
		t.Fatalf("scale mismatch: got sent=%v partially=%v completely=%v, want true/false/true", isSent, partially, completely)
	}
}
