package reports_test

import (
	"testing"

	"github.com/defensoria/siri-backend/models/reports"
	"github.com/shopspring/decimal"
)

func row(code, location, entryQty, entryPrice, withdrawQty, withdrawPrice string) *reports.StockReportRow {
	return &reports.StockReportRow{
		ProductCode:        code,
		ProductName:        "product " + code,
		MeasureName:        "unit",
		Location:           location,
		EntryQuantity:      decimal.RequireFromString(entryQty),
		EntryPrice:         decimal.RequireFromString(entryPrice),
		WithdrawalQuantity: decimal.RequireFromString(withdrawQty),
		WithdrawalPrice:    decimal.RequireFromString(withdrawPrice),
	}
}

func TestMergeStockReportRowsCombinesEntriesAndWithdrawals(t *testing.T) {
	// the entry query and the withdrawal query each emit a row for the
	// same product at the same public defense
	merged := reports.MergeStockReportRows([]*reports.StockReportRow{
		row("A01", "La Plata", "10", "100", "0", "0"),
		row("A01", "La Plata", "0", "0", "4", "40"),
	})
	if len(merged) != 1 {
		t.Fatalf("len = %d, want 1", len(merged))
	}
	got := merged[0]
	if !got.EntryQuantity.Equal(decimal.RequireFromString("10")) {
		t.Errorf("entry quantity = %s", got.EntryQuantity)
	}
	if !got.WithdrawalQuantity.Equal(decimal.RequireFromString("4")) {
		t.Errorf("withdrawal quantity = %s", got.WithdrawalQuantity)
	}
	if !got.WithdrawalPrice.Equal(decimal.RequireFromString("40")) {
		t.Errorf("withdrawal price = %s", got.WithdrawalPrice)
	}
}

func TestMergeStockReportRowsKeepsLocationsApart(t *testing.T) {
	merged := reports.MergeStockReportRows([]*reports.StockReportRow{
		row("A01", "Quilmes", "3", "30", "0", "0"),
		row("A01", "La Plata", "10", "100", "0", "0"),
	})
	if len(merged) != 2 {
		t.Fatalf("len = %d, want 2", len(merged))
	}
	// sorted by code, then location
	if merged[0].Location != "La Plata" || merged[1].Location != "Quilmes" {
		t.Fatalf("order = %s, %s", merged[0].Location, merged[1].Location)
	}
}

func TestMergeStockReportRowsSortsByCode(t *testing.T) {
	merged := reports.MergeStockReportRows([]*reports.StockReportRow{
		row("B02", "La Plata", "1", "10", "0", "0"),
		row("A01", "La Plata", "1", "10", "0", "0"),
	})
	if merged[0].ProductCode != "A01" || merged[1].ProductCode != "B02" {
		t.Fatalf("order = %s, %s", merged[0].ProductCode, merged[1].ProductCode)
	}
}

func TestMergeStockReportRowsDoesNotMutateInput(t *testing.T) {
	first := row("A01", "La Plata", "10", "100", "0", "0")
	reports.MergeStockReportRows([]*reports.StockReportRow{
		first,
		row("A01", "La Plata", "5", "50", "0", "0"),
	})
	if !first.EntryQuantity.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("input row mutated: entry quantity = %s", first.EntryQuantity)
	}
}

func TestMergeStockReportRowsEmpty(t *testing.T) {
	if merged := reports.MergeStockReportRows(nil); len(merged) != 0 {
		t.Fatalf("len = %d, want 0", len(merged))
	}
}
