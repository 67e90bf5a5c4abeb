package reports

import (
	"context"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/shopspring/decimal"
)

// WarehouseItemRow summarizes the central warehouse's holdings of one
// product code.
type WarehouseItemRow struct {
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	MeasureName   string          `json:"measure_name"`
	TotalQuantity decimal.Decimal `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"price"`
	AveragePrice  decimal.Decimal `json:"average_price"`
}

// GetWarehouseItemsReport lists what sits in the central warehouse, one row
// per product code ordered by code.
func GetWarehouseItemsReport(ctx context.Context) ([]*WarehouseItemRow, error) {
	started := time.Now()
	defer logSlowReport(ctx, "warehouse_items", started, nil)

	const cacheKey = "report:warehouse_items"
	if reportCacheEnabled() {
		var cached []*WarehouseItemRow
		if ok, err := cacheGet(cacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	sql := `
SELECT
    products.code AS product_code,
    products.name AS product_name,
    measures.name AS measure_name,
    SUM(stock_items.quantity) AS total_quantity,
    ROUND(SUM(stock_items.quantity * products.price), 2) AS total_price,
    products.price AS unit_price
FROM
    stock_items
        JOIN stocks ON stocks.id = stock_items.stock_id AND stocks.is_central_warehouse = TRUE
        JOIN products ON products.id = stock_items.product_id
        JOIN measures ON measures.id = products.measure_id
GROUP BY products.code, products.name, measures.name, products.price
ORDER BY products.code;
`

	type rawRow struct {
		ProductCode   string
		ProductName   string
		MeasureName   string
		TotalQuantity decimal.Decimal
		TotalPrice    decimal.Decimal
		UnitPrice     decimal.Decimal
	}

	db := config.GetDB()
	var raw []*rawRow
	if err := db.WithContext(ctx).Raw(sql).Scan(&raw).Error; err != nil {
		return nil, err
	}

	results := make([]*WarehouseItemRow, 0, len(raw))
	for _, r := range raw {
		averagePrice := decimal.Zero
		if !r.TotalQuantity.IsZero() {
			averagePrice = r.TotalPrice.DivRound(r.TotalQuantity, 2)
		}
		results = append(results, &WarehouseItemRow{
			ProductCode:   r.ProductCode,
			ProductName:   r.ProductName,
			MeasureName:   r.MeasureName,
			TotalQuantity: r.TotalQuantity,
			TotalPrice:    r.TotalPrice,
			AveragePrice:  averagePrice,
		})
	}
	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, results, reportCacheTTL())
	}
	return results, nil
}

func (r WarehouseItemRow) GetCellValues() []interface{} {
	return []interface{}{
		r.ProductCode,
		r.ProductName,
		r.MeasureName,
		r.TotalQuantity,
		r.TotalPrice,
		r.AveragePrice,
	}
}

var WarehouseItemsHeadings = []string{
	"Code", "Product", "Measure", "Quantity", "Total Price", "Average Price",
}
