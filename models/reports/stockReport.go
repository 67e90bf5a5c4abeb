package reports

import (
	"context"
	"sort"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
)

// StockReportRow is one product at one location over the report window.
// Prices are the product's current price times the moved quantity.
type StockReportRow struct {
	ProductCode        string          `json:"product_code"`
	ProductName        string          `json:"product_name"`
	MeasureName        string          `json:"measure_name"`
	Location           string          `json:"location"`
	EntryQuantity      decimal.Decimal `json:"entry_quantity"`
	EntryPrice         decimal.Decimal `json:"entry_price"`
	WithdrawalQuantity decimal.Decimal `json:"withdrawal_quantity"`
	WithdrawalPrice    decimal.Decimal `json:"withdrawal_price"`
}

type StockReportFilter struct {
	InitialDate      time.Time
	FinalDate        time.Time
	ProductIds       []int
	CategoryIds      []int
	PublicDefenseIds []int
	SectorIds        []int
}

// GetStockReport aggregates sector stock movement per product and public
// defense over the window. Warehouse stock items are excluded: the report
// tracks what the sectors consumed, not the pass-through. When the filter
// names sectors the rows break down per sector instead of per defense.
func GetStockReport(ctx context.Context, filter *StockReportFilter) ([]*StockReportRow, error) {
	started := time.Now()
	defer logSlowReport(ctx, "stock_report", started, map[string]any{
		"from": filter.InitialDate.Format("2006-01-02"),
		"to":   filter.FinalDate.Format("2006-01-02"),
	})

	entrySQLT := `
SELECT
    products.code AS product_code,
    products.name AS product_name,
    measures.name AS measure_name,
    {{- if .sectorIds }}
    sectors.name AS location,
    {{- else }}
    public_defenses.name AS location,
    {{- end }}
    SUM(stock_entries.entry_quantity) AS entry_quantity,
    SUM(stock_entries.entry_quantity) * products.price AS entry_price
FROM
    stock_entries
        JOIN stock_items ON stock_items.id = stock_entries.stock_item_id
        JOIN stocks ON stocks.id = stock_items.stock_id AND stocks.is_central_warehouse = FALSE
        JOIN sectors ON sectors.id = stocks.sector_id
        JOIN public_defenses ON public_defenses.id = sectors.public_defense_id
        JOIN products ON products.id = stock_items.product_id
        JOIN measures ON measures.id = products.measure_id
WHERE
    stock_entries.entry_date >= @initialDate
        AND stock_entries.entry_date < @finalDate
        {{- if .productIds }} AND products.id IN @productIds {{- end }}
        {{- if .categoryIds }} AND products.category_id IN @categoryIds {{- end }}
        {{- if .publicDefenseIds }} AND public_defenses.id IN @publicDefenseIds {{- end }}
        {{- if .sectorIds }} AND sectors.id IN @sectorIds {{- end }}
GROUP BY products.id, {{ if .sectorIds }}sectors.id{{ else }}public_defenses.id{{ end }};
`

	withdrawalSQLT := `
SELECT
    products.code AS product_code,
    products.name AS product_name,
    measures.name AS measure_name,
    {{- if .sectorIds }}
    sectors.name AS location,
    {{- else }}
    public_defenses.name AS location,
    {{- end }}
    SUM(stock_withdrawals.withdraw_quantity) AS withdrawal_quantity,
    SUM(stock_withdrawals.withdraw_quantity) * products.price AS withdrawal_price
FROM
    stock_withdrawals
        JOIN stock_items ON stock_items.id = stock_withdrawals.stock_item_id
        JOIN stocks ON stocks.id = stock_items.stock_id AND stocks.is_central_warehouse = FALSE
        JOIN sectors ON sectors.id = stocks.sector_id
        JOIN public_defenses ON public_defenses.id = sectors.public_defense_id
        JOIN products ON products.id = stock_items.product_id
        JOIN measures ON measures.id = products.measure_id
WHERE
    stock_withdrawals.withdraw_date >= @initialDate
        AND stock_withdrawals.withdraw_date < @finalDate
        {{- if .productIds }} AND products.id IN @productIds {{- end }}
        {{- if .categoryIds }} AND products.category_id IN @categoryIds {{- end }}
        {{- if .publicDefenseIds }} AND public_defenses.id IN @publicDefenseIds {{- end }}
        {{- if .sectorIds }} AND sectors.id IN @sectorIds {{- end }}
GROUP BY products.id, {{ if .sectorIds }}sectors.id{{ else }}public_defenses.id{{ end }};
`

	templateData := map[string]interface{}{
		"productIds":       filter.ProductIds,
		"categoryIds":      filter.CategoryIds,
		"publicDefenseIds": filter.PublicDefenseIds,
		"sectorIds":        filter.SectorIds,
	}
	sqlParams := map[string]interface{}{
		"initialDate":      filter.InitialDate,
		"finalDate":        filter.FinalDate,
		"productIds":       filter.ProductIds,
		"categoryIds":      filter.CategoryIds,
		"publicDefenseIds": filter.PublicDefenseIds,
		"sectorIds":        filter.SectorIds,
	}

	db := config.GetDB()

	entrySQL, err := utils.ExecTemplate(entrySQLT, templateData)
	if err != nil {
		return nil, err
	}
	var entryRows []*StockReportRow
	if err := db.WithContext(ctx).Raw(entrySQL, sqlParams).Scan(&entryRows).Error; err != nil {
		return nil, err
	}

	withdrawalSQL, err := utils.ExecTemplate(withdrawalSQLT, templateData)
	if err != nil {
		return nil, err
	}
	var withdrawalRows []*StockReportRow
	if err := db.WithContext(ctx).Raw(withdrawalSQL, sqlParams).Scan(&withdrawalRows).Error; err != nil {
		return nil, err
	}

	return MergeStockReportRows(append(entryRows, withdrawalRows...)), nil
}

// MergeStockReportRows collapses rows sharing (product code, location),
// summing the numeric columns, and orders the result by code then location.
func MergeStockReportRows(rows []*StockReportRow) []*StockReportRow {
	type key struct {
		code     string
		location string
	}
	merged := map[key]*StockReportRow{}
	order := []key{}
	for _, row := range rows {
		k := key{row.ProductCode, row.Location}
		existing, ok := merged[k]
		if !ok {
			copied := *row
			merged[k] = &copied
			order = append(order, k)
			continue
		}
		existing.EntryQuantity = existing.EntryQuantity.Add(row.EntryQuantity)
		existing.EntryPrice = existing.EntryPrice.Add(row.EntryPrice)
		existing.WithdrawalQuantity = existing.WithdrawalQuantity.Add(row.WithdrawalQuantity)
		existing.WithdrawalPrice = existing.WithdrawalPrice.Add(row.WithdrawalPrice)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].code != order[j].code {
			return order[i].code < order[j].code
		}
		return order[i].location < order[j].location
	})

	results := make([]*StockReportRow, 0, len(order))
	for _, k := range order {
		results = append(results, merged[k])
	}
	return results
}

func (r StockReportRow) GetCellValues() []interface{} {
	return []interface{}{
		r.ProductCode,
		r.ProductName,
		r.MeasureName,
		r.Location,
		r.EntryQuantity,
		r.EntryPrice,
		r.WithdrawalQuantity,
		r.WithdrawalPrice,
	}
}

// StockReportHeadings matches GetCellValues column for column.
var StockReportHeadings = []string{
	"Code", "Product", "Measure", "Location",
	"Entry Quantity", "Entry Price", "Withdrawal Quantity", "Withdrawal Price",
}
