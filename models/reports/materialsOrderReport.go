package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/models"
	"github.com/shopspring/decimal"
)

// MaterialsOrderRow is one product line on the consolidated order, grouped
// by the public defense it will be delivered to.
type MaterialsOrderRow struct {
	PublicDefense string          `json:"public_defense"`
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	MeasureName   string          `json:"measure_name"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// MaterialsOrderResponse is the generated document plus its recorded
// identity.
type MaterialsOrderResponse struct {
	Order *models.MaterialsOrder `json:"order"`
	Rows  []*MaterialsOrderRow   `json:"rows"`
}

// GenerateMaterialsOrder consolidates every supplier order item for one
// supplier, protocol category, and date range into a purchase document,
// grouped by destination public defense ordered by product name. Each
// (supplier, category, range) triple is generated once; a repeat attempt
// fails so the document is not sent to the supplier twice.
func GenerateMaterialsOrder(ctx context.Context, supplierId int, categoryId int, initialDate time.Time, finalDate time.Time) (*MaterialsOrderResponse, error) {
	rows, err := materialsOrderRows(ctx, supplierId, categoryId, initialDate, finalDate)
	if err != nil {
		return nil, err
	}

	// the stored range names the last covered day, the query bound is one past
	dateRange := models.FormatDateRange(initialDate, finalDate.AddDate(0, 0, -1))
	order, existed, err := models.GetOrCreateMaterialsOrder(ctx, supplierId, categoryId, dateRange)
	if err != nil {
		return nil, err
	}
	if existed {
		return nil, models.ErrMaterialsOrderAlreadyExists
	}

	return &MaterialsOrderResponse{Order: order, Rows: rows}, nil
}

// materialsOrderRows runs the consolidation query over the half-open date
// window.
func materialsOrderRows(ctx context.Context, supplierId int, categoryId int, initialDate time.Time, finalDate time.Time) ([]*MaterialsOrderRow, error) {
	sql := `
SELECT
    public_defenses.name AS public_defense,
    products.code AS product_code,
    products.name AS product_name,
    measures.name AS measure_name,
    SUM(supplier_order_items.quantity) AS quantity
FROM
    supplier_order_items
        JOIN supplier_orders ON supplier_orders.id = supplier_order_items.supplier_order_id
        JOIN protocols ON protocols.id = supplier_orders.protocol_id
        JOIN public_defenses ON public_defenses.id = supplier_orders.public_defense_id
        JOIN products ON products.id = supplier_order_items.product_id
        JOIN measures ON measures.id = products.measure_id
WHERE
    supplier_orders.supplier_id = @supplierId
        AND protocols.category_id = @categoryId
        AND supplier_orders.created_at >= @initialDate
        AND supplier_orders.created_at < @finalDate
GROUP BY public_defenses.name, products.id
ORDER BY public_defenses.name, products.name;
`

	db := config.GetDB()
	var rows []*MaterialsOrderRow
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"supplierId":  supplierId,
		"categoryId":  categoryId,
		"initialDate": initialDate,
		"finalDate":   finalDate,
	}).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetMaterialsOrderRows re-runs the consolidation for an already generated
// order, using the date range recorded on it.
func GetMaterialsOrderRows(ctx context.Context, order *models.MaterialsOrder) ([]*MaterialsOrderRow, error) {
	parts := strings.SplitN(order.DateRange, " - ", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed date range %q", order.DateRange)
	}
	initialDate, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return nil, err
	}
	finalDate, err := time.Parse("2006-01-02", parts[1])
	if err != nil {
		return nil, err
	}
	return materialsOrderRows(ctx, order.SupplierId, order.CategoryId, initialDate, finalDate.AddDate(0, 0, 1))
}

func (r MaterialsOrderRow) GetCellValues() []interface{} {
	return []interface{}{
		r.PublicDefense,
		r.ProductCode,
		r.ProductName,
		r.MeasureName,
		r.Quantity,
	}
}

var MaterialsOrderHeadings = []string{
	"Public Defense", "Code", "Product", "Measure", "Quantity",
}
