package reports

import (
	"context"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/models"
	"github.com/shopspring/decimal"
)

// AccountantCategoryRow is one category's movement over the report month.
type AccountantCategoryRow struct {
	CategoryId   int             `json:"category_id"`
	CategoryName string          `json:"category_name"`
	EntryValue   decimal.Decimal `json:"entry_value"`
	OutputValue  decimal.Decimal `json:"output_value"`
	Balance      decimal.Decimal `json:"balance"`
}

// AccountantReportResponse carries the month's per-category movement plus
// the balance carried in from earlier months.
type AccountantReportResponse struct {
	Month           string                   `json:"month"`
	Rows            []*AccountantCategoryRow `json:"rows"`
	PreviousBalance decimal.Decimal          `json:"previous_balance"`
	CurrentBalance  decimal.Decimal          `json:"current_balance"`
}

// GetAccountantReport values the month's warehouse movement per category:
// receiving reports priced at the product price count as entries, dispatch
// reports as output. Each category's balance is upserted into the stored
// month-end balances so later months can carry it forward.
func GetAccountantReport(ctx context.Context, monthStart time.Time, monthEnd time.Time) (*AccountantReportResponse, error) {
	entrySQL := `
SELECT
    categories.id AS category_id,
    categories.name AS category_name,
    COALESCE(SUM(receiving_reports.quantity * products.price), 0) AS entry_value
FROM
    categories
        LEFT JOIN products ON products.category_id = categories.id
        LEFT JOIN receiving_reports ON receiving_reports.product_id = products.id
            AND receiving_reports.created_at >= @monthStart
            AND receiving_reports.created_at < @monthEnd
GROUP BY categories.id, categories.name
ORDER BY categories.name;
`
	outputSQL := `
SELECT
    categories.id AS category_id,
    COALESCE(SUM(dispatch_reports.quantity * products.price), 0) AS output_value
FROM
    categories
        LEFT JOIN products ON products.category_id = categories.id
        LEFT JOIN dispatch_reports ON dispatch_reports.product_id = products.id
            AND dispatch_reports.created_at >= @monthStart
            AND dispatch_reports.created_at < @monthEnd
GROUP BY categories.id;
`

	params := map[string]interface{}{
		"monthStart": monthStart,
		"monthEnd":   monthEnd,
	}

	db := config.GetDB()
	var rows []*AccountantCategoryRow
	if err := db.WithContext(ctx).Raw(entrySQL, params).Scan(&rows).Error; err != nil {
		return nil, err
	}

	type outputRow struct {
		CategoryId  int
		OutputValue decimal.Decimal
	}
	var outputs []*outputRow
	if err := db.WithContext(ctx).Raw(outputSQL, params).Scan(&outputs).Error; err != nil {
		return nil, err
	}
	outputByCategory := map[int]decimal.Decimal{}
	for _, o := range outputs {
		outputByCategory[o.CategoryId] = o.OutputValue
	}

	monthTotal := decimal.Zero
	for _, row := range rows {
		row.OutputValue = outputByCategory[row.CategoryId]
		row.Balance = row.EntryValue.Sub(row.OutputValue)
		monthTotal = monthTotal.Add(row.Balance)

		if err := models.UpsertCategoryBalance(ctx, row.CategoryId, monthStart, row.Balance); err != nil {
			return nil, err
		}
	}

	previous, err := models.SumCategoryBalancesBefore(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	return &AccountantReportResponse{
		Month:           monthStart.Format("2006-01"),
		Rows:            rows,
		PreviousBalance: previous,
		CurrentBalance:  previous.Add(monthTotal),
	}, nil
}

func (r AccountantCategoryRow) GetCellValues() []interface{} {
	return []interface{}{
		r.CategoryName,
		r.EntryValue,
		r.OutputValue,
		r.Balance,
	}
}

var AccountantReportHeadings = []string{
	"Category", "Entries", "Output", "Balance",
}
