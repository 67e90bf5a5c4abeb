package models

import (
	"context"
	"errors"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
)

// ReceivingReport documents product arriving at the central warehouse from a
// supplier. Rows are written by the fulfillment and bidding exemption
// commands; the scanned signed report is attached afterwards.
type ReceivingReport struct {
	ID          int             `gorm:"primary_key" json:"id"`
	SupplierId  int             `gorm:"index;not null" json:"supplier_id"`
	Supplier    *Supplier       `json:"supplier,omitempty"`
	ProductId   int             `gorm:"index;not null" json:"product_id"`
	Product     *Product        `json:"product,omitempty"`
	StockItemId *int            `gorm:"index" json:"stock_item_id"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"quantity"`
	File        string          `gorm:"size:255" json:"file"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewReceivingReport struct {
	SupplierId  int             `json:"supplier_id" binding:"required"`
	ProductId   int             `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Description string          `json:"description"`
}

// CreateReceivingReport registers a delivery documented on paper only, with
// no ledger movement attached.
func CreateReceivingReport(ctx context.Context, input *NewReceivingReport) (*ReceivingReport, error) {
	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
		return nil, errors.New("supplier not found")
	}
	if err := utils.ValidateResourceId[Product](ctx, input.ProductId); err != nil {
		return nil, errors.New("product not found")
	}

	report := ReceivingReport{
		SupplierId:  input.SupplierId,
		ProductId:   input.ProductId,
		Quantity:    input.Quantity,
		Description: input.Description,
	}

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, err
	}
	return GetReceivingReport(ctx, report.ID)
}

func GetReceivingReport(ctx context.Context, id int) (*ReceivingReport, error) {
	return utils.FetchModel[ReceivingReport](ctx, id, "Supplier", "Product")
}

func ListReceivingReports(ctx context.Context, supplierId *int, productId *int, initialDate *time.Time, finalDate *time.Time) ([]*ReceivingReport, error) {
	db := config.GetDB()
	var results []*ReceivingReport

	dbCtx := db.WithContext(ctx).Preload("Supplier").Preload("Product")
	if supplierId != nil {
		dbCtx = dbCtx.Where("supplier_id = ?", *supplierId)
	}
	if productId != nil {
		dbCtx = dbCtx.Where("product_id = ?", *productId)
	}
	if initialDate != nil {
		dbCtx = dbCtx.Where("created_at >= ?", *initialDate)
	}
	if finalDate != nil {
		dbCtx = dbCtx.Where("created_at < ?", *finalDate)
	}
	// db query
	err := dbCtx.Order("created_at DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func DeleteReceivingReport(ctx context.Context, id int) (*ReceivingReport, error) {
	result, err := utils.FetchModel[ReceivingReport](ctx, id)
	if err != nil {
		return nil, err
	}

	if result.File != "" {
		return nil, errors.New("report has a signed document attached")
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AttachReceivingReportFile stores the object key of the signed report scan.
func AttachReceivingReportFile(ctx context.Context, id int, file string) (*ReceivingReport, error) {
	report, err := utils.FetchModel[ReceivingReport](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&report).Update("File", file).Error
	if err != nil {
		return nil, err
	}
	return report, nil
}
