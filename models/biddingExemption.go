package models

import (
	"context"
	"errors"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
)

// BiddingExemption records a purchase made outside any protocol, justified
// by an invoice. Creating one moves the bought quantity through the central
// warehouse into the target stock; see stockCommands_biddingExemption.go.
type BiddingExemption struct {
	ID        int             `gorm:"primary_key" json:"id"`
	ProductId int             `gorm:"index;not null" json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	InvoiceId int             `gorm:"index;not null" json:"invoice_id"`
	Invoice   *Invoice        `json:"invoice,omitempty"`
	StockId   int             `gorm:"index;not null" json:"stock_id"`
	Stock     *Stock          `json:"stock,omitempty"`
	Quantity  decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"quantity"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewBiddingExemption struct {
	ProductId int             `json:"product_id" binding:"required"`
	InvoiceId int             `json:"invoice_id" binding:"required"`
	StockId   int             `json:"stock_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func (input *NewBiddingExemption) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Product](ctx, input.ProductId); err != nil {
		return errors.New("product not found")
	}
	if err := utils.ValidateResourceId[Invoice](ctx, input.InvoiceId); err != nil {
		return errors.New("invoice not found")
	}
	if err := utils.ValidateResourceId[Stock](ctx, input.StockId); err != nil {
		return errors.New("stock not found")
	}
	if !input.Quantity.IsPositive() {
		return errors.New("quantity must be positive")
	}
	return nil
}

func GetBiddingExemption(ctx context.Context, id int) (*BiddingExemption, error) {
	return utils.FetchModel[BiddingExemption](ctx, id, "Product", "Invoice", "Stock")
}

func ListBiddingExemptions(ctx context.Context, productId *int, invoiceId *int, stockId *int) ([]*BiddingExemption, error) {
	db := config.GetDB()
	var results []*BiddingExemption

	dbCtx := db.WithContext(ctx).Preload("Product").Preload("Invoice").Preload("Stock")
	if productId != nil {
		dbCtx = dbCtx.Where("product_id = ?", *productId)
	}
	if invoiceId != nil {
		dbCtx = dbCtx.Where("invoice_id = ?", *invoiceId)
	}
	if stockId != nil {
		dbCtx = dbCtx.Where("stock_id = ?", *stockId)
	}
	// db query
	err := dbCtx.Order("created_at DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
