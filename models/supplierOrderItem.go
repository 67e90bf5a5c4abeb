package models

import (
	"context"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
)

// SupplierOrderItem is one product line on a supplier order. Creating one
// books a protocol withdrawal for the same quantity; the two live and die
// together. See stockCommands_supplierOrder.go for the command side.
type SupplierOrderItem struct {
	ID              int             `gorm:"primary_key" json:"id"`
	SupplierOrderId int             `gorm:"index:idx_supplier_order_product,unique;not null" json:"supplier_order_id"`
	SupplierOrder   *SupplierOrder  `json:"supplier_order,omitempty"`
	ProductId       int             `gorm:"index:idx_supplier_order_product,unique;not null" json:"product_id"`
	Product         *Product        `json:"product,omitempty"`
	Quantity        decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"quantity"`
}

type NewSupplierOrderItem struct {
	SupplierOrderId int             `json:"supplier_order_id" binding:"required"`
	ProductId       int             `json:"product_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
}

func GetSupplierOrderItem(ctx context.Context, id int) (*SupplierOrderItem, error) {
	return utils.FetchModel[SupplierOrderItem](ctx, id, "SupplierOrder", "Product")
}

func ListSupplierOrderItems(ctx context.Context, supplierOrderId *int, productId *int) ([]*SupplierOrderItem, error) {
	db := config.GetDB()
	var results []*SupplierOrderItem

	dbCtx := db.WithContext(ctx).
		Preload("SupplierOrder").Preload("Product").Preload("Product.Measure")
	if supplierOrderId != nil {
		dbCtx = dbCtx.Where("supplier_order_id = ?", *supplierOrderId)
	}
	if productId != nil {
		dbCtx = dbCtx.Where("product_id = ?", *productId)
	}
	// db query
	err := dbCtx.Order("id").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
