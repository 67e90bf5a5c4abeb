package models

import (
	"context"
	"errors"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
)

// OrderItem is one product line on an order. Quantity is what the sector
// asked for, AddedQuantity what the warehouse actually dispatched, and
// SupplierQuantity what the warehouse received from a supplier alongside the
// dispatch.
type OrderItem struct {
	ID               int             `gorm:"primary_key" json:"id"`
	OrderId          int             `gorm:"index;not null" json:"order_id"`
	Order            *Order          `json:"order,omitempty"`
	ProductId        int             `gorm:"index;not null" json:"product_id"`
	Product          *Product        `json:"product,omitempty"`
	SupplierId       *int            `gorm:"index" json:"supplier_id"`
	Supplier         *Supplier       `json:"supplier,omitempty"`
	Quantity         decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"quantity"`
	AddedQuantity    decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"added_quantity"`
	SupplierQuantity decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"supplier_quantity"`
}

type NewOrderItem struct {
	OrderId          int             `json:"order_id" binding:"required"`
	ProductId        int             `json:"product_id" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity"`
	SupplierQuantity decimal.Decimal `json:"supplier_quantity"`
}

func (input *NewOrderItem) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Order](ctx, input.OrderId); err != nil {
		return errors.New("order not found")
	}
	if err := utils.ValidateResourceId[Product](ctx, input.ProductId); err != nil {
		return errors.New("product not found")
	}
	return nil
}

// CreateOrderItems inserts a batch of lines. When the requesting client
// operates the central warehouse the supplier quantity mirrors the requested
// quantity, since warehouse orders restock straight from suppliers.
func CreateOrderItems(ctx context.Context, inputs []*NewOrderItem) ([]*OrderItem, error) {
	requesterIsWarehouse := false
	if stockId, ok := utils.GetStockIdFromContext(ctx); ok {
		if warehouse, err := GetWarehouseStock(ctx); err == nil && warehouse.ID == stockId {
			requesterIsWarehouse = true
		}
	}

	items := make([]*OrderItem, 0, len(inputs))
	for _, input := range inputs {
		if err := input.validate(ctx); err != nil {
			return nil, err
		}
		supplierQuantity := input.SupplierQuantity
		if requesterIsWarehouse {
			supplierQuantity = input.Quantity
		}
		items = append(items, &OrderItem{
			OrderId:          input.OrderId,
			ProductId:        input.ProductId,
			Quantity:         input.Quantity,
			SupplierQuantity: supplierQuantity,
		})
	}

	// db action
	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	for _, item := range items {
		if err := tx.Create(item).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return items, nil
}

func DeleteOrderItem(ctx context.Context, id int) (*OrderItem, error) {
	result, err := utils.FetchModel[OrderItem](ctx, id)
	if err != nil {
		return nil, err
	}

	if !result.AddedQuantity.IsZero() {
		return nil, ErrOrderAlreadyAddedToStock
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func GetOrderItem(ctx context.Context, id int) (*OrderItem, error) {
	return utils.FetchModel[OrderItem](ctx, id, "Order", "Product", "Supplier")
}

func ListOrderItems(ctx context.Context, orderIds []int, productId *int) ([]*OrderItem, error) {
	db := config.GetDB()
	var results []*OrderItem

	dbCtx := db.WithContext(ctx).Preload("Product").Preload("Product.Measure").Preload("Supplier")
	if len(orderIds) > 0 {
		dbCtx = dbCtx.Where("order_id IN ?", orderIds)
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
