package models

import (
	"context"
	"errors"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FulfillOrderItemInput carries the warehouse operator's answer to an order
// line: how much was dispatched and, when the warehouse restocked from a
// supplier in the same move, how much arrived and from whom.
type FulfillOrderItemInput struct {
	AddedQuantity    decimal.Decimal `json:"added_quantity"`
	SupplierQuantity decimal.Decimal `json:"supplier_quantity"`
	SupplierId       *int            `json:"supplier_id"`
}

// FulfillOrderItem is the explicit, command-style heart of order
// fulfillment. It records what the warehouse dispatched for one order line,
// writes the stock ledger rows, moves the warehouse counter, and refreshes
// the order's fulfillment flags, all in one transaction under the warehouse
// lock.
//
// First fulfillment (added was zero) creates the destination stock entry.
// A correction (added changes) rewrites the existing entry in place and only
// the difference moves through the warehouse.
func FulfillOrderItem(ctx context.Context, id int, input *FulfillOrderItemInput) (*OrderItem, error) {
	if input.AddedQuantity.IsNegative() {
		return nil, errors.New("added quantity cannot be negative")
	}

	item, err := utils.FetchModel[OrderItem](ctx, id, "Order")
	if err != nil {
		return nil, err
	}
	if input.AddedQuantity.GreaterThan(item.Quantity) {
		return nil, ErrQuantityTooBig
	}
	if item.Order == nil {
		return nil, errors.New("order not found")
	}
	client, err := utils.FetchModel[Client](ctx, item.Order.ClientId, "Stock", "Stock.Sector")
	if err != nil {
		return nil, err
	}
	warehouse, err := GetWarehouseStock(ctx)
	if err != nil {
		return nil, err
	}

	lock, err := utils.StockLock(ctx, warehouse.ID, "stockLock", "stockCommands_orderItem.go", "FulfillOrderItem")
	if err != nil {
		return nil, err
	}
	defer lock.Release(ctx)

	oldAdded := item.AddedQuantity
	newAdded := input.AddedQuantity

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()

	if !newAdded.IsZero() && !oldAdded.Equal(newAdded) {
		if err := applyFulfillment(tx, item, client, warehouse, oldAdded, input); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Model(&OrderItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
		"AddedQuantity":    input.AddedQuantity,
		"SupplierQuantity": input.SupplierQuantity,
		"SupplierId":       input.SupplierId,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := RecomputeOrderFlags(tx, item.OrderId); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetOrderItem(ctx, id)
}

func applyFulfillment(tx *gorm.DB, item *OrderItem, client *Client, warehouse *Stock, oldAdded decimal.Decimal, input *FulfillOrderItemInput) error {
	destinationIsWarehouse := client.StockId == warehouse.ID

	destItem, err := GetOrCreateStockItem(tx, client.StockId, item.ProductId)
	if err != nil {
		return err
	}

	if destinationIsWarehouse {
		// warehouse restocking itself: bump the counter and document the
		// supplier delivery
		delta := input.AddedQuantity.Sub(oldAdded)
		if err := AdjustStockItemQuantity(tx, destItem.ID, delta); err != nil {
			return err
		}
		if input.SupplierId != nil {
			report := ReceivingReport{
				SupplierId:  *input.SupplierId,
				ProductId:   item.ProductId,
				StockItemId: &destItem.ID,
				Quantity:    input.SupplierQuantity,
			}
			if err := tx.Create(&report).Error; err != nil {
				return err
			}
		}
		return nil
	}

	if oldAdded.IsZero() {
		entry := StockEntry{
			StockItemId:   destItem.ID,
			OrderItemId:   &item.ID,
			EntryQuantity: input.AddedQuantity,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	} else {
		// correction: rewrite the entry born from this order item
		if err := tx.Model(&StockEntry{}).
			Where("order_item_id = ?", item.ID).
			Update("entry_quantity", input.AddedQuantity).Error; err != nil {
			return err
		}
	}

	delta := input.AddedQuantity.Sub(oldAdded)

	warehouseItem, err := GetOrCreateStockItem(tx, warehouse.ID, item.ProductId)
	if err != nil {
		return err
	}

	// a supplier delivery that arrived with this dispatch lands at the
	// warehouse first
	if !input.SupplierQuantity.IsZero() && item.Quantity.Equal(input.AddedQuantity) && input.SupplierId != nil {
		if err := AdjustStockItemQuantity(tx, warehouseItem.ID, input.SupplierQuantity); err != nil {
			return err
		}
		report := ReceivingReport{
			SupplierId:  *input.SupplierId,
			ProductId:   item.ProductId,
			StockItemId: &warehouseItem.ID,
			Quantity:    input.SupplierQuantity,
		}
		if err := tx.Create(&report).Error; err != nil {
			return err
		}
	}

	if err := AdjustStockItemQuantity(tx, warehouseItem.ID, delta.Neg()); err != nil {
		return err
	}

	var sector Sector
	if client.Stock != nil && client.Stock.Sector != nil {
		sector = *client.Stock.Sector
	} else {
		if err := tx.Joins("JOIN stocks ON stocks.sector_id = sectors.id").
			Where("stocks.id = ?", client.StockId).First(&sector).Error; err != nil {
			return err
		}
	}
	dispatch := DispatchReport{
		PublicDefenseId: sector.PublicDefenseId,
		ProductId:       item.ProductId,
		StockItemId:     &warehouseItem.ID,
		Quantity:        delta,
	}
	return tx.Create(&dispatch).Error
}
