package models

import (
	"context"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
)

// CreateBiddingExemption records an off-protocol purchase and moves the
// bought quantity through the central warehouse into the target stock.
//
// A sector target gets a stock entry plus the warehouse pass-through
// paperwork: the warehouse receives the goods from the invoice's supplier
// and dispatches them to the sector's public defense, its counter ending
// where it started. When the warehouse itself is the target the goods stay
// there and only the receiving side is written.
func CreateBiddingExemption(ctx context.Context, input *NewBiddingExemption) (*BiddingExemption, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	invoice, err := utils.FetchModel[Invoice](ctx, input.InvoiceId)
	if err != nil {
		return nil, err
	}
	targetStock, err := utils.FetchModel[Stock](ctx, input.StockId, "Sector")
	if err != nil {
		return nil, err
	}
	warehouse, err := GetWarehouseStock(ctx)
	if err != nil {
		return nil, err
	}

	lock, err := utils.StockLock(ctx, warehouse.ID, "stockLock", "stockCommands_biddingExemption.go", "CreateBiddingExemption")
	if err != nil {
		return nil, err
	}
	defer lock.Release(ctx)

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()

	exemption := BiddingExemption{
		ProductId: input.ProductId,
		InvoiceId: input.InvoiceId,
		StockId:   input.StockId,
		Quantity:  input.Quantity,
	}
	if err := tx.Create(&exemption).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	warehouseItem, err := GetOrCreateStockItem(tx, warehouse.ID, input.ProductId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if targetStock.ID == warehouse.ID {
		if err := AdjustStockItemQuantity(tx, warehouseItem.ID, input.Quantity); err != nil {
			tx.Rollback()
			return nil, err
		}
		receiving := ReceivingReport{
			SupplierId:  invoice.SupplierId,
			ProductId:   input.ProductId,
			StockItemId: &warehouseItem.ID,
			Quantity:    input.Quantity,
		}
		if err := tx.Create(&receiving).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	} else {
		targetItem, err := GetOrCreateStockItem(tx, targetStock.ID, input.ProductId)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		entry := StockEntry{
			StockItemId:   targetItem.ID,
			InvoiceId:     &input.InvoiceId,
			EntryQuantity: input.Quantity,
		}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		if err := AdjustStockItemQuantity(tx, warehouseItem.ID, input.Quantity); err != nil {
			tx.Rollback()
			return nil, err
		}
		receiving := ReceivingReport{
			SupplierId:  invoice.SupplierId,
			ProductId:   input.ProductId,
			StockItemId: &warehouseItem.ID,
			Quantity:    input.Quantity,
		}
		if err := tx.Create(&receiving).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		if err := AdjustStockItemQuantity(tx, warehouseItem.ID, input.Quantity.Neg()); err != nil {
			tx.Rollback()
			return nil, err
		}
		dispatch := DispatchReport{
			PublicDefenseId: targetStock.Sector.PublicDefenseId,
			ProductId:       input.ProductId,
			StockItemId:     &warehouseItem.ID,
			Quantity:        input.Quantity,
		}
		if err := tx.Create(&dispatch).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return GetBiddingExemption(ctx, exemption.ID)
}

// DeleteBiddingExemption removes the record only; ledger rows written at
// creation stay, matching how paper corrections are handled.
func DeleteBiddingExemption(ctx context.Context, id int) (*BiddingExemption, error) {
	result, err := utils.FetchModel[BiddingExemption](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}
