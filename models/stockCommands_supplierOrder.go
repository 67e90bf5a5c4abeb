package models

import (
	"context"
	"errors"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
)

// CreateSupplierOrderItem adds a product line to a supplier order and books
// the matching protocol withdrawal in the same transaction. The protocol of
// the parent order must cover the product, and each product appears on an
// order once.
func CreateSupplierOrderItem(ctx context.Context, input *NewSupplierOrderItem) (*SupplierOrderItem, error) {
	order, err := utils.FetchModel[SupplierOrder](ctx, input.SupplierOrderId)
	if err != nil {
		return nil, errors.New("supplier order not found")
	}
	if err := utils.ValidateResourceId[Product](ctx, input.ProductId); err != nil {
		return nil, errors.New("product not found")
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&SupplierOrderItem{}).
		Where("supplier_order_id = ? AND product_id = ?", input.SupplierOrderId, input.ProductId).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSupplierOrderItemAlreadyExists
	}

	protocolItem, err := FindProtocolItem(ctx, order.ProtocolId, input.ProductId)
	if err != nil {
		return nil, err
	}
	remaining, err := DeriveProtocolItemQuantity(ctx, protocolItem)
	if err != nil {
		return nil, err
	}
	if input.Quantity.GreaterThan(remaining) {
		return nil, ErrQuantityTooBig
	}

	item := SupplierOrderItem{
		SupplierOrderId: input.SupplierOrderId,
		ProductId:       input.ProductId,
		Quantity:        input.Quantity,
	}

	tx := db.WithContext(ctx).Begin()
	if err := tx.Create(&item).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	withdrawal := ProtocolWithdrawal{
		ProtocolItemId:      protocolItem.ID,
		SupplierOrderItemId: &item.ID,
		WithdrawQuantity:    input.Quantity,
	}
	if err := tx.Create(&withdrawal).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := RefreshProtocolItemQuantity(ctx, protocolItem); err != nil {
		return nil, err
	}
	return GetSupplierOrderItem(ctx, item.ID)
}

// DeleteSupplierOrderItem removes the line together with the protocol
// withdrawal it booked, restoring the protocol's allowance.
func DeleteSupplierOrderItem(ctx context.Context, id int) (*SupplierOrderItem, error) {
	result, err := utils.FetchModel[SupplierOrderItem](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var withdrawal ProtocolWithdrawal
	hasWithdrawal := db.WithContext(ctx).
		Where("supplier_order_item_id = ?", id).First(&withdrawal).Error == nil

	tx := db.WithContext(ctx).Begin()
	if hasWithdrawal {
		if err := tx.Delete(&withdrawal).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if hasWithdrawal {
		if item, err := utils.FetchModel[ProtocolItem](ctx, withdrawal.ProtocolItemId); err == nil {
			_ = RefreshProtocolItemQuantity(ctx, item)
		}
	}
	return result, nil
}
