package models

import (
	"context"
	"errors"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
)

// ProtocolWithdrawal draws quantity off a protocol item's allowance. Rows
// created by supplier order items carry the item id and are removed with it;
// manual withdrawals leave it null.
type ProtocolWithdrawal struct {
	ID                  int                `gorm:"primary_key" json:"id"`
	ProtocolItemId      int                `gorm:"index;not null" json:"protocol_item_id"`
	ProtocolItem        *ProtocolItem      `json:"protocol_item,omitempty"`
	SupplierOrderItemId *int               `gorm:"index" json:"supplier_order_item_id"`
	SupplierOrderItem   *SupplierOrderItem `json:"supplier_order_item,omitempty"`
	WithdrawQuantity    decimal.Decimal    `gorm:"type:decimal(20,2);default:0" json:"withdraw_quantity"`
	WithdrawDate        time.Time          `gorm:"autoCreateTime" json:"withdraw_date"`
}

type NewProtocolWithdrawal struct {
	ProtocolItemId   int             `json:"protocol_item_id" binding:"required"`
	WithdrawQuantity decimal.Decimal `json:"withdraw_quantity"`
}

func CreateProtocolWithdrawal(ctx context.Context, input *NewProtocolWithdrawal) (*ProtocolWithdrawal, error) {
	item, err := utils.FetchModel[ProtocolItem](ctx, input.ProtocolItemId)
	if err != nil {
		return nil, errors.New("protocol item not found")
	}

	remaining, err := DeriveProtocolItemQuantity(ctx, item)
	if err != nil {
		return nil, err
	}
	if input.WithdrawQuantity.GreaterThan(remaining) {
		return nil, ErrQuantityTooBig
	}

	withdrawal := ProtocolWithdrawal{
		ProtocolItemId:   input.ProtocolItemId,
		WithdrawQuantity: input.WithdrawQuantity,
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Create(&withdrawal).Error
	if err != nil {
		return nil, err
	}

	if err := RefreshProtocolItemQuantity(ctx, item); err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

func DeleteProtocolWithdrawal(ctx context.Context, id int) (*ProtocolWithdrawal, error) {
	result, err := utils.FetchModel[ProtocolWithdrawal](ctx, id)
	if err != nil {
		return nil, err
	}

	// withdrawals booked by supplier orders are removed with their item
	if result.SupplierOrderItemId != nil {
		return nil, errors.New("withdrawal belongs to a supplier order item")
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func GetProtocolWithdrawal(ctx context.Context, id int) (*ProtocolWithdrawal, error) {
	return utils.FetchModel[ProtocolWithdrawal](ctx, id, "ProtocolItem", "ProtocolItem.Product")
}

func ListProtocolWithdrawals(ctx context.Context, protocolItemId *int) ([]*ProtocolWithdrawal, error) {
	db := config.GetDB()
	var results []*ProtocolWithdrawal

	dbCtx := db.WithContext(ctx).Preload("ProtocolItem").Preload("ProtocolItem.Product")
	if protocolItemId != nil {
		dbCtx = dbCtx.Where("protocol_item_id = ?", *protocolItemId)
	}
	// db query
	err := dbCtx.Order("withdraw_date DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
