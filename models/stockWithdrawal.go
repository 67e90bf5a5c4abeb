package models

import (
	"context"
	"errors"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
)

// StockWithdrawal records product leaving a sector stock for consumption.
type StockWithdrawal struct {
	ID               int             `gorm:"primary_key" json:"id"`
	StockItemId      int             `gorm:"index;not null" json:"stock_item_id"`
	StockItem        *StockItem      `json:"stock_item,omitempty"`
	WithdrawQuantity decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"withdraw_quantity"`
	Description      string          `gorm:"type:text" json:"description"`
	WithdrawDate     time.Time       `gorm:"autoCreateTime" json:"withdraw_date"`
}

type NewStockWithdrawal struct {
	StockItemId      int             `json:"stock_item_id" binding:"required"`
	WithdrawQuantity decimal.Decimal `json:"withdraw_quantity"`
	Description      string          `json:"description"`
}

func (input *NewStockWithdrawal) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[StockItem](ctx, input.StockItemId); err != nil {
		return errors.New("stock item not found")
	}
	return nil
}

func CreateStockWithdrawal(ctx context.Context, input *NewStockWithdrawal) (*StockWithdrawal, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	item, err := utils.FetchModel[StockItem](ctx, input.StockItemId)
	if err != nil {
		return nil, err
	}
	balance, err := DeriveStockItemQuantity(ctx, item)
	if err != nil {
		return nil, err
	}
	if input.WithdrawQuantity.GreaterThan(balance) {
		return nil, ErrQuantityTooBig
	}

	withdrawal := StockWithdrawal{
		StockItemId:      input.StockItemId,
		WithdrawQuantity: input.WithdrawQuantity,
		Description:      input.Description,
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Create(&withdrawal).Error
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

func DeleteStockWithdrawal(ctx context.Context, id int) (*StockWithdrawal, error) {
	result, err := utils.FetchModel[StockWithdrawal](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func GetStockWithdrawal(ctx context.Context, id int) (*StockWithdrawal, error) {
	return utils.FetchModel[StockWithdrawal](ctx, id, "StockItem", "StockItem.Product")
}

func ListStockWithdrawals(ctx context.Context, stockItemId *int) ([]*StockWithdrawal, error) {
	db := config.GetDB()
	var results []*StockWithdrawal

	dbCtx := db.WithContext(ctx).Preload("StockItem").Preload("StockItem.Product")
	if stockItemId != nil {
		dbCtx = dbCtx.Where("stock_item_id = ?", *stockItemId)
	}
	// db query
	err := dbCtx.Order("withdraw_date DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
