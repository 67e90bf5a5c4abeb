package models

import (
	"context"
	"errors"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
)

// StockEntry records product arriving at a sector stock. Entries born from
// order fulfillment carry the order item id; manual entries may carry an
// invoice instead.
type StockEntry struct {
	ID            int             `gorm:"primary_key" json:"id"`
	StockItemId   int             `gorm:"index;not null" json:"stock_item_id"`
	StockItem     *StockItem      `json:"stock_item,omitempty"`
	OrderItemId   *int            `gorm:"uniqueIndex" json:"order_item_id"`
	InvoiceId     *int            `gorm:"index" json:"invoice_id"`
	EntryQuantity decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"entry_quantity"`
	Description   string          `gorm:"type:text" json:"description"`
	EntryDate     time.Time       `gorm:"autoCreateTime" json:"entry_date"`
}

type NewStockEntry struct {
	StockItemId   int             `json:"stock_item_id" binding:"required"`
	InvoiceId     *int            `json:"invoice_id"`
	EntryQuantity decimal.Decimal `json:"entry_quantity"`
	Description   string          `json:"description"`
}

func (input *NewStockEntry) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[StockItem](ctx, input.StockItemId); err != nil {
		return errors.New("stock item not found")
	}
	if input.InvoiceId != nil {
		if err := utils.ValidateResourceId[Invoice](ctx, *input.InvoiceId); err != nil {
			return errors.New("invoice not found")
		}
	}
	return nil
}

func CreateStockEntry(ctx context.Context, input *NewStockEntry) (*StockEntry, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	entry := StockEntry{
		StockItemId:   input.StockItemId,
		InvoiceId:     input.InvoiceId,
		EntryQuantity: input.EntryQuantity,
		Description:   input.Description,
	}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func DeleteStockEntry(ctx context.Context, id int) (*StockEntry, error) {
	result, err := utils.FetchModel[StockEntry](ctx, id)
	if err != nil {
		return nil, err
	}

	// entries created by order fulfillment are corrected through the order
	if result.OrderItemId != nil {
		return nil, errors.New("entry belongs to an order item")
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func GetStockEntry(ctx context.Context, id int) (*StockEntry, error) {
	return utils.FetchModel[StockEntry](ctx, id, "StockItem", "StockItem.Product")
}

func ListStockEntries(ctx context.Context, stockItemId *int, invoiceId *int) ([]*StockEntry, error) {
	db := config.GetDB()
	var results []*StockEntry

	dbCtx := db.WithContext(ctx).Preload("StockItem").Preload("StockItem.Product")
	if stockItemId != nil {
		dbCtx = dbCtx.Where("stock_item_id = ?", *stockItemId)
	}
	if invoiceId != nil {
		dbCtx = dbCtx.Where("invoice_id = ?", *invoiceId)
	}
	// db query
	err := dbCtx.Order("entry_date DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
