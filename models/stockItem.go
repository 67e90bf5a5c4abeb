package models

import (
	"context"
	"errors"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockItem holds the running balance of a product in one stock. For sector
// stocks the balance is ledger derived (entries minus withdrawals) and the
// stored column is refreshed on read; the central warehouse keeps a running
// counter maintained by the fulfillment commands instead.
type StockItem struct {
	ID        int             `gorm:"primary_key" json:"id"`
	StockId   int             `gorm:"index:idx_stock_product,unique;not null" json:"stock_id"`
	Stock     *Stock          `json:"stock,omitempty"`
	ProductId int             `gorm:"index:idx_stock_product,unique;not null" json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"quantity"`
}

type NewStockItem struct {
	StockId   int             `json:"stock_id" binding:"required"`
	ProductId int             `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func (input *NewStockItem) validate(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[Stock](ctx, input.StockId); err != nil {
		return errors.New("stock not found")
	}
	if err := utils.ValidateResourceId[Product](ctx, input.ProductId); err != nil {
		return errors.New("product not found")
	}
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&StockItem{}).
		Where("stock_id = ? AND product_id = ? AND id != ?", input.StockId, input.ProductId, id).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("stock item already exists for this product")
	}
	return nil
}

func CreateStockItem(ctx context.Context, input *NewStockItem) (*StockItem, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	item := StockItem{
		StockId:   input.StockId,
		ProductId: input.ProductId,
		Quantity:  input.Quantity,
	}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func UpdateStockItem(ctx context.Context, id int, input *NewStockItem) (*StockItem, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	item, err := utils.FetchModel[StockItem](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&item).Updates(map[string]interface{}{
		"StockId":   input.StockId,
		"ProductId": input.ProductId,
	}).Error
	if err != nil {
		return nil, err
	}

	if err := RefreshStockItemQuantity(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func DeleteStockItem(ctx context.Context, id int) (*StockItem, error) {
	result, err := utils.FetchModel[StockItem](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[StockEntry](ctx, "stock_item_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("stock item has entries")
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func GetStockItem(ctx context.Context, id int) (*StockItem, error) {
	item, err := utils.FetchModel[StockItem](ctx, id, "Stock", "Product")
	if err != nil {
		return nil, err
	}
	if err := RefreshStockItemQuantity(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func ListStockItems(ctx context.Context, stockId *int, productId *int) ([]*StockItem, error) {
	db := config.GetDB()
	var results []*StockItem

	dbCtx := db.WithContext(ctx).Preload("Stock").Preload("Product").Preload("Product.Measure")
	if stockId != nil {
		dbCtx = dbCtx.Where("stock_id = ?", *stockId)
	}
	if productId != nil {
		dbCtx = dbCtx.Where("product_id = ?", *productId)
	}
	// db query
	err := dbCtx.Order("id").Find(&results).Error
	if err != nil {
		return nil, err
	}
	for _, item := range results {
		if err := RefreshStockItemQuantity(ctx, item); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// GetOrCreateStockItem returns the (stock, product) item, creating a zero
// quantity row when none exists yet. Runs inside the caller's transaction.
func GetOrCreateStockItem(tx *gorm.DB, stockId int, productId int) (*StockItem, error) {
	var item StockItem
	err := tx.Where("stock_id = ? AND product_id = ?", stockId, productId).First(&item).Error
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	item = StockItem{StockId: stockId, ProductId: productId}
	if err := tx.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// AdjustStockItemQuantity moves the running counter by delta. Used for the
// central warehouse, whose balance is not ledger derived.
func AdjustStockItemQuantity(tx *gorm.DB, itemId int, delta decimal.Decimal) error {
	return tx.Model(&StockItem{}).Where("id = ?", itemId).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

// DeriveStockItemQuantity computes the ledger balance: entries minus
// withdrawals, each defaulting to zero.
func DeriveStockItemQuantity(ctx context.Context, item *StockItem) (decimal.Decimal, error) {
	db := config.GetDB()
	var entered, withdrawn decimal.NullDecimal
	if err := db.WithContext(ctx).Model(&StockEntry{}).
		Where("stock_item_id = ?", item.ID).
		Select("SUM(entry_quantity)").Scan(&entered).Error; err != nil {
		return decimal.Zero, err
	}
	if err := db.WithContext(ctx).Model(&StockWithdrawal{}).
		Where("stock_item_id = ?", item.ID).
		Select("SUM(withdraw_quantity)").Scan(&withdrawn).Error; err != nil {
		return decimal.Zero, err
	}
	balance := decimal.Zero
	if entered.Valid {
		balance = balance.Add(entered.Decimal)
	}
	if withdrawn.Valid {
		balance = balance.Sub(withdrawn.Decimal)
	}
	return balance, nil
}

// RefreshStockItemQuantity recomputes the ledger balance and persists it when
// the stored value drifted. Warehouse items keep their running counter.
func RefreshStockItemQuantity(ctx context.Context, item *StockItem) error {
	warehouse, err := GetWarehouseStock(ctx)
	if err == nil && warehouse.ID == item.StockId {
		return nil
	}

	quantity, err := DeriveStockItemQuantity(ctx, item)
	if err != nil {
		return err
	}
	if quantity.Equal(item.Quantity) {
		return nil
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&StockItem{}).
		Where("id = ?", item.ID).Update("quantity", quantity).Error; err != nil {
		return err
	}
	item.Quantity = quantity
	return nil
}
