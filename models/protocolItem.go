package models

import (
	"context"
	"errors"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
)

// ProtocolItem caps how much of a product the office may withdraw against a
// protocol. Quantity is derived: original quantity minus the sum of linked
// withdrawals. The stored column is refreshed whenever the item is read.
type ProtocolItem struct {
	ID               int             `gorm:"primary_key" json:"id"`
	ProtocolId       int             `gorm:"index;not null" json:"protocol_id"`
	Protocol         *Protocol       `json:"protocol,omitempty"`
	ProductId        int             `gorm:"index;not null" json:"product_id"`
	Product          *Product        `json:"product,omitempty"`
	OriginalQuantity decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"original_quantity"`
	Quantity         decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"quantity"`
}

type NewProtocolItem struct {
	ProtocolId       int             `json:"protocol_id" binding:"required"`
	ProductId        int             `json:"product_id" binding:"required"`
	OriginalQuantity decimal.Decimal `json:"original_quantity"`
}

func (input *NewProtocolItem) validate(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[Protocol](ctx, input.ProtocolId); err != nil {
		return errors.New("protocol not found")
	}
	if err := utils.ValidateResourceId[Product](ctx, input.ProductId); err != nil {
		return errors.New("product not found")
	}
	// one item per (protocol, product)
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&ProtocolItem{}).
		Where("protocol_id = ? AND product_id = ? AND id != ?", input.ProtocolId, input.ProductId, id).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrProtocolItemAlreadyExists
	}
	return nil
}

func CreateProtocolItem(ctx context.Context, input *NewProtocolItem) (*ProtocolItem, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	item := ProtocolItem{
		ProtocolId:       input.ProtocolId,
		ProductId:        input.ProductId,
		OriginalQuantity: input.OriginalQuantity,
		Quantity:         input.OriginalQuantity,
	}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func UpdateProtocolItem(ctx context.Context, id int, input *NewProtocolItem) (*ProtocolItem, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	item, err := utils.FetchModel[ProtocolItem](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&item).Updates(map[string]interface{}{
		"ProtocolId":       input.ProtocolId,
		"ProductId":        input.ProductId,
		"OriginalQuantity": input.OriginalQuantity,
	}).Error
	if err != nil {
		return nil, err
	}

	if err := RefreshProtocolItemQuantity(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func DeleteProtocolItem(ctx context.Context, id int) (*ProtocolItem, error) {
	result, err := utils.FetchModel[ProtocolItem](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[ProtocolWithdrawal](ctx, "protocol_item_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("protocol item has withdrawals")
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func GetProtocolItem(ctx context.Context, id int) (*ProtocolItem, error) {
	item, err := utils.FetchModel[ProtocolItem](ctx, id, "Protocol", "Product")
	if err != nil {
		return nil, err
	}
	if err := RefreshProtocolItemQuantity(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func ListProtocolItems(ctx context.Context, protocolId *int, productId *int) ([]*ProtocolItem, error) {
	db := config.GetDB()
	var results []*ProtocolItem

	dbCtx := db.WithContext(ctx).Preload("Protocol").Preload("Product")
	if protocolId != nil {
		dbCtx = dbCtx.Where("protocol_id = ?", *protocolId)
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
		if err := RefreshProtocolItemQuantity(ctx, item); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// FindProtocolItem looks the item up by (protocol, product). The caller gets
// ErrProtocolItemNotFound when the protocol does not cover the product.
func FindProtocolItem(ctx context.Context, protocolId int, productId int) (*ProtocolItem, error) {
	db := config.GetDB()
	var item ProtocolItem
	err := db.WithContext(ctx).
		Where("protocol_id = ? AND product_id = ?", protocolId, productId).
		First(&item).Error
	if err != nil {
		return nil, ErrProtocolItemNotFound
	}
	return &item, nil
}

// DeriveProtocolItemQuantity computes the remaining quantity from the
// withdrawal ledger without touching the stored column.
func DeriveProtocolItemQuantity(ctx context.Context, item *ProtocolItem) (decimal.Decimal, error) {
	db := config.GetDB()
	var withdrawn decimal.NullDecimal
	err := db.WithContext(ctx).Model(&ProtocolWithdrawal{}).
		Where("protocol_item_id = ?", item.ID).
		Select("SUM(withdraw_quantity)").Scan(&withdrawn).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !withdrawn.Valid {
		return item.OriginalQuantity, nil
	}
	return item.OriginalQuantity.Sub(withdrawn.Decimal), nil
}

// RefreshProtocolItemQuantity recomputes the remaining quantity and persists
// it when the stored value drifted from the ledger.
func RefreshProtocolItemQuantity(ctx context.Context, item *ProtocolItem) error {
	quantity, err := DeriveProtocolItemQuantity(ctx, item)
	if err != nil {
		return err
	}
	if quantity.Equal(item.Quantity) {
		return nil
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&ProtocolItem{}).
		Where("id = ?", item.ID).Update("quantity", quantity).Error; err != nil {
		return err
	}
	item.Quantity = quantity
	return nil
}
