package models

import (
	"context"
	"errors"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"gorm.io/gorm"
)

// SupplierOrder is a purchase placed against a protocol, delivered to one
// public defense. Its items draw down the protocol's withdrawal allowance.
type SupplierOrder struct {
	ID              int                 `gorm:"primary_key" json:"id"`
	ClientId        int                 `gorm:"index;not null" json:"client_id"`
	Client          *Client             `json:"client,omitempty"`
	SupplierId      int                 `gorm:"index;not null" json:"supplier_id"`
	Supplier        *Supplier           `json:"supplier,omitempty"`
	ProtocolId      int                 `gorm:"index;not null" json:"protocol_id"`
	Protocol        *Protocol           `json:"protocol,omitempty"`
	PublicDefenseId int                 `gorm:"index;not null" json:"public_defense_id"`
	PublicDefense   *PublicDefense      `json:"public_defense,omitempty"`
	Received        bool                `gorm:"not null;default:false" json:"received"`
	DeliveryDate    *time.Time          `json:"delivery_date"`
	Items           []SupplierOrderItem `gorm:"foreignKey:SupplierOrderId" json:"items,omitempty"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

type NewSupplierOrder struct {
	ClientId        int     `json:"client_id"`
	SupplierId      int     `json:"supplier_id" binding:"required"`
	ProtocolId      int     `json:"protocol_id" binding:"required"`
	PublicDefenseId int     `json:"public_defense_id" binding:"required"`
	DeliveryDate    *string `json:"delivery_date"`
}

func (input *NewSupplierOrder) validate(ctx context.Context) (*time.Time, error) {
	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
		return nil, errors.New("supplier not found")
	}
	if err := utils.ValidateResourceId[Protocol](ctx, input.ProtocolId); err != nil {
		return nil, errors.New("protocol not found")
	}
	if err := utils.ValidateResourceId[PublicDefense](ctx, input.PublicDefenseId); err != nil {
		return nil, errors.New("public defense not found")
	}
	// the protocol must belong to the ordered supplier
	protocol, err := utils.FetchModel[Protocol](ctx, input.ProtocolId)
	if err != nil {
		return nil, err
	}
	if protocol.SupplierId != input.SupplierId {
		return nil, errors.New("protocol does not belong to supplier")
	}
	var deliveryDate *time.Time
	if input.DeliveryDate != nil && *input.DeliveryDate != "" {
		d, err := utils.ParseDate(*input.DeliveryDate)
		if err != nil {
			return nil, err
		}
		deliveryDate = &d
	}
	return deliveryDate, nil
}

func CreateSupplierOrder(ctx context.Context, input *NewSupplierOrder) (*SupplierOrder, error) {
	if config.IsRestrictedDate(time.Now()) {
		return nil, ErrRestrictedDate
	}

	deliveryDate, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}

	clientId := input.ClientId
	if clientId == 0 {
		userId, ok := utils.GetUserIdFromContext(ctx)
		if ok {
			if client, err := GetClientByUserId(ctx, userId); err == nil {
				clientId = client.ID
			}
		}
	}
	if err := utils.ValidateResourceId[Client](ctx, clientId); err != nil {
		return nil, err
	}

	order := SupplierOrder{
		ClientId:        clientId,
		SupplierId:      input.SupplierId,
		ProtocolId:      input.ProtocolId,
		PublicDefenseId: input.PublicDefenseId,
		DeliveryDate:    deliveryDate,
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Create(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func UpdateSupplierOrder(ctx context.Context, id int, received *bool, deliveryDate *string) (*SupplierOrder, error) {
	order, err := utils.FetchModel[SupplierOrder](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if received != nil {
		updates["Received"] = *received
	}
	if deliveryDate != nil && *deliveryDate != "" {
		d, err := utils.ParseDate(*deliveryDate)
		if err != nil {
			return nil, err
		}
		updates["DeliveryDate"] = d
	}
	if len(updates) == 0 {
		return order, nil
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&order).Updates(updates).Error
	if err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteSupplierOrder removes the order, its items, and the protocol
// withdrawals those items created, restoring the protocol allowance.
func DeleteSupplierOrder(ctx context.Context, id int) (*SupplierOrder, error) {
	result, err := utils.FetchModel[SupplierOrder](ctx, id, "Items")
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	for _, item := range result.Items {
		if err := tx.Where("supplier_order_item_id = ?", item.ID).
			Delete(&ProtocolWithdrawal{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Where("supplier_order_id = ?", id).Delete(&SupplierOrderItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetSupplierOrder(ctx context.Context, id int) (*SupplierOrder, error) {
	return utils.FetchModel[SupplierOrder](ctx, id,
		"Client", "Supplier", "Protocol", "PublicDefense", "Items", "Items.Product")
}

// SupplierOrdersQuery builds the base query for paginated listing.
func SupplierOrdersQuery(ctx context.Context, supplierId *int, protocolId *int, publicDefenseId *int, received *bool) *gorm.DB {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Preload("Client").Preload("Supplier").Preload("Protocol").
		Preload("PublicDefense").Preload("Items").Preload("Items.Product")
	if supplierId != nil {
		dbCtx = dbCtx.Where("supplier_id = ?", *supplierId)
	}
	if protocolId != nil {
		dbCtx = dbCtx.Where("protocol_id = ?", *protocolId)
	}
	if publicDefenseId != nil {
		dbCtx = dbCtx.Where("public_defense_id = ?", *publicDefenseId)
	}
	if received != nil {
		dbCtx = dbCtx.Where("received = ?", *received)
	}
	return dbCtx.Order("id DESC")
}
