package models

import (
	"context"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"gorm.io/gorm"
)

// Order is a sector's request for supplies from the central warehouse. The
// three flags track fulfillment: IsSent once any quantity landed, Partially
// while some items are short, Completely once everything arrived.
type Order struct {
	ID         int         `gorm:"primary_key" json:"id"`
	ClientId   int         `gorm:"index;not null" json:"client_id"`
	Client     *Client     `json:"client,omitempty"`
	IsSent     bool        `gorm:"not null;default:false" json:"is_sent"`
	Partially  bool        `gorm:"not null;default:false" json:"partially_added_to_stock"`
	Completely bool        `gorm:"not null;default:false" json:"completely_added_to_stock"`
	File       string      `gorm:"size:255" json:"file"`
	Items      []OrderItem `gorm:"foreignKey:OrderId" json:"items,omitempty"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewOrder struct {
	ClientId int `json:"client_id"`
}

func CreateOrder(ctx context.Context, input *NewOrder) (*Order, error) {
	// ordering is suspended on configured dates
	if config.IsRestrictedDate(time.Now()) {
		return nil, ErrRestrictedDate
	}

	clientId := input.ClientId
	if clientId == 0 {
		// default to the requesting client
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

	order := Order{ClientId: clientId}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder refuses to remove an order whose items already moved stock.
func DeleteOrder(ctx context.Context, id int) (*Order, error) {
	result, err := utils.FetchModel[Order](ctx, id)
	if err != nil {
		return nil, err
	}

	if result.Partially || result.Completely {
		return nil, ErrOrderAlreadyAddedToStock
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Where("order_id = ?", id).Delete(&OrderItem{}).Error; err != nil {
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

func GetOrder(ctx context.Context, id int) (*Order, error) {
	return utils.FetchModel[Order](ctx, id, "Client", "Items", "Items.Product")
}

func ListOrders(ctx context.Context, clientId *int, isSent *bool) ([]*Order, error) {
	db := config.GetDB()
	var results []*Order

	dbCtx := db.WithContext(ctx).Preload("Client").Preload("Items").Preload("Items.Product")
	if clientId != nil {
		dbCtx = dbCtx.Where("client_id = ?", *clientId)
	}
	if isSent != nil {
		dbCtx = dbCtx.Where("is_sent = ?", *isSent)
	}
	// db query
	err := dbCtx.Order("id DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// OrdersQuery builds the base query for paginated listing.
func OrdersQuery(ctx context.Context, clientId *int, isSent *bool) *gorm.DB {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Client").Preload("Items").Preload("Items.Product")
	if clientId != nil {
		dbCtx = dbCtx.Where("client_id = ?", *clientId)
	}
	if isSent != nil {
		dbCtx = dbCtx.Where("is_sent = ?", *isSent)
	}
	return dbCtx.Order("id DESC")
}

// AttachOrderFile stores the object key of the signed order confirmation.
func AttachOrderFile(ctx context.Context, id int, file string) (*Order, error) {
	order, err := utils.FetchModel[Order](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&order).Update("File", file).Error
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ComputeOrderFlags derives the fulfillment flags from the item quantities.
// completely when every item got exactly what it asked for, partially when
// anything landed but the order is still short. Either state means the order
// was sent.
func ComputeOrderFlags(items []OrderItem) (isSent bool, partially bool, completely bool) {
	if len(items) == 0 {
		return false, false, false
	}
	allFull := true
	anyAdded := false
	for _, item := range items {
		if !item.Quantity.Equal(item.AddedQuantity) {
			allFull = false
		}
		if !item.AddedQuantity.IsZero() {
			anyAdded = true
		}
	}
	if allFull {
		return true, false, true
	}
	if anyAdded {
		return true, true, false
	}
	return false, false, false
}

// RecomputeOrderFlags reloads the order's items and persists the derived
// flags. Runs inside the caller's transaction.
func RecomputeOrderFlags(tx *gorm.DB, orderId int) error {
	var items []OrderItem
	if err := tx.Where("order_id = ?", orderId).Find(&items).Error; err != nil {
		return err
	}
	isSent, partially, completely := ComputeOrderFlags(items)
	return tx.Model(&Order{}).Where("id = ?", orderId).Updates(map[string]interface{}{
		"IsSent":     isSent,
		"Partially":  partially,
		"Completely": completely,
	}).Error
}
