package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"gorm.io/gorm"
)

// MaterialsOrder is the consolidated purchase document generated from the
// supplier order items of one supplier, category, and date range. The same
// triple can be generated once; a repeat attempt returns
// ErrMaterialsOrderAlreadyExists so it is not double sent.
type MaterialsOrder struct {
	ID         int       `gorm:"primary_key" json:"id"`
	SupplierId int       `gorm:"index;not null" json:"supplier_id"`
	Supplier   *Supplier `json:"supplier,omitempty"`
	CategoryId int       `gorm:"index;not null" json:"category_id"`
	Category   *Category `json:"category,omitempty"`
	DateRange  string    `gorm:"size:30;not null" json:"date_range"`
	File       string    `gorm:"size:255" json:"file"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// FormatDateRange renders the range key the way it is stored.
func FormatDateRange(initialDate time.Time, finalDate time.Time) string {
	return fmt.Sprintf("%s - %s", initialDate.Format("2006-01-02"), finalDate.Format("2006-01-02"))
}

// GetOrCreateMaterialsOrder returns the order for the triple, creating it on
// first use. The second return reports whether the row already existed.
func GetOrCreateMaterialsOrder(ctx context.Context, supplierId int, categoryId int, dateRange string) (*MaterialsOrder, bool, error) {
	db := config.GetDB()
	var order MaterialsOrder
	err := db.WithContext(ctx).
		Where("supplier_id = ? AND category_id = ? AND date_range = ?", supplierId, categoryId, dateRange).
		First(&order).Error
	if err == nil {
		return &order, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	order = MaterialsOrder{
		SupplierId: supplierId,
		CategoryId: categoryId,
		DateRange:  dateRange,
	}
	if err := db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, false, err
	}
	return &order, false, nil
}

func GetMaterialsOrder(ctx context.Context, id int) (*MaterialsOrder, error) {
	return utils.FetchModel[MaterialsOrder](ctx, id, "Supplier", "Category")
}

func ListMaterialsOrders(ctx context.Context, supplierId *int, categoryId *int) ([]*MaterialsOrder, error) {
	db := config.GetDB()
	var results []*MaterialsOrder

	dbCtx := db.WithContext(ctx).Preload("Supplier").Preload("Category")
	if supplierId != nil {
		dbCtx = dbCtx.Where("supplier_id = ?", *supplierId)
	}
	if categoryId != nil {
		dbCtx = dbCtx.Where("category_id = ?", *categoryId)
	}
	err := dbCtx.Order("created_at DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func DeleteMaterialsOrder(ctx context.Context, id int) (*MaterialsOrder, error) {
	result, err := utils.FetchModel[MaterialsOrder](ctx, id)
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

// AttachMaterialsOrderFile stores the object key of the signed document.
func AttachMaterialsOrderFile(ctx context.Context, id int, file string) (*MaterialsOrder, error) {
	order, err := utils.FetchModel[MaterialsOrder](ctx, id)
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
