package models

import (
	"context"
	"errors"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
)

// Stock is the physical store a sector draws supplies from. Exactly one
// stock carries IsCentralWarehouse: the warehouse all supplier deliveries
// flow through before being dispatched to the sectors.
type Stock struct {
	ID                 int     `gorm:"primary_key" json:"id"`
	SectorId           int     `gorm:"uniqueIndex;not null" json:"sector_id"`
	Sector             *Sector `json:"sector,omitempty"`
	IsCentralWarehouse bool    `gorm:"not null;default:false" json:"is_central_warehouse"`
}

type NewStock struct {
	SectorId           int  `json:"sector_id" binding:"required"`
	IsCentralWarehouse bool `json:"is_central_warehouse"`
}

func (input *NewStock) validate(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[Sector](ctx, input.SectorId); err != nil {
		return errors.New("sector not found")
	}
	// a sector owns at most one stock
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&Stock{}).
		Where("sector_id = ? AND id != ?", input.SectorId, id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("sector already has a stock")
	}
	// at most one central warehouse
	if input.IsCentralWarehouse {
		if err := db.WithContext(ctx).Model(&Stock{}).
			Where("is_central_warehouse = ? AND id != ?", true, id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.New("a central warehouse already exists")
		}
	}
	return nil
}

func CreateStock(ctx context.Context, input *NewStock) (*Stock, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	stock := Stock{
		SectorId:           input.SectorId,
		IsCentralWarehouse: input.IsCentralWarehouse,
	}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func UpdateStock(ctx context.Context, id int, input *NewStock) (*Stock, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	stock, err := utils.FetchModel[Stock](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&stock).Updates(map[string]interface{}{
		"SectorId":           input.SectorId,
		"IsCentralWarehouse": input.IsCentralWarehouse,
	}).Error
	if err != nil {
		return nil, err
	}

	return stock, nil
}

func DeleteStock(ctx context.Context, id int) (*Stock, error) {
	result, err := utils.FetchModel[Stock](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[StockItem](ctx, "stock_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("stock has items")
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func GetStock(ctx context.Context, id int) (*Stock, error) {
	return utils.FetchModel[Stock](ctx, id, "Sector")
}

func ListStocks(ctx context.Context, sectorId *int) ([]*Stock, error) {
	db := config.GetDB()
	var results []*Stock

	dbCtx := db.WithContext(ctx).Preload("Sector")
	if sectorId != nil {
		dbCtx = dbCtx.Where("sector_id = ?", *sectorId)
	}
	// db query
	err := dbCtx.Order("id").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetWarehouseStock returns the single stock flagged as the central warehouse.
func GetWarehouseStock(ctx context.Context) (*Stock, error) {
	db := config.GetDB()
	var stock Stock
	err := db.WithContext(ctx).Where("is_central_warehouse = ?", true).First(&stock).Error
	if err != nil {
		return nil, errors.New("central warehouse not configured")
	}
	return &stock, nil
}
