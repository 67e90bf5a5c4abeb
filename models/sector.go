package models

import (
	"context"
	"errors"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
)

type Sector struct {
	ID              int            `gorm:"primary_key" json:"id"`
	Name            string         `gorm:"size:100;not null" json:"name" binding:"required"`
	PublicDefenseId int            `gorm:"index;not null" json:"public_defense_id"`
	PublicDefense   *PublicDefense `json:"public_defense,omitempty"`
}

type NewSector struct {
	Name            string `json:"name" binding:"required"`
	PublicDefenseId int    `json:"public_defense_id" binding:"required"`
}

func (input *NewSector) validate(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[PublicDefense](ctx, input.PublicDefenseId); err != nil {
		return errors.New("public defense not found")
	}
	return nil
}

func CreateSector(ctx context.Context, input *NewSector) (*Sector, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	sector := Sector{
		Name:            input.Name,
		PublicDefenseId: input.PublicDefenseId,
	}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&sector).Error
	if err != nil {
		return nil, err
	}
	return &sector, nil
}

func UpdateSector(ctx context.Context, id int, input *NewSector) (*Sector, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	sector, err := utils.FetchModel[Sector](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&sector).Updates(map[string]interface{}{
		"Name":            input.Name,
		"PublicDefenseId": input.PublicDefenseId,
	}).Error
	if err != nil {
		return nil, err
	}

	return sector, nil
}

func DeleteSector(ctx context.Context, id int) (*Sector, error) {
	result, err := utils.FetchModel[Sector](ctx, id)
	if err != nil {
		return nil, err
	}

	// a sector with a stock cannot go away without orphaning its items
	count, err := utils.ResourceCountWhere[Stock](ctx, "sector_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("sector has a stock")
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func GetSector(ctx context.Context, id int) (*Sector, error) {
	return utils.FetchModel[Sector](ctx, id, "PublicDefense")
}

func ListSectors(ctx context.Context, publicDefenseId *int) ([]*Sector, error) {
	db := config.GetDB()
	var results []*Sector

	dbCtx := db.WithContext(ctx).Preload("PublicDefense")
	if publicDefenseId != nil {
		dbCtx = dbCtx.Where("public_defense_id = ?", *publicDefenseId)
	}
	// db query
	err := dbCtx.Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
