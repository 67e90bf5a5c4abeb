package models

import (
	"context"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
)

type Category struct {
	ID      int      `gorm:"primary_key" json:"id"`
	Name    string   `gorm:"size:100;not null" json:"name" binding:"required"`
	Code    string   `gorm:"size:20;not null" json:"code"`
	Sectors []Sector `gorm:"many2many:category_sectors" json:"sectors,omitempty"`
}

type NewCategory struct {
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code" binding:"required"`
	SectorIds []int  `json:"sector_ids"`
}

func (input *NewCategory) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Category](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if err := utils.ValidateUnique[Category](ctx, "code", input.Code, id); err != nil {
		return err
	}
	if err := utils.ValidateResourcesId[Sector](ctx, input.SectorIds); err != nil {
		return err
	}
	return nil
}

func CreateCategory(ctx context.Context, input *NewCategory) (*Category, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	category := Category{
		Name: input.Name,
		Code: input.Code,
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Create(&category).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(input.SectorIds) > 0 {
		var sectors []Sector
		if err := tx.Find(&sectors, input.SectorIds).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.Model(&category).Association("Sectors").Append(&sectors); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	utils.RemoveRedisList[Category]()
	return &category, nil
}

func UpdateCategory(ctx context.Context, id int, input *NewCategory) (*Category, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	category, err := utils.FetchModel[Category](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Model(&category).Updates(map[string]interface{}{
		"Name": input.Name,
		"Code": input.Code,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	var sectors []Sector
	if len(input.SectorIds) > 0 {
		if err := tx.Find(&sectors, input.SectorIds).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Model(&category).Association("Sectors").Replace(&sectors); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	utils.RemoveRedisItem[Category](category.ID)
	utils.RemoveRedisList[Category]()
	return category, nil
}

func DeleteCategory(ctx context.Context, id int) (*Category, error) {
	result, err := utils.FetchModel[Category](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Select("Sectors").Delete(&result).Error
	if err != nil {
		return nil, err
	}

	utils.RemoveRedisItem[Category](result.ID)
	utils.RemoveRedisList[Category]()
	return result, nil
}

func GetCategory(ctx context.Context, id int) (*Category, error) {
	// first try redis cache
	cached, err := utils.RetrieveRedis[Category](id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	category, err := utils.FetchModel[Category](ctx, id, "Sectors")
	if err != nil {
		return nil, err
	}
	// caching the result
	if err := utils.StoreRedis[Category](category, id); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategoriesBySector returns the categories available to one sector.
func ListCategoriesBySector(ctx context.Context, sectorId int) ([]*Category, error) {
	db := config.GetDB()
	var results []*Category
	err := db.WithContext(ctx).
		Joins("JOIN category_sectors ON category_sectors.category_id = categories.id").
		Where("category_sectors.sector_id = ?", sectorId).
		Order("code").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func ListCategories(ctx context.Context) ([]*Category, error) {
	// first try redis cache
	cached, err := utils.RetrieveRedisList[Category]()
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	db := config.GetDB()
	var results []*Category
	err = db.WithContext(ctx).Preload("Sectors").Order("code").Find(&results).Error
	if err != nil {
		return nil, err
	}
	// caching the result
	if err := utils.StoreRedisList[Category](results); err != nil {
		return nil, err
	}
	return results, nil
}
