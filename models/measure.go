package models

import (
	"context"
	"errors"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
)

type Measure struct {
	ID   int    `gorm:"primary_key" json:"id"`
	Name string `gorm:"size:50;not null" json:"name" binding:"required"`
}

type NewMeasure struct {
	Name string `json:"name" binding:"required"`
}

func (input *NewMeasure) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Measure](ctx, "name", input.Name, id); err != nil {
		return err
	}
	return nil
}

func CreateMeasure(ctx context.Context, input *NewMeasure) (*Measure, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	measure := Measure{Name: input.Name}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&measure).Error
	if err != nil {
		return nil, err
	}

	utils.RemoveRedisList[Measure]()
	return &measure, nil
}

func UpdateMeasure(ctx context.Context, id int, input *NewMeasure) (*Measure, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	measure, err := utils.FetchModel[Measure](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&measure).Updates(map[string]interface{}{
		"Name": input.Name,
	}).Error
	if err != nil {
		return nil, err
	}

	utils.RemoveRedisItem[Measure](measure.ID)
	utils.RemoveRedisList[Measure]()
	return measure, nil
}

func DeleteMeasure(ctx context.Context, id int) (*Measure, error) {
	result, err := utils.FetchModel[Measure](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Product](ctx, "measure_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("measure is used by products")
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}

	utils.RemoveRedisItem[Measure](result.ID)
	utils.RemoveRedisList[Measure]()
	return result, nil
}

func GetMeasure(ctx context.Context, id int) (*Measure, error) {
	// first try redis cache
	cached, err := utils.RetrieveRedis[Measure](id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	measure, err := utils.FetchModel[Measure](ctx, id)
	if err != nil {
		return nil, err
	}
	// caching the result
	if err := utils.StoreRedis[Measure](measure, id); err != nil {
		return nil, err
	}
	return measure, nil
}

func ListMeasures(ctx context.Context) ([]*Measure, error) {
	// first try redis cache
	cached, err := utils.RetrieveRedisList[Measure]()
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	db := config.GetDB()
	var results []*Measure
	err = db.WithContext(ctx).Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	// caching the result
	if err := utils.StoreRedisList[Measure](results); err != nil {
		return nil, err
	}
	return results, nil
}
