package models

import (
	"context"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
)

type PublicDefense struct {
	ID        int      `gorm:"primary_key" json:"id"`
	Name      string   `gorm:"size:100;not null" json:"name" binding:"required"`
	District  string   `gorm:"size:100;not null" json:"district"`
	Address   string   `gorm:"type:text" json:"address"`
	Sectors   []Sector `gorm:"foreignKey:PublicDefenseId" json:"sectors,omitempty"`
}

type NewPublicDefense struct {
	Name     string `json:"name" binding:"required"`
	District string `json:"district" binding:"required"`
	Address  string `json:"address"`
}

// validate input for both create & update. (id = 0 for create)

func (input *NewPublicDefense) validate(ctx context.Context, id int) error {
	// name
	if err := utils.ValidateUnique[PublicDefense](ctx, "name", input.Name, id); err != nil {
		return err
	}
	return nil
}

func CreatePublicDefense(ctx context.Context, input *NewPublicDefense) (*PublicDefense, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	publicDefense := PublicDefense{
		Name:     input.Name,
		District: input.District,
		Address:  input.Address,
	}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&publicDefense).Error
	if err != nil {
		return nil, err
	}
	return &publicDefense, nil
}

func UpdatePublicDefense(ctx context.Context, id int, input *NewPublicDefense) (*PublicDefense, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	publicDefense, err := utils.FetchModel[PublicDefense](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&publicDefense).Updates(map[string]interface{}{
		"Name":     input.Name,
		"District": input.District,
		"Address":  input.Address,
	}).Error
	if err != nil {
		return nil, err
	}

	return publicDefense, nil
}

func DeletePublicDefense(ctx context.Context, id int) (*PublicDefense, error) {
	result, err := utils.FetchModel[PublicDefense](ctx, id)
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

func GetPublicDefense(ctx context.Context, id int) (*PublicDefense, error) {
	return utils.FetchModel[PublicDefense](ctx, id, "Sectors")
}

func ListPublicDefenses(ctx context.Context, name *string) ([]*PublicDefense, error) {
	db := config.GetDB()
	var results []*PublicDefense

	dbCtx := db.WithContext(ctx).Preload("Sectors")
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	// db query
	err := dbCtx.Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
