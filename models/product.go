package models

import (
	"context"
	"errors"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int             `gorm:"primary_key" json:"id"`
	CategoryId  int             `gorm:"index;not null" json:"category_id"`
	Category    *Category       `json:"category,omitempty"`
	MeasureId   int             `gorm:"index;not null" json:"measure_id"`
	Measure     *Measure        `json:"measure,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"price"`
	Name        string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Description string          `gorm:"type:text" json:"description"`
	Code        string          `gorm:"size:20;index;not null" json:"code"`
	IsAvailable *bool           `gorm:"not null;default:true" json:"is_available"`
}

type NewProduct struct {
	CategoryId  int             `json:"category_id" binding:"required"`
	MeasureId   int             `json:"measure_id" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Code        string          `json:"code" binding:"required"`
	IsAvailable *bool           `json:"is_available"`
}

func (input *NewProduct) validate(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[Category](ctx, input.CategoryId); err != nil {
		return errors.New("category not found")
	}
	if err := utils.ValidateResourceId[Measure](ctx, input.MeasureId); err != nil {
		return errors.New("measure not found")
	}
	if err := utils.ValidateUnique[Product](ctx, "code", input.Code, id); err != nil {
		return err
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	isAvailable := input.IsAvailable
	if isAvailable == nil {
		isAvailable = utils.NewTrue()
	}

	product := Product{
		CategoryId:  input.CategoryId,
		MeasureId:   input.MeasureId,
		Price:       input.Price,
		Name:        input.Name,
		Description: input.Description,
		Code:        input.Code,
		IsAvailable: isAvailable,
	}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&product).Error
	if err != nil {
		return nil, err
	}

	utils.RemoveRedisList[Product]()
	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	isAvailable := input.IsAvailable
	if isAvailable == nil {
		isAvailable = product.IsAvailable
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&product).Updates(map[string]interface{}{
		"CategoryId":  input.CategoryId,
		"MeasureId":   input.MeasureId,
		"Price":       input.Price,
		"Name":        input.Name,
		"Description": input.Description,
		"Code":        input.Code,
		"IsAvailable": isAvailable,
	}).Error
	if err != nil {
		return nil, err
	}

	utils.RemoveRedisItem[Product](product.ID)
	utils.RemoveRedisList[Product]()
	return product, nil
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {
	result, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[StockItem](ctx, "product_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("product has stock items")
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}

	utils.RemoveRedisItem[Product](result.ID)
	utils.RemoveRedisList[Product]()
	return result, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	// first try redis cache
	cached, err := utils.RetrieveRedis[Product](id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	product, err := utils.FetchModel[Product](ctx, id, "Category", "Measure")
	if err != nil {
		return nil, err
	}
	// caching the result
	if err := utils.StoreRedis[Product](product, id); err != nil {
		return nil, err
	}
	return product, nil
}

func ListProducts(ctx context.Context, categoryIds []int, name *string) ([]*Product, error) {
	db := config.GetDB()
	var results []*Product

	dbCtx := db.WithContext(ctx).Preload("Category").Preload("Measure")
	if len(categoryIds) > 0 {
		dbCtx = dbCtx.Where("category_id IN ?", categoryIds)
	}
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	// db query
	err := dbCtx.Order("code").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
