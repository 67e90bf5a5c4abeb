package models

import (
	"context"
	"errors"
	"strings"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
)

type Supplier struct {
	ID         int        `gorm:"primary_key" json:"id"`
	Name       string     `gorm:"size:100;not null" json:"name" binding:"required"`
	Agent      string     `gorm:"size:100" json:"agent"`
	Address    string     `gorm:"type:text" json:"address"`
	Email      string     `gorm:"size:100" json:"email"`
	Phone      string     `gorm:"size:20" json:"phone"`
	Ein        string     `gorm:"size:30" json:"ein"`
	Ssn        string     `gorm:"size:30" json:"ssn"`
	Nic        string     `gorm:"size:30" json:"nic"`
	Categories []Category `gorm:"many2many:supplier_categories" json:"categories,omitempty"`
}

type NewSupplier struct {
	Name        string `json:"name" binding:"required"`
	Agent       string `json:"agent"`
	Address     string `json:"address"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Ein         string `json:"ein"`
	Ssn         string `json:"ssn"`
	Nic         string `json:"nic"`
	CategoryIds []int  `json:"category_ids"`
}

func (input *NewSupplier) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Supplier](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if len(strings.TrimSpace(input.Email)) > 0 {
		if !utils.IsValidEmail(input.Email) {
			return errors.New("invalid email")
		}
	}
	if len(strings.TrimSpace(input.Phone)) > 0 {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourcesId[Category](ctx, input.CategoryIds); err != nil {
		return err
	}
	return nil
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	supplier := Supplier{
		Name:    input.Name,
		Agent:   input.Agent,
		Address: input.Address,
		Email:   input.Email,
		Phone:   input.Phone,
		Ein:     input.Ein,
		Ssn:     input.Ssn,
		Nic:     input.Nic,
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Create(&supplier).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(input.CategoryIds) > 0 {
		var categories []Category
		if err := tx.Find(&categories, input.CategoryIds).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.Model(&supplier).Association("Categories").Append(&categories); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	utils.RemoveRedisList[Supplier]()
	return &supplier, nil
}

func UpdateSupplier(ctx context.Context, id int, input *NewSupplier) (*Supplier, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	supplier, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Model(&supplier).Updates(map[string]interface{}{
		"Name":    input.Name,
		"Agent":   input.Agent,
		"Address": input.Address,
		"Email":   input.Email,
		"Phone":   input.Phone,
		"Ein":     input.Ein,
		"Ssn":     input.Ssn,
		"Nic":     input.Nic,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	var categories []Category
	if len(input.CategoryIds) > 0 {
		if err := tx.Find(&categories, input.CategoryIds).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Model(&supplier).Association("Categories").Replace(&categories); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	utils.RemoveRedisItem[Supplier](supplier.ID)
	utils.RemoveRedisList[Supplier]()
	return supplier, nil
}

// DeleteSupplier refuses to remove a supplier that still backs protocols or
// supplier orders.
func DeleteSupplier(ctx context.Context, id int) (*Supplier, error) {
	result, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Protocol](ctx, "supplier_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		count, err = utils.ResourceCountWhere[SupplierOrder](ctx, "supplier_id = ?", id)
		if err != nil {
			return nil, err
		}
	}
	if count > 0 {
		return nil, ErrSupplierCannotBeDestroyed
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Select("Categories").Delete(&result).Error
	if err != nil {
		return nil, err
	}

	utils.RemoveRedisItem[Supplier](result.ID)
	utils.RemoveRedisList[Supplier]()
	return result, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	// first try redis cache
	cached, err := utils.RetrieveRedis[Supplier](id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	supplier, err := utils.FetchModel[Supplier](ctx, id, "Categories")
	if err != nil {
		return nil, err
	}
	// caching the result
	if err := utils.StoreRedis[Supplier](supplier, id); err != nil {
		return nil, err
	}
	return supplier, nil
}

func ListSuppliers(ctx context.Context, name *string, categoryId *int) ([]*Supplier, error) {
	db := config.GetDB()
	var results []*Supplier

	dbCtx := db.WithContext(ctx).Preload("Categories")
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if categoryId != nil {
		dbCtx = dbCtx.
			Joins("JOIN supplier_categories sc ON sc.supplier_id = suppliers.id").
			Where("sc.category_id = ?", *categoryId)
	}
	// db query
	err := dbCtx.Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
