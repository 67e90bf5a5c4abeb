package models

import (
	"context"
	"errors"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
)

// Protocol is a supply agreement with a supplier for one category of
// products. Its items cap how much can be withdrawn against it.
type Protocol struct {
	ID         int        `gorm:"primary_key" json:"id"`
	Code       string     `gorm:"size:30;index;not null" json:"code" binding:"required"`
	SupplierId int        `gorm:"index;not null" json:"supplier_id"`
	Supplier   *Supplier  `json:"supplier,omitempty"`
	CategoryId int        `gorm:"index;not null" json:"category_id"`
	Category   *Category  `json:"category,omitempty"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	File       string     `gorm:"size:255" json:"file"`
}

type NewProtocol struct {
	Code       string  `json:"code" binding:"required"`
	SupplierId int     `json:"supplier_id" binding:"required"`
	CategoryId int     `json:"category_id" binding:"required"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
}

func (input *NewProtocol) validate(ctx context.Context, id int) (*time.Time, *time.Time, error) {
	if err := utils.ValidateUnique[Protocol](ctx, "code", input.Code, id); err != nil {
		return nil, nil, err
	}
	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
		return nil, nil, errors.New("supplier not found")
	}
	if err := utils.ValidateResourceId[Category](ctx, input.CategoryId); err != nil {
		return nil, nil, errors.New("category not found")
	}
	var startDate, endDate *time.Time
	if input.StartDate != nil && *input.StartDate != "" {
		d, err := utils.ParseDate(*input.StartDate)
		if err != nil {
			return nil, nil, err
		}
		startDate = &d
	}
	if input.EndDate != nil && *input.EndDate != "" {
		d, err := utils.ParseDate(*input.EndDate)
		if err != nil {
			return nil, nil, err
		}
		endDate = &d
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, nil, errors.New("end date before start date")
	}
	return startDate, endDate, nil
}

func CreateProtocol(ctx context.Context, input *NewProtocol) (*Protocol, error) {
	startDate, endDate, err := input.validate(ctx, 0)
	if err != nil {
		return nil, err
	}

	protocol := Protocol{
		Code:       input.Code,
		SupplierId: input.SupplierId,
		CategoryId: input.CategoryId,
		StartDate:  startDate,
		EndDate:    endDate,
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Create(&protocol).Error
	if err != nil {
		return nil, err
	}
	return &protocol, nil
}

func UpdateProtocol(ctx context.Context, id int, input *NewProtocol) (*Protocol, error) {
	startDate, endDate, err := input.validate(ctx, id)
	if err != nil {
		return nil, err
	}

	protocol, err := utils.FetchModel[Protocol](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&protocol).Updates(map[string]interface{}{
		"Code":       input.Code,
		"SupplierId": input.SupplierId,
		"CategoryId": input.CategoryId,
		"StartDate":  startDate,
		"EndDate":    endDate,
	}).Error
	if err != nil {
		return nil, err
	}

	return protocol, nil
}

func DeleteProtocol(ctx context.Context, id int) (*Protocol, error) {
	result, err := utils.FetchModel[Protocol](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[ProtocolItem](ctx, "protocol_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("protocol has items")
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func GetProtocol(ctx context.Context, id int) (*Protocol, error) {
	return utils.FetchModel[Protocol](ctx, id, "Supplier", "Category")
}

func ListProtocols(ctx context.Context, supplierId *int, categoryId *int, code *string) ([]*Protocol, error) {
	db := config.GetDB()
	var results []*Protocol

	dbCtx := db.WithContext(ctx).Preload("Supplier").Preload("Category")
	if supplierId != nil {
		dbCtx = dbCtx.Where("supplier_id = ?", *supplierId)
	}
	if categoryId != nil {
		dbCtx = dbCtx.Where("category_id = ?", *categoryId)
	}
	if code != nil && len(*code) > 0 {
		dbCtx = dbCtx.Where("code LIKE ?", "%"+*code+"%")
	}
	// db query
	err := dbCtx.Order("code").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ListProtocolsExpiringBy returns protocols whose end date falls on or
// before the given deadline. Used by the expiry notifier.
func ListProtocolsExpiringBy(ctx context.Context, deadline time.Time) ([]*Protocol, error) {
	db := config.GetDB()
	var results []*Protocol
	err := db.WithContext(ctx).
		Where("end_date IS NOT NULL AND end_date <= ?", deadline).
		Order("end_date").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// AttachProtocolFile stores the object key of the scanned protocol document.
func AttachProtocolFile(ctx context.Context, id int, file string) (*Protocol, error) {
	protocol, err := utils.FetchModel[Protocol](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&protocol).Update("File", file).Error
	if err != nil {
		return nil, err
	}
	return protocol, nil
}
