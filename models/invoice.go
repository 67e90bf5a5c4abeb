package models

import (
	"context"
	"errors"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
)

type Invoice struct {
	ID              int             `gorm:"primary_key" json:"id"`
	SupplierId      int             `gorm:"index;not null" json:"supplier_id"`
	Supplier        *Supplier       `json:"supplier,omitempty"`
	PublicDefenseId int             `gorm:"index;not null" json:"public_defense_id"`
	PublicDefense   *PublicDefense  `json:"public_defense,omitempty"`
	Code            string          `gorm:"size:30;index;not null" json:"code" binding:"required"`
	TotalValue      decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"total_value"`
	File            string          `gorm:"size:255" json:"file"`
}

type NewInvoice struct {
	SupplierId      int             `json:"supplier_id" binding:"required"`
	PublicDefenseId int             `json:"public_defense_id" binding:"required"`
	Code            string          `json:"code" binding:"required"`
	TotalValue      decimal.Decimal `json:"total_value"`
}

func (input *NewInvoice) validate(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
		return errors.New("supplier not found")
	}
	if err := utils.ValidateResourceId[PublicDefense](ctx, input.PublicDefenseId); err != nil {
		return errors.New("public defense not found")
	}
	if err := utils.ValidateUnique[Invoice](ctx, "code", input.Code, id); err != nil {
		return err
	}
	return nil
}

func CreateInvoice(ctx context.Context, input *NewInvoice) (*Invoice, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	invoice := Invoice{
		SupplierId:      input.SupplierId,
		PublicDefenseId: input.PublicDefenseId,
		Code:            input.Code,
		TotalValue:      input.TotalValue,
	}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func UpdateInvoice(ctx context.Context, id int, input *NewInvoice) (*Invoice, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	invoice, err := utils.FetchModel[Invoice](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&invoice).Updates(map[string]interface{}{
		"SupplierId":      input.SupplierId,
		"PublicDefenseId": input.PublicDefenseId,
		"Code":            input.Code,
		"TotalValue":      input.TotalValue,
	}).Error
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

func DeleteInvoice(ctx context.Context, id int) (*Invoice, error) {
	result, err := utils.FetchModel[Invoice](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[BiddingExemption](ctx, "invoice_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("invoice has bidding exemptions")
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func GetInvoice(ctx context.Context, id int) (*Invoice, error) {
	return utils.FetchModel[Invoice](ctx, id, "Supplier", "PublicDefense")
}

func ListInvoices(ctx context.Context, supplierId *int, publicDefenseId *int, code *string) ([]*Invoice, error) {
	db := config.GetDB()
	var results []*Invoice

	dbCtx := db.WithContext(ctx).Preload("Supplier").Preload("PublicDefense")
	if supplierId != nil {
		dbCtx = dbCtx.Where("supplier_id = ?", *supplierId)
	}
	if publicDefenseId != nil {
		dbCtx = dbCtx.Where("public_defense_id = ?", *publicDefenseId)
	}
	if code != nil && len(*code) > 0 {
		dbCtx = dbCtx.Where("code LIKE ?", "%"+*code+"%")
	}
	// db query
	err := dbCtx.Order("id DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// AttachInvoiceFile stores the object key of the scanned invoice.
func AttachInvoiceFile(ctx context.Context, id int, file string) (*Invoice, error) {
	invoice, err := utils.FetchModel[Invoice](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&invoice).Update("File", file).Error
	if err != nil {
		return nil, err
	}
	return invoice, nil
}
