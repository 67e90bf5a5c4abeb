package models

import (
	"context"
	"errors"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
)

// DispatchReport documents product leaving the central warehouse for a
// public defense. Written by the fulfillment and bidding exemption commands.
type DispatchReport struct {
	ID              int             `gorm:"primary_key" json:"id"`
	PublicDefenseId int             `gorm:"index;not null" json:"public_defense_id"`
	PublicDefense   *PublicDefense  `json:"public_defense,omitempty"`
	ProductId       int             `gorm:"index;not null" json:"product_id"`
	Product         *Product        `json:"product,omitempty"`
	StockItemId     *int            `gorm:"index" json:"stock_item_id"`
	Quantity        decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"quantity"`
	File            string          `gorm:"size:255" json:"file"`
	Description     string          `gorm:"type:text" json:"description"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewDispatchReport struct {
	PublicDefenseId int             `json:"public_defense_id" binding:"required"`
	ProductId       int             `json:"product_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	Description     string          `json:"description"`
}

// CreateDispatchReport registers a shipment documented on paper only, with
// no ledger movement attached.
func CreateDispatchReport(ctx context.Context, input *NewDispatchReport) (*DispatchReport, error) {
	if err := utils.ValidateResourceId[PublicDefense](ctx, input.PublicDefenseId); err != nil {
		return nil, errors.New("public defense not found")
	}
	if err := utils.ValidateResourceId[Product](ctx, input.ProductId); err != nil {
		return nil, errors.New("product not found")
	}

	report := DispatchReport{
		PublicDefenseId: input.PublicDefenseId,
		ProductId:       input.ProductId,
		Quantity:        input.Quantity,
		Description:     input.Description,
	}

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, err
	}
	return GetDispatchReport(ctx, report.ID)
}

func GetDispatchReport(ctx context.Context, id int) (*DispatchReport, error) {
	return utils.FetchModel[DispatchReport](ctx, id, "PublicDefense", "Product")
}

func ListDispatchReports(ctx context.Context, publicDefenseId *int, productId *int, initialDate *time.Time, finalDate *time.Time) ([]*DispatchReport, error) {
	db := config.GetDB()
	var results []*DispatchReport

	dbCtx := db.WithContext(ctx).Preload("PublicDefense").Preload("Product")
	if publicDefenseId != nil {
		dbCtx = dbCtx.Where("public_defense_id = ?", *publicDefenseId)
	}
	if productId != nil {
		dbCtx = dbCtx.Where("product_id = ?", *productId)
	}
	if initialDate != nil {
		dbCtx = dbCtx.Where("created_at >= ?", *initialDate)
	}
	if finalDate != nil {
		dbCtx = dbCtx.Where("created_at < ?", *finalDate)
	}
	// db query
	err := dbCtx.Order("created_at DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func DeleteDispatchReport(ctx context.Context, id int) (*DispatchReport, error) {
	result, err := utils.FetchModel[DispatchReport](ctx, id)
	if err != nil {
		return nil, err
	}

	if result.File != "" {
		return nil, errors.New("report has a signed document attached")
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AttachDispatchReportFile stores the object key of the signed report scan.
func AttachDispatchReportFile(ctx context.Context, id int, file string) (*DispatchReport, error) {
	report, err := utils.FetchModel[DispatchReport](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&report).Update("File", file).Error
	if err != nil {
		return nil, err
	}
	return report, nil
}
