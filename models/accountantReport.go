package models

import (
	"context"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryBalance stores one category's month-end balance so the accountant
// report can carry balances forward without rescanning the whole ledger.
type CategoryBalance struct {
	ID         int             `gorm:"primary_key" json:"id"`
	CategoryId int             `gorm:"index:idx_category_month,unique;not null" json:"category_id"`
	Category   *Category       `json:"category,omitempty"`
	Date       time.Time       `gorm:"index:idx_category_month,unique;not null" json:"date"`
	Balance    decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"balance"`
}

// AccountantReport stores the uploaded signed report for a month.
type AccountantReport struct {
	ID    int    `gorm:"primary_key" json:"id"`
	Month string `gorm:"size:7;uniqueIndex;not null" json:"month"`
	File  string `gorm:"size:255" json:"file"`
}

// UpsertCategoryBalance writes the month's balance for a category, keyed on
// (category, first of month).
func UpsertCategoryBalance(ctx context.Context, categoryId int, monthStart time.Time, balance decimal.Decimal) error {
	db := config.GetDB()
	var existing CategoryBalance
	err := db.WithContext(ctx).
		Where("category_id = ? AND date = ?", categoryId, monthStart).
		First(&existing).Error
	if err == nil {
		return db.WithContext(ctx).Model(&existing).Update("Balance", balance).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	row := CategoryBalance{CategoryId: categoryId, Date: monthStart, Balance: balance}
	return db.WithContext(ctx).Create(&row).Error
}

// SumCategoryBalancesBefore totals every stored balance older than the given
// month start, the carried-forward opening balance.
func SumCategoryBalancesBefore(ctx context.Context, monthStart time.Time) (decimal.Decimal, error) {
	db := config.GetDB()
	var total decimal.NullDecimal
	err := db.WithContext(ctx).Model(&CategoryBalance{}).
		Where("date < ?", monthStart).
		Select("SUM(balance)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// SaveAccountantReportFile records the uploaded signed report for a month.
func SaveAccountantReportFile(ctx context.Context, month string, file string) (*AccountantReport, error) {
	db := config.GetDB()
	var report AccountantReport
	err := db.WithContext(ctx).Where("month = ?", month).First(&report).Error
	if err == nil {
		if err := db.WithContext(ctx).Model(&report).Update("File", file).Error; err != nil {
			return nil, err
		}
		return &report, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	report = AccountantReport{Month: month, File: file}
	if err := db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func GetAccountantReportFile(ctx context.Context, month string) (*AccountantReport, error) {
	db := config.GetDB()
	var report AccountantReport
	err := db.WithContext(ctx).Where("month = ?", month).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func ListCategoryBalances(ctx context.Context, categoryId *int) ([]*CategoryBalance, error) {
	db := config.GetDB()
	var results []*CategoryBalance

	dbCtx := db.WithContext(ctx).Preload("Category")
	if categoryId != nil {
		dbCtx = dbCtx.Where("category_id = ?", *categoryId)
	}
	err := dbCtx.Order("date DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
