package models

import (
	"log"

	"github.com/defensoria/siri-backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&PublicDefense{}, &Sector{}, &Stock{},
		&Category{}, &Measure{}, &Product{},
		&Supplier{}, &Protocol{}, &ProtocolItem{}, &ProtocolWithdrawal{},
		&Invoice{}, &BiddingExemption{},
		&StockItem{}, &StockEntry{}, &StockWithdrawal{},
		&User{}, &Client{},
		&Order{}, &OrderItem{},
		&SupplierOrder{}, &SupplierOrderItem{},
		&ReceivingReport{}, &DispatchReport{},
		&CategoryBalance{}, &AccountantReport{}, &MaterialsOrder{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
