// stock-rebuild recomputes the cached quantity of every sector stock item
// and protocol item from the underlying entry and withdrawal rows. Run it
// after a manual fix to the ledger tables.
//
// Warehouse items are skipped: the warehouse balance is a running counter,
// not a ledger derivation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/models"
)

func main() {
	stockID := flag.Int("stock-id", 0, "Optional: limit to one stock")
	protocolID := flag.Int("protocol-id", 0, "Optional: limit to one protocol")
	continueOnError := flag.Bool("continue-on-error", false, "Skip failing items and continue")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	var stockItems []*models.StockItem
	itemQuery := db.WithContext(ctx).Model(&models.StockItem{})
	if *stockID > 0 {
		itemQuery = itemQuery.Where("stock_id = ?", *stockID)
	}
	if err := itemQuery.Find(&stockItems).Error; err != nil {
		fmt.Fprintf(os.Stderr, "list stock items: %v\n", err)
		os.Exit(1)
	}

	rebuilt := 0
	for _, item := range stockItems {
		if err := models.RefreshStockItemQuantity(ctx, item); err != nil {
			if *continueOnError {
				fmt.Fprintf(os.Stderr, "stock item %d failed (skipping): %v\n", item.ID, err)
				continue
			}
			fmt.Fprintf(os.Stderr, "stock item %d failed: %v\n", item.ID, err)
			os.Exit(1)
		}
		rebuilt++
	}
	fmt.Printf("Rebuilt %d of %d stock items\n", rebuilt, len(stockItems))

	var protocolItems []*models.ProtocolItem
	protocolQuery := db.WithContext(ctx).Model(&models.ProtocolItem{})
	if *protocolID > 0 {
		protocolQuery = protocolQuery.Where("protocol_id = ?", *protocolID)
	}
	if err := protocolQuery.Find(&protocolItems).Error; err != nil {
		fmt.Fprintf(os.Stderr, "list protocol items: %v\n", err)
		os.Exit(1)
	}

	rebuilt = 0
	for _, item := range protocolItems {
		if err := models.RefreshProtocolItemQuantity(ctx, item); err != nil {
			if *continueOnError {
				fmt.Fprintf(os.Stderr, "protocol item %d failed (skipping): %v\n", item.ID, err)
				continue
			}
			fmt.Fprintf(os.Stderr, "protocol item %d failed: %v\n", item.ID, err)
			os.Exit(1)
		}
		rebuilt++
	}
	fmt.Printf("Rebuilt %d of %d protocol items\n", rebuilt, len(protocolItems))
}
