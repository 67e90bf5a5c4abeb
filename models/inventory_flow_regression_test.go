package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/models"
	"github.com/defensoria/siri-backend/models/reports"
	"github.com/defensoria/siri-backend/utils"
	"github.com/shopspring/decimal"
)

func TestOrderFulfillmentMovesStockAndFlags(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "siri_test")
	t.Setenv("RESTRICTED_DATES", "")

	// Connect deps.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	// Migrate schema (in a fresh DB).
	models.MigrateTable()

	db := config.GetDB()
	if db == nil {
		t.Fatalf("db is nil after ConnectDatabaseWithRetry")
	}

	// 1) Seed the catalog: one public defense with a warehouse sector and an
	// office sector, the central warehouse stock and one sector stock.
	defense, err := models.CreatePublicDefense(ctx, &models.NewPublicDefense{
		Name:     "Defensoria La Plata",
		District: "La Plata",
		Address:  "Calle 13 n. 834",
	})
	fatalIf(t, err, "CreatePublicDefense")

	warehouseSector, err := models.CreateSector(ctx, &models.NewSector{
		Name:            "Almoxarifado",
		PublicDefenseId: defense.ID,
	})
	fatalIf(t, err, "CreateSector warehouse")
	officeSector, err := models.CreateSector(ctx, &models.NewSector{
		Name:            "Civil",
		PublicDefenseId: defense.ID,
	})
	fatalIf(t, err, "CreateSector office")

	warehouseStock, err := models.CreateStock(ctx, &models.NewStock{
		SectorId:           warehouseSector.ID,
		IsCentralWarehouse: true,
	})
	fatalIf(t, err, "CreateStock warehouse")
	sectorStock, err := models.CreateStock(ctx, &models.NewStock{
		SectorId: officeSector.ID,
	})
	fatalIf(t, err, "CreateStock sector")

	category, err := models.CreateCategory(ctx, &models.NewCategory{
		Name:      "Office Supplies",
		Code:      "OS",
		SectorIds: []int{warehouseSector.ID, officeSector.ID},
	})
	fatalIf(t, err, "CreateCategory")
	measure, err := models.CreateMeasure(ctx, &models.NewMeasure{Name: "unit"})
	fatalIf(t, err, "CreateMeasure")
	product, err := models.CreateProduct(ctx, &models.NewProduct{
		CategoryId: category.ID,
		MeasureId:  measure.ID,
		Price:      dec(t, "12.50"),
		Name:       "A4 paper ream",
		Code:       "OS-001",
	})
	fatalIf(t, err, "CreateProduct")

	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{
		Name:        "Papelera Sur",
		CategoryIds: []int{category.ID},
	})
	fatalIf(t, err, "CreateSupplier")

	invoice, err := models.CreateInvoice(ctx, &models.NewInvoice{
		SupplierId:      supplier.ID,
		PublicDefenseId: defense.ID,
		Code:            "INV-2026-01",
		TotalValue:      dec(t, "600.00"),
	})
	fatalIf(t, err, "CreateInvoice")

	sectorClient, err := models.CreateClient(ctx, &models.NewClient{
		Username: "civil.laplata",
		Password: "secret-pw-1",
		Name:     "Civil La Plata",
		StockId:  sectorStock.ID,
	})
	fatalIf(t, err, "CreateClient sector")

	// Freshly created catalog rows are invalidated in redis, so the first
	// read is a cache miss and has to fall through to the database.
	gotCategory, err := models.GetCategory(ctx, category.ID)
	fatalIf(t, err, "GetCategory cache miss")
	if gotCategory == nil || gotCategory.Name != "Office Supplies" {
		t.Fatalf("GetCategory on cache miss = %+v, want the seeded row", gotCategory)
	}
	categories, err := models.ListCategories(ctx)
	fatalIf(t, err, "ListCategories cache miss")
	if len(categories) != 1 || categories[0].Code != "OS" {
		t.Fatalf("ListCategories on cache miss = %+v, want the seeded row", categories)
	}
	gotProduct, err := models.GetProduct(ctx, product.ID)
	fatalIf(t, err, "GetProduct cache miss")
	if gotProduct == nil || gotProduct.Code != "OS-001" {
		t.Fatalf("GetProduct on cache miss = %+v, want the seeded row", gotProduct)
	}
	gotSupplier, err := models.GetSupplier(ctx, supplier.ID)
	fatalIf(t, err, "GetSupplier cache miss")
	if gotSupplier == nil || gotSupplier.Name != "Papelera Sur" {
		t.Fatalf("GetSupplier on cache miss = %+v, want the seeded row", gotSupplier)
	}
	if measures, err := models.ListMeasures(ctx); err != nil || len(measures) != 1 {
		t.Fatalf("ListMeasures on cache miss = %+v, %v, want the seeded row", measures, err)
	}

	// The second read is served from redis: rename the row underneath the
	// cache and the read still sees the cached name.
	gotMeasure, err := models.GetMeasure(ctx, measure.ID)
	fatalIf(t, err, "GetMeasure cache miss")
	if gotMeasure == nil || gotMeasure.Name != "unit" {
		t.Fatalf("GetMeasure on cache miss = %+v, want the seeded row", gotMeasure)
	}
	if err := db.Model(&models.Measure{}).Where("id = ?", measure.ID).
		Update("name", "renamed-under-cache").Error; err != nil {
		t.Fatalf("rename measure under the cache: %v", err)
	}
	cachedMeasure, err := models.GetMeasure(ctx, measure.ID)
	fatalIf(t, err, "GetMeasure cache hit")
	if cachedMeasure == nil || cachedMeasure.Name != "unit" {
		t.Fatalf("GetMeasure after caching = %+v, want the cached name", cachedMeasure)
	}
	if err := db.Model(&models.Measure{}).Where("id = ?", measure.ID).
		Update("name", "unit").Error; err != nil {
		t.Fatalf("restore measure name: %v", err)
	}

	// Requests carry the client's user and stock in context.
	sectorCtx := utils.SetUserIdInContext(ctx, sectorClient.UserId)
	sectorCtx = utils.SetStockIdInContext(sectorCtx, sectorStock.ID)

	// 2) Stock the warehouse with 50 units.
	warehouseItem, err := models.CreateStockItem(ctx, &models.NewStockItem{
		StockId:   warehouseStock.ID,
		ProductId: product.ID,
		Quantity:  dec(t, "50"),
	})
	fatalIf(t, err, "CreateStockItem warehouse")

	// 3) The sector orders 10 + 4 units.
	order, err := models.CreateOrder(sectorCtx, &models.NewOrder{ClientId: sectorClient.ID})
	fatalIf(t, err, "CreateOrder")
	items, err := models.CreateOrderItems(sectorCtx, []*models.NewOrderItem{
		{OrderId: order.ID, ProductId: product.ID, Quantity: dec(t, "10")},
		{OrderId: order.ID, ProductId: product.ID, Quantity: dec(t, "4")},
	})
	fatalIf(t, err, "CreateOrderItems")
	if len(items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(items))
	}

	fresh, err := models.GetOrder(ctx, order.ID)
	fatalIf(t, err, "GetOrder before fulfillment")
	if fresh.IsSent || fresh.Partially || fresh.Completely {
		t.Fatalf("fresh order should carry no fulfillment flags: %+v", fresh)
	}

	// 4) Dispatching more than was asked for is refused and moves nothing.
	_, err = models.FulfillOrderItem(ctx, items[0].ID, &models.FulfillOrderItemInput{
		AddedQuantity: dec(t, "11"),
	})
	if !errors.Is(err, models.ErrQuantityTooBig) {
		t.Fatalf("over-fulfillment error = %v, want ErrQuantityTooBig", err)
	}
	assertStockQuantity(t, ctx, warehouseItem.ID, "50")

	// Fulfill the first line. The order turns partially fulfilled, the
	// warehouse counter drops and the sector ledger gains an entry.
	_, err = models.FulfillOrderItem(ctx, items[0].ID, &models.FulfillOrderItemInput{
		AddedQuantity: dec(t, "10"),
	})
	fatalIf(t, err, "FulfillOrderItem first line")

	partial, err := models.GetOrder(ctx, order.ID)
	fatalIf(t, err, "GetOrder after first fulfillment")
	if !partial.IsSent || !partial.Partially || partial.Completely {
		t.Fatalf("expected sent+partially, got sent=%v partially=%v completely=%v",
			partial.IsSent, partial.Partially, partial.Completely)
	}

	assertStockQuantity(t, ctx, warehouseItem.ID, "40")

	var entry models.StockEntry
	if err := db.Where("order_item_id = ?", items[0].ID).First(&entry).Error; err != nil {
		t.Fatalf("stock entry for fulfilled line: %v", err)
	}
	if !entry.EntryQuantity.Equal(dec(t, "10")) {
		t.Fatalf("entry quantity = %s, want 10", entry.EntryQuantity)
	}

	sectorItems, err := models.ListStockItems(ctx, &sectorStock.ID, &product.ID)
	fatalIf(t, err, "ListStockItems sector")
	if len(sectorItems) != 1 || !sectorItems[0].Quantity.Equal(dec(t, "10")) {
		t.Fatalf("sector balance should derive to 10, got %+v", sectorItems)
	}

	dispatches, err := models.ListDispatchReports(ctx, &defense.ID, &product.ID, nil, nil)
	fatalIf(t, err, "ListDispatchReports")
	if len(dispatches) != 1 || !dispatches[0].Quantity.Equal(dec(t, "10")) {
		t.Fatalf("expected one dispatch report of 10, got %+v", dispatches)
	}

	// 5) Correct the first line down to 8. The entry is rewritten in place
	// and only the difference returns to the warehouse.
	_, err = models.FulfillOrderItem(ctx, items[0].ID, &models.FulfillOrderItemInput{
		AddedQuantity: dec(t, "8"),
	})
	fatalIf(t, err, "FulfillOrderItem correction")

	var entryCount int64
	if err := db.Model(&models.StockEntry{}).
		Where("order_item_id = ?", items[0].ID).Count(&entryCount).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if entryCount != 1 {
		t.Fatalf("correction must rewrite the entry, found %d rows", entryCount)
	}
	assertStockQuantity(t, ctx, warehouseItem.ID, "42")

	// 6) Fulfill the second line in full, then bring the first back to its
	// requested quantity. The order completes.
	_, err = models.FulfillOrderItem(ctx, items[1].ID, &models.FulfillOrderItemInput{
		AddedQuantity: dec(t, "4"),
	})
	fatalIf(t, err, "FulfillOrderItem second line")
	_, err = models.FulfillOrderItem(ctx, items[0].ID, &models.FulfillOrderItemInput{
		AddedQuantity: dec(t, "10"),
	})
	fatalIf(t, err, "FulfillOrderItem restore first line")

	complete, err := models.GetOrder(ctx, order.ID)
	fatalIf(t, err, "GetOrder after completion")
	if !complete.IsSent || complete.Partially || !complete.Completely {
		t.Fatalf("expected sent+completely, got sent=%v partially=%v completely=%v",
			complete.IsSent, complete.Partially, complete.Completely)
	}
	assertStockQuantity(t, ctx, warehouseItem.ID, "36")

	// 7) Protocol allowance: a supplier order item books a withdrawal against
	// the protocol item and the remaining quantity shrinks.
	protocol, err := models.CreateProtocol(ctx, &models.NewProtocol{
		Code:       "PROT-2026-001",
		SupplierId: supplier.ID,
		CategoryId: category.ID,
	})
	fatalIf(t, err, "CreateProtocol")
	protocolItem, err := models.CreateProtocolItem(ctx, &models.NewProtocolItem{
		ProtocolId:       protocol.ID,
		ProductId:        product.ID,
		OriginalQuantity: dec(t, "100"),
	})
	fatalIf(t, err, "CreateProtocolItem")

	supplierOrder, err := models.CreateSupplierOrder(sectorCtx, &models.NewSupplierOrder{
		ClientId:        sectorClient.ID,
		SupplierId:      supplier.ID,
		ProtocolId:      protocol.ID,
		PublicDefenseId: defense.ID,
	})
	fatalIf(t, err, "CreateSupplierOrder")

	line, err := models.CreateSupplierOrderItem(ctx, &models.NewSupplierOrderItem{
		SupplierOrderId: supplierOrder.ID,
		ProductId:       product.ID,
		Quantity:        dec(t, "30"),
	})
	fatalIf(t, err, "CreateSupplierOrderItem")

	refreshed, err := models.GetProtocolItem(ctx, protocolItem.ID)
	fatalIf(t, err, "GetProtocolItem after withdrawal")
	if !refreshed.Quantity.Equal(dec(t, "70")) {
		t.Fatalf("protocol remaining = %s, want 70", refreshed.Quantity)
	}

	var withdrawal models.ProtocolWithdrawal
	if err := db.Where("supplier_order_item_id = ?", line.ID).First(&withdrawal).Error; err != nil {
		t.Fatalf("withdrawal linked to line: %v", err)
	}
	if !withdrawal.WithdrawQuantity.Equal(dec(t, "30")) {
		t.Fatalf("withdrawal quantity = %s, want 30", withdrawal.WithdrawQuantity)
	}

	// The same product cannot appear twice on one supplier order.
	_, err = models.CreateSupplierOrderItem(ctx, &models.NewSupplierOrderItem{
		SupplierOrderId: supplierOrder.ID,
		ProductId:       product.ID,
		Quantity:        dec(t, "1"),
	})
	if !errors.Is(err, models.ErrSupplierOrderItemAlreadyExists) {
		t.Fatalf("duplicate line error = %v, want ErrSupplierOrderItemAlreadyExists", err)
	}

	// A second order against the same protocol cannot exceed the remainder.
	secondOrder, err := models.CreateSupplierOrder(sectorCtx, &models.NewSupplierOrder{
		ClientId:        sectorClient.ID,
		SupplierId:      supplier.ID,
		ProtocolId:      protocol.ID,
		PublicDefenseId: defense.ID,
	})
	fatalIf(t, err, "CreateSupplierOrder second")
	_, err = models.CreateSupplierOrderItem(ctx, &models.NewSupplierOrderItem{
		SupplierOrderId: secondOrder.ID,
		ProductId:       product.ID,
		Quantity:        dec(t, "71"),
	})
	if !errors.Is(err, models.ErrQuantityTooBig) {
		t.Fatalf("over-allowance error = %v, want ErrQuantityTooBig", err)
	}

	// Deleting the line restores the allowance.
	_, err = models.DeleteSupplierOrderItem(ctx, line.ID)
	fatalIf(t, err, "DeleteSupplierOrderItem")
	restored, err := models.GetProtocolItem(ctx, protocolItem.ID)
	fatalIf(t, err, "GetProtocolItem after delete")
	if !restored.Quantity.Equal(dec(t, "100")) {
		t.Fatalf("protocol remaining after delete = %s, want 100", restored.Quantity)
	}

	// 8) Materials order is get-or-create on (supplier, category, range).
	dateRange := models.FormatDateRange(
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	)
	first, existed, err := models.GetOrCreateMaterialsOrder(ctx, supplier.ID, category.ID, dateRange)
	fatalIf(t, err, "GetOrCreateMaterialsOrder first")
	if existed {
		t.Fatalf("first generation should create, not find")
	}
	again, existed, err := models.GetOrCreateMaterialsOrder(ctx, supplier.ID, category.ID, dateRange)
	fatalIf(t, err, "GetOrCreateMaterialsOrder second")
	if !existed || again.ID != first.ID {
		t.Fatalf("second generation should find the same row, got existed=%v id=%d/%d",
			existed, again.ID, first.ID)
	}

	// 9) A bidding exemption for a sector passes through the warehouse: the
	// counter nets to where it started, the paperwork documents both legs and
	// the sector ledger gains the goods.
	_, err = models.CreateBiddingExemption(ctx, &models.NewBiddingExemption{
		ProductId: product.ID,
		InvoiceId: invoice.ID,
		StockId:   sectorStock.ID,
		Quantity:  dec(t, "5"),
	})
	fatalIf(t, err, "CreateBiddingExemption")

	assertStockQuantity(t, ctx, warehouseItem.ID, "36")

	receivings, err := models.ListReceivingReports(ctx, &supplier.ID, &product.ID, nil, nil)
	fatalIf(t, err, "ListReceivingReports")
	if len(receivings) != 1 || !receivings[0].Quantity.Equal(dec(t, "5")) {
		t.Fatalf("expected one receiving report of 5, got %+v", receivings)
	}

	var invoiceEntries int64
	if err := db.Model(&models.StockEntry{}).
		Where("invoice_id = ?", invoice.ID).Count(&invoiceEntries).Error; err != nil {
		t.Fatalf("count invoice entries: %v", err)
	}
	if invoiceEntries != 1 {
		t.Fatalf("expected one invoice-backed entry, got %d", invoiceEntries)
	}

	sectorItems, err = models.ListStockItems(ctx, &sectorStock.ID, &product.ID)
	fatalIf(t, err, "ListStockItems after exemption")
	if len(sectorItems) != 1 || !sectorItems[0].Quantity.Equal(dec(t, "15")) {
		t.Fatalf("sector balance should derive to 15, got %+v", sectorItems)
	}

	// 10) Stock report: without a sector filter the rows aggregate per
	// public defense; with one they break down per sector. Stock a second
	// sector first so the two groupings actually differ.
	penalSector, err := models.CreateSector(ctx, &models.NewSector{
		Name:            "Penal",
		PublicDefenseId: defense.ID,
	})
	fatalIf(t, err, "CreateSector penal")
	penalStock, err := models.CreateStock(ctx, &models.NewStock{SectorId: penalSector.ID})
	fatalIf(t, err, "CreateStock penal")
	_, err = models.CreateBiddingExemption(ctx, &models.NewBiddingExemption{
		ProductId: product.ID,
		InvoiceId: invoice.ID,
		StockId:   penalStock.ID,
		Quantity:  dec(t, "7"),
	})
	fatalIf(t, err, "CreateBiddingExemption penal")

	window := reports.StockReportFilter{
		InitialDate: time.Now().AddDate(0, 0, -1),
		FinalDate:   time.Now().AddDate(0, 0, 1),
	}

	byDefense := window
	rows, err := reports.GetStockReport(ctx, &byDefense)
	fatalIf(t, err, "GetStockReport per defense")
	if len(rows) != 1 || rows[0].Location != "Defensoria La Plata" {
		t.Fatalf("per-defense report = %+v, want one row for the defense", rows)
	}
	if !rows[0].EntryQuantity.Equal(dec(t, "22")) {
		t.Fatalf("per-defense entry quantity = %s, want 22", rows[0].EntryQuantity)
	}

	bySector := window
	bySector.SectorIds = []int{officeSector.ID, penalSector.ID}
	rows, err = reports.GetStockReport(ctx, &bySector)
	fatalIf(t, err, "GetStockReport per sector")
	if len(rows) != 2 {
		t.Fatalf("per-sector report = %+v, want one row per sector", rows)
	}
	if rows[0].Location != "Civil" || !rows[0].EntryQuantity.Equal(dec(t, "15")) {
		t.Fatalf("civil row = %+v, want entry quantity 15", rows[0])
	}
	if rows[1].Location != "Penal" || !rows[1].EntryQuantity.Equal(dec(t, "7")) {
		t.Fatalf("penal row = %+v, want entry quantity 7", rows[1])
	}

	// The product and category filters take id lists.
	byProducts := window
	byProducts.ProductIds = []int{product.ID, product.ID + 1000}
	rows, err = reports.GetStockReport(ctx, &byProducts)
	fatalIf(t, err, "GetStockReport product list")
	if len(rows) != 1 {
		t.Fatalf("product-list report = %+v, want one row", rows)
	}
	byCategories := window
	byCategories.CategoryIds = []int{category.ID + 1000}
	rows, err = reports.GetStockReport(ctx, &byCategories)
	fatalIf(t, err, "GetStockReport category list")
	if len(rows) != 0 {
		t.Fatalf("unmatched category list should filter everything, got %+v", rows)
	}

	// 11) Ordering is refused on restricted dates.
	t.Setenv("RESTRICTED_DATES", time.Now().Format("2006-01-02"))
	_, err = models.CreateOrder(sectorCtx, &models.NewOrder{ClientId: sectorClient.ID})
	if !errors.Is(err, models.ErrRestrictedDate) {
		t.Fatalf("restricted-date order error = %v, want ErrRestrictedDate", err)
	}
	t.Setenv("RESTRICTED_DATES", "")
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func fatalIf(t *testing.T, err error, step string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", step, err)
	}
}

func assertStockQuantity(t *testing.T, ctx context.Context, itemId int, want string) {
	t.Helper()
	item, err := models.GetStockItem(ctx, itemId)
	if err != nil {
		t.Fatalf("GetStockItem %d: %v", itemId, err)
	}
	if !item.Quantity.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("stock item %d quantity = %s, want %s", itemId, item.Quantity, want)
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("siri-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("siri-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=siri_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
