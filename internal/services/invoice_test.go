package services

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/billing-manager/internal/models"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Customer{}, &models.Product{}, &models.Stock{}, &models.Invoice{}, &models.InvoiceItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedCustomer(t *testing.T, conn *gorm.DB, name string) models.Customer {
	t.Helper()
	c := models.Customer{Name: name}
	if err := conn.Create(&c).Error; err != nil {
		t.Fatalf("customer: %v", err)
	}
	return c
}

func seedProduct(t *testing.T, conn *gorm.DB, name string, price float64, qty int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Category: "misc", Price: price}
	if err := conn.Create(&p).Error; err != nil {
		t.Fatalf("product: %v", err)
	}
	if err := conn.Create(&models.Stock{ProductID: p.ID, Quantity: qty}).Error; err != nil {
		t.Fatalf("stock: %v", err)
	}
	return p
}

func stockQty(t *testing.T, conn *gorm.DB, productID uint) int {
	t.Helper()
	var s models.Stock
	if err := conn.Where("product_id = ?", productID).First(&s).Error; err != nil {
		t.Fatalf("load stock: %v", err)
	}
	return s.Quantity
}

func TestCreateInvoiceComputesTotalsAndDecrementsStock(t *testing.T) {
	conn := setupServiceTestDB(t)
	customer := seedCustomer(t, conn, "Acme")
	product := seedProduct(t, conn, "Widget", 10, 5)
	svc := NewInvoiceService(conn)

	inv, err := svc.CreateInvoice(customer.ID, []LineItem{{ProductID: product.ID, Quantity: 3}}, "Cash", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.Subtotal != 30 {
		t.Fatalf("subtotal: want 30 got %v", inv.Subtotal)
	}
	if inv.Total != 32 {
		t.Fatalf("total: want 32 got %v", inv.Total)
	}
	if inv.Status != models.StatusUnpaid {
		t.Fatalf("status: want Unpaid got %s", inv.Status)
	}
	if want := fmt.Sprintf("INV-%d", inv.ID); inv.InvoiceNumber != want {
		t.Fatalf("number: want %s got %s", want, inv.InvoiceNumber)
	}
	if got := stockQty(t, conn, product.ID); got != 2 {
		t.Fatalf("stock after create: want 2 got %d", got)
	}
	if len(inv.Items) != 1 || inv.Items[0].Price != 10 || inv.Items[0].Quantity != 3 {
		t.Fatalf("unexpected items: %#v", inv.Items)
	}
	if inv.Customer == nil || inv.Customer.Name != "Acme" {
		t.Fatalf("customer not preloaded: %#v", inv.Customer)
	}
}

func TestCreateInvoicePriceSnapshotSurvivesProductEdit(t *testing.T) {
	conn := setupServiceTestDB(t)
	customer := seedCustomer(t, conn, "Acme")
	product := seedProduct(t, conn, "Widget", 10, 5)
	svc := NewInvoiceService(conn)

	inv, err := svc.CreateInvoice(customer.ID, []LineItem{{ProductID: product.ID, Quantity: 1}}, "Card", 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := conn.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", 99).Error; err != nil {
		t.Fatalf("reprice: %v", err)
	}
	var item models.InvoiceItem
	if err := conn.Where("invoice_id = ?", inv.ID).First(&item).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if item.Price != 10 {
		t.Fatalf("item price snapshot: want 10 got %v", item.Price)
	}
}

func TestCreateInvoiceStockShortage(t *testing.T) {
	conn := setupServiceTestDB(t)
	customer := seedCustomer(t, conn, "Acme")
	product := seedProduct(t, conn, "Widget", 10, 5)
	svc := NewInvoiceService(conn)

	_, err := svc.CreateInvoice(customer.ID, []LineItem{{ProductID: product.ID, Quantity: 10}}, "Cash", 0)
	var shortage *StockShortageError
	if !errors.As(err, &shortage) {
		t.Fatalf("expected StockShortageError got %v", err)
	}
	if shortage.ProductName != "Widget" || shortage.Requested != 10 || shortage.Available != 5 {
		t.Fatalf("unexpected shortage: %#v", shortage)
	}
	if got := stockQty(t, conn, product.ID); got != 5 {
		t.Fatalf("stock must be untouched: want 5 got %d", got)
	}
	var invCount, itemCount int64
	conn.Model(&models.Invoice{}).Count(&invCount)
	conn.Model(&models.InvoiceItem{}).Count(&itemCount)
	if invCount != 0 || itemCount != 0 {
		t.Fatalf("nothing should persist on shortage: invoices=%d items=%d", invCount, itemCount)
	}
}

func TestCreateInvoiceRollsBackEarlierDecrements(t *testing.T) {
	conn := setupServiceTestDB(t)
	customer := seedCustomer(t, conn, "Acme")
	p1 := seedProduct(t, conn, "Widget", 10, 5)
	p2 := seedProduct(t, conn, "Gadget", 4, 1)
	svc := NewInvoiceService(conn)

	// First line succeeds and decrements, second hits the shortage. The first
	// decrement must be undone with everything else.
	_, err := svc.CreateInvoice(customer.ID, []LineItem{
		{ProductID: p1.ID, Quantity: 3},
		{ProductID: p2.ID, Quantity: 5},
	}, "Cash", 0)
	var shortage *StockShortageError
	if !errors.As(err, &shortage) {
		t.Fatalf("expected StockShortageError got %v", err)
	}
	if shortage.ProductID != p2.ID {
		t.Fatalf("shortage should name the second product, got %d", shortage.ProductID)
	}
	if got := stockQty(t, conn, p1.ID); got != 5 {
		t.Fatalf("first product stock not rolled back: want 5 got %d", got)
	}
	if got := stockQty(t, conn, p2.ID); got != 1 {
		t.Fatalf("second product stock: want 1 got %d", got)
	}
	var invCount, itemCount int64
	conn.Model(&models.Invoice{}).Count(&invCount)
	conn.Model(&models.InvoiceItem{}).Count(&itemCount)
	if invCount != 0 || itemCount != 0 {
		t.Fatalf("rollback left rows behind: invoices=%d items=%d", invCount, itemCount)
	}
}

func TestCreateInvoiceUnknownCustomer(t *testing.T) {
	conn := setupServiceTestDB(t)
	product := seedProduct(t, conn, "Widget", 10, 5)
	svc := NewInvoiceService(conn)

	_, err := svc.CreateInvoice(999, []LineItem{{ProductID: product.ID, Quantity: 1}}, "Cash", 0)
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound got %v", err)
	}
	var invCount int64
	conn.Model(&models.Invoice{}).Count(&invCount)
	if invCount != 0 {
		t.Fatalf("no invoice should persist, got %d", invCount)
	}
}

func TestCreateInvoiceUnknownProduct(t *testing.T) {
	conn := setupServiceTestDB(t)
	customer := seedCustomer(t, conn, "Acme")
	svc := NewInvoiceService(conn)

	_, err := svc.CreateInvoice(customer.ID, []LineItem{{ProductID: 999, Quantity: 1}}, "Cash", 0)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound got %v", err)
	}
	var invCount int64
	conn.Model(&models.Invoice{}).Count(&invCount)
	if invCount != 0 {
		t.Fatalf("shell invoice should roll back, got %d", invCount)
	}
}

func TestCreateInvoiceRejectsBadInput(t *testing.T) {
	conn := setupServiceTestDB(t)
	customer := seedCustomer(t, conn, "Acme")
	product := seedProduct(t, conn, "Widget", 10, 5)
	svc := NewInvoiceService(conn)

	if _, err := svc.CreateInvoice(customer.ID, nil, "Cash", 0); !errors.Is(err, ErrNoItems) {
		t.Fatalf("expected ErrNoItems got %v", err)
	}
	if _, err := svc.CreateInvoice(customer.ID, []LineItem{{ProductID: product.ID, Quantity: 0}}, "Cash", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity got %v", err)
	}
	if _, err := svc.CreateInvoice(customer.ID, []LineItem{{ProductID: product.ID, Quantity: -2}}, "Cash", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity got %v", err)
	}
	if got := stockQty(t, conn, product.ID); got != 5 {
		t.Fatalf("stock must be untouched: want 5 got %d", got)
	}
}

func TestInvoiceNumbersAreUnique(t *testing.T) {
	conn := setupServiceTestDB(t)
	customer := seedCustomer(t, conn, "Acme")
	product := seedProduct(t, conn, "Widget", 10, 100)
	svc := NewInvoiceService(conn)

	first, err := svc.CreateInvoice(customer.ID, []LineItem{{ProductID: product.ID, Quantity: 1}}, "Cash", 0)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.CreateInvoice(customer.ID, []LineItem{{ProductID: product.ID, Quantity: 1}}, "Card", 0)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.InvoiceNumber == second.InvoiceNumber {
		t.Fatalf("numbers collide: %s", first.InvoiceNumber)
	}
	if want := fmt.Sprintf("INV-%d", second.ID); second.InvoiceNumber != want {
		t.Fatalf("number: want %s got %s", want, second.InvoiceNumber)
	}
}

func TestMarkPaid(t *testing.T) {
	conn := setupServiceTestDB(t)
	customer := seedCustomer(t, conn, "Acme")
	product := seedProduct(t, conn, "Widget", 10, 5)
	svc := NewInvoiceService(conn)

	inv, err := svc.CreateInvoice(customer.ID, []LineItem{{ProductID: product.ID, Quantity: 1}}, "Cash", 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	paid, err := svc.MarkPaid(inv.ID)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if paid.Status != models.StatusPaid {
		t.Fatalf("status: want Paid got %s", paid.Status)
	}
	// Paying again is a no-op, not an error.
	again, err := svc.MarkPaid(inv.ID)
	if err != nil {
		t.Fatalf("pay again: %v", err)
	}
	if again.Status != models.StatusPaid {
		t.Fatalf("status after repeat: want Paid got %s", again.Status)
	}
	if _, err := svc.MarkPaid(999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound got %v", err)
	}
}
