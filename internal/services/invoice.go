package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/diewo77/billing-manager/internal/models"
)

// LineItem is one (product, quantity) pair of an invoice creation request.
type LineItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrNoItems          = errors.New("invoice needs at least one line item")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
)

// StockShortageError reports the first product whose stock cannot cover the
// requested quantity. Creation stops at the first shortage; later items are
// not examined.
type StockShortageError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

// InvoiceService owns invoice creation and the payment transition.
type InvoiceService struct {
	DB *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService { return &InvoiceService{DB: db} }

// CreateInvoice validates stock, computes totals, persists the invoice with
// its items and decrements stock, all inside one transaction. On any failure
// the store keeps its prior state: the shell invoice, already inserted items
// and already applied stock decrements roll back together.
func (s *InvoiceService) CreateInvoice(customerID uint, items []LineItem, paymentMethod string, tax float64) (*models.Invoice, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	var inv models.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}
		// Shell first: the invoice number derives from the id the insert yields.
		inv = models.Invoice{CustomerID: customer.ID, PaymentMethod: paymentMethod, Tax: tax, Status: models.StatusUnpaid}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		var subtotal float64
		for _, it := range items {
			var product models.Product
			if err := tx.First(&product, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}
			var stock models.Stock
			if err := tx.Where("product_id = ?", product.ID).First(&stock).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}
			if stock.Quantity < it.Quantity {
				return &StockShortageError{ProductID: product.ID, ProductName: product.Name, Requested: it.Quantity, Available: stock.Quantity}
			}
			item := models.InvoiceItem{InvoiceID: inv.ID, ProductID: product.ID, Quantity: it.Quantity, Price: product.Price}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			stock.Quantity -= it.Quantity
			if err := tx.Model(&models.Stock{}).Where("id = ?", stock.ID).Update("quantity", stock.Quantity).Error; err != nil {
				return err
			}
			subtotal += product.Price * float64(it.Quantity)
		}
		inv.Subtotal = subtotal
		inv.Total = subtotal + tax
		inv.InvoiceNumber = fmt.Sprintf("INV-%d", inv.ID)
		return tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).Updates(map[string]any{
			"subtotal":       inv.Subtotal,
			"total":          inv.Total,
			"invoice_number": inv.InvoiceNumber,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	if err := s.DB.Preload("Items.Product").Preload("Customer").First(&inv, inv.ID).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// MarkPaid moves an invoice to Paid. Calling it again on a paid invoice is a
// no-op; unknown ids return gorm.ErrRecordNotFound.
func (s *InvoiceService) MarkPaid(id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.DB.First(&inv, id).Error; err != nil {
		return nil, err
	}
	if inv.Status == models.StatusPaid {
		return &inv, nil
	}
	if err := s.DB.Model(&inv).Update("status", models.StatusPaid).Error; err != nil {
		return nil, err
	}
	inv.Status = models.StatusPaid
	return &inv, nil
}
