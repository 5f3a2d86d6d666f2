package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest línea de factura a crear.
type InvoiceItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"` // cero = usar precio de venta del producto
}

// CreateInvoiceRequest creación de factura de venta.
type CreateInvoiceRequest struct {
	CustomerID string               `json:"customer_id"`
	Number     string               `json:"number"`
	Items      []InvoiceItemRequest `json:"items"`
}

// InvoiceResponse factura para respuestas HTTP.
type InvoiceResponse struct {
	ID         string                `json:"id"`
	CustomerID string                `json:"customer_id"`
	Number     string                `json:"number"`
	Date       time.Time             `json:"date"`
	NetTotal   decimal.Decimal       `json:"net_total"`
	TaxTotal   decimal.Decimal       `json:"tax_total"`
	GrandTotal decimal.Decimal       `json:"grand_total"`
	Items      []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
}

// InvoiceItemResponse línea de factura en respuestas.
type InvoiceItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseItemRequest línea de compra a crear.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseRequest creación de compra (queda PENDING, sin efecto de stock).
type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id"`
	Number     string                `json:"number"`
	Items      []PurchaseItemRequest `json:"items"`
}

// PurchaseResponse compra para respuestas HTTP.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	SupplierID string                 `json:"supplier_id"`
	Number     string                 `json:"number"`
	Status     string                 `json:"status"`
	Date       time.Time              `json:"date"`
	Total      decimal.Decimal        `json:"total"`
	Items      []PurchaseItemResponse `json:"items,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// PurchaseItemResponse línea de compra en respuestas.
type PurchaseItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CreateReturnRequest creación de devolución. Exactamente una referencia:
// invoice_id (devolución de cliente) o purchase_id (devolución a proveedor).
type CreateReturnRequest struct {
	InvoiceID  string `json:"invoice_id"`
	PurchaseID string `json:"purchase_id"`
	ProductID  string `json:"product_id"`
	Quantity   int64  `json:"quantity"`
	Reason     string `json:"reason"`
}

// ReturnResponse devolución para respuestas HTTP.
type ReturnResponse struct {
	ID         string    `json:"id"`
	InvoiceID  string    `json:"invoice_id,omitempty"`
	PurchaseID string    `json:"purchase_id,omitempty"`
	ProductID  string    `json:"product_id"`
	Quantity   int64     `json:"quantity"`
	Reason     string    `json:"reason,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// TransitionRequest cuerpo para aprobar o rechazar un documento.
type TransitionRequest struct {
	ToState string `json:"to_state"` // APPROVED | REJECTED
}
