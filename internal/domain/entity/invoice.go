package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice representa la cabecera de una factura de venta.
// Una factura es final al crearse: no tiene flujo de aprobación. Su efecto de stock
// (un movimiento SALE por línea) se aplica durante la creación y se reversa al borrarla.
type Invoice struct {
	ID         string
	CustomerID string
	Number     string
	Date       time.Time
	NetTotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
	CreatedAt  time.Time
	CreatedBy  string
}

// InvoiceDetail línea de factura.
type InvoiceDetail struct {
	ID        string
	InvoiceID string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
