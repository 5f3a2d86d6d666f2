package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa una compra a proveedor con flujo PENDING -> APPROVED | REJECTED.
// El efecto de stock (PURCHASE_RECEIPT por línea) se aplica únicamente en la transición
// a APPROVED y nunca se re-emite.
type Purchase struct {
	ID         string
	SupplierID string
	Number     string
	Status     string // StatusPending | StatusApproved | StatusRejected
	Date       time.Time
	Total      decimal.Decimal
	CreatedAt  time.Time
	CreatedBy  string
	ApprovedBy string
	ApprovedAt *time.Time
}

// PurchaseDetail línea de compra.
type PurchaseDetail struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int64
	UnitCost   decimal.Decimal
	Subtotal   decimal.Decimal
}
