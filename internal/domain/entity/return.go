package entity

import "time"

// Return representa una devolución con flujo PENDING -> APPROVED | REJECTED.
// Referencia exactamente uno: InvoiceID (el cliente devuelve mercancía, el stock sube con
// RETURN_FROM_CUSTOMER) o PurchaseID (se devuelve al proveedor, el stock baja con
// RETURN_TO_SUPPLIER). La regla de exactamente-una-referencia se valida al crear.
type Return struct {
	ID         string
	InvoiceID  string // exclusivo con PurchaseID
	PurchaseID string // exclusivo con InvoiceID
	ProductID  string
	Quantity   int64 // siempre positivo; la dirección la da la referencia
	Reason     string
	Status     string // StatusPending | StatusApproved | StatusRejected
	CreatedAt  time.Time
	CreatedBy  string
	ApprovedBy string
	ApprovedAt *time.Time
}

// FromCustomer indica si la devolución referencia una factura (entra stock).
func (r *Return) FromCustomer() bool {
	return r.InvoiceID != ""
}
