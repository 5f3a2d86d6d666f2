package entity

import "time"

// Causas de movimiento del kardex. El signo de Quantity es independiente de la causa:
// positivo = entrada, negativo = salida.
const (
	CauseSale               = "SALE"
	CausePurchaseReceipt    = "PURCHASE_RECEIPT"
	CauseReturnFromCustomer = "RETURN_FROM_CUSTOMER"
	CauseReturnToSupplier   = "RETURN_TO_SUPPLIER"
	CauseManualAdd          = "MANUAL_ADD"
	CauseManualRemove       = "MANUAL_REMOVE"
	CauseInitialStock       = "INITIAL_STOCK"
	CauseReversal           = "REVERSAL"
)

// Tipos de documento origen de un movimiento.
const (
	DocTypeInvoice  = "invoice"
	DocTypePurchase = "purchase"
	DocTypeReturn   = "return"
)

// SourceDocument referencia al documento que originó el movimiento (factura, compra o devolución).
type SourceDocument struct {
	Type string // invoice | purchase | return
	ID   string
}

// StockMovement es una entrada del kardex: un cambio firmado de cantidad para un producto.
// Inmutable una vez escrita; las correcciones se hacen con una entrada REVERSAL, nunca
// editando o borrando historial.
type StockMovement struct {
	ID         string
	ProductID  string
	Quantity   int64 // firmado: positivo entrada, negativo salida; nunca cero
	Cause      string
	Source     *SourceDocument // obligatorio para causas con aprobación
	ReversesID string          // si Cause es REVERSAL, el ID del movimiento reversado
	ActorID    string
	Note       string
	Seq        int64 // orden total dentro del producto, asignado por el store
	CreatedAt  time.Time
}

// IsValidCause indica si la causa pertenece al conjunto enumerado.
func IsValidCause(cause string) bool {
	switch cause {
	case CauseSale, CausePurchaseReceipt, CauseReturnFromCustomer, CauseReturnToSupplier,
		CauseManualAdd, CauseManualRemove, CauseInitialStock, CauseReversal:
		return true
	}
	return false
}

// IsApprovalGated indica si la causa exige documento origen y chequeo de efecto duplicado
// (a lo sumo un movimiento por par documento/causa).
func IsApprovalGated(cause string) bool {
	switch cause {
	case CausePurchaseReceipt, CauseReturnFromCustomer, CauseReturnToSupplier:
		return true
	}
	return false
}
