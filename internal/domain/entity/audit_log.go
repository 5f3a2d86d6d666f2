package entity

import "time"

// AuditLog registro observacional de una operación de negocio exitosa.
// Es independiente del kardex: el ledger es el que manda sobre las cantidades,
// el audit log nunca participa en la corrección.
type AuditLog struct {
	ID         string
	ActorID    string
	Action     string // invoice_created, purchase_approved, stock_adjusted, ...
	EntityType string // invoice, purchase, return, product, movement
	EntityID   string
	CreatedAt  time.Time
}
