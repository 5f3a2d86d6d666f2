package ports

import "time"

// AuditSink es el puerto hacia el registro de actividad. Es observacional: se emite un
// registro por operación de negocio exitosa (factura creada, compra aprobada, ...), no
// uno por movimiento interno del kardex, y nunca participa en la corrección de stock.
type AuditSink interface {
	Record(actorID, action, entityType, entityID string, at time.Time)
}
