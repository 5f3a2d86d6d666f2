package entity

// Estados de aprobación para documentos Purchase y Return.
// pending es el estado inicial; approved y rejected son terminales.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// CanTransition valida la máquina de estados de aprobación:
// PENDING -> APPROVED | REJECTED. Ninguna transición sale de un estado terminal.
func CanTransition(from, to string) bool {
	if from != StatusPending {
		return false
	}
	return to == StatusApproved || to == StatusRejected
}
