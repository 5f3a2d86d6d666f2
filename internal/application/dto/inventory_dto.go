package dto

import "time"

// AdjustStockRequest ajuste manual de stock. Delta firmado: positivo entra
// (MANUAL_ADD), negativo sale (MANUAL_REMOVE). Siempre protegido por capacidad.
type AdjustStockRequest struct {
	ProductID string `json:"product_id"`
	Delta     int64  `json:"delta"`
	Note      string `json:"note"`
}

// MovementResponse entrada de kardex para respuestas HTTP.
type MovementResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Quantity   int64     `json:"quantity"`
	Cause      string    `json:"cause"`
	DocType    string    `json:"doc_type,omitempty"`
	DocID      string    `json:"doc_id,omitempty"`
	ReversesID string    `json:"reverses_id,omitempty"`
	ActorID    string    `json:"actor_id"`
	Note       string    `json:"note,omitempty"`
	Seq        int64     `json:"seq"`
	CreatedAt  time.Time `json:"created_at"`
}
