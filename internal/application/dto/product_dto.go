package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto. InitialQuantity > 0 genera un movimiento
// INITIAL_STOCK a través del Applier para que el kardex arranque cuadrado.
type CreateProductRequest struct {
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Unit            string          `json:"unit"`
	ReorderLevel    int64           `json:"reorder_level"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	InitialQuantity int64           `json:"initial_quantity"`
}

// UpdateProductRequest edición de producto. La cantidad no se edita por aquí:
// el stock solo cambia vía movimientos de kardex.
type UpdateProductRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	ReorderLevel int64           `json:"reorder_level"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
}

// ProductResponse producto para respuestas HTTP.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Unit         string          `json:"unit"`
	Quantity     int64           `json:"quantity"`
	ReorderLevel int64           `json:"reorder_level"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	BelowReorder bool            `json:"below_reorder"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
