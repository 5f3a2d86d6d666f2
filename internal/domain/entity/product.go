package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// Quantity es la cantidad cacheada (agregado); solo el Applier la muta y debe
// coincidir siempre con la suma firmada de sus movimientos en el kardex.
type Product struct {
	ID           string
	SKU          string // código único
	Name         string
	Description  string
	Unit         string // unidad de medida (und, kg, lt, ...)
	Quantity     int64  // invariante: >= 0
	ReorderLevel int64
	SellingPrice decimal.Decimal
	CostPrice    decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelowReorder indica si el producto está en o por debajo del punto de reorden.
func (p *Product) BelowReorder() bool {
	return p.Quantity <= p.ReorderLevel
}
