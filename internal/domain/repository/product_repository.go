package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// UpdateQuantity y GetForUpdate son de uso exclusivo del Applier;
// ningún workflow escribe la cantidad directamente.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando la fila (SELECT FOR UPDATE en postgres).
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateQuantity fija la cantidad cacheada del agregado.
	UpdateQuantity(productID string, quantity int64) error
	List(limit, offset int) ([]*entity.Product, error)
	// ListBelowReorder devuelve productos con cantidad <= punto de reorden.
	ListBelowReorder() ([]*entity.Product, error)
	Delete(id string) error
}
