package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para Purchase y detalles.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateDetail(detail *entity.PurchaseDetail) error
	GetByID(id string) (*entity.Purchase, error)
	GetDetailsByPurchaseID(purchaseID string) ([]*entity.PurchaseDetail, error)
	List(status string, limit, offset int) ([]*entity.Purchase, error)
	// UpdateStatus es un compare-and-set: solo actualiza si el estado actual es from.
	// Devuelve domain.ErrInvalidTransition si el documento ya no está en from.
	UpdateStatus(id, from, to, actorID string) error
	Delete(id string) error
}
