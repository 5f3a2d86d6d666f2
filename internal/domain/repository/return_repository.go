package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// ReturnRepository define el puerto de persistencia para Return.
type ReturnRepository interface {
	Create(ret *entity.Return) error
	GetByID(id string) (*entity.Return, error)
	List(status string, limit, offset int) ([]*entity.Return, error)
	// UpdateStatus es un compare-and-set: solo actualiza si el estado actual es from.
	// Devuelve domain.ErrInvalidTransition si el documento ya no está en from.
	UpdateStatus(id, from, to, actorID string) error
	Delete(id string) error
}
