package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// LedgerRepository define el puerto de persistencia del kardex (DIP).
// El ledger es append-only: los movimientos nunca se actualizan ni se borran físicamente.
type LedgerRepository interface {
	// Append persiste un movimiento nuevo y asigna ID y Seq.
	// Falla con domain.ErrInvalidMovement si Quantity es cero.
	Append(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// SumFor devuelve la suma firmada de todos los movimientos del producto;
	// es la fuente de verdad para la reconciliación, independiente de la cantidad cacheada.
	SumFor(productID string) (int64, error)
	// FindByDocument devuelve los movimientos ligados a un documento origen.
	FindByDocument(docType, docID string) ([]*entity.StockMovement, error)
	// FindReversalOf devuelve el REVERSAL que apunta al movimiento dado, o nil si no existe.
	FindReversalOf(movementID string) (*entity.StockMovement, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
	// ListProductIDs devuelve los productos con al menos un movimiento (para el auditor).
	ListProductIDs() ([]string, error)
}
