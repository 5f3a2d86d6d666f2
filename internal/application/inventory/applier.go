package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Applier es el único punto de escritura sobre el kardex y la cantidad cacheada.
// Valida el movimiento propuesto contra la cantidad actual, escribe la entrada del
// ledger y actualiza el agregado de forma atómica, y es idempotente por tripleta
// (documento origen, causa, producto).
type Applier struct {
	locks    *ProductLocks
	txRunner TxRunner
	ledger   repository.LedgerRepository // lectura previa de Reverse y SumFor de Reconcile
	products repository.ProductRepository
}

// NewApplier construye el applier.
func NewApplier(locks *ProductLocks, txRunner TxRunner, ledger repository.LedgerRepository, products repository.ProductRepository) *Applier {
	return &Applier{locks: locks, txRunner: txRunner, ledger: ledger, products: products}
}

// MovementInput movimiento propuesto. Delta firmado y no cero; Source obligatorio si la
// causa tiene aprobación (PURCHASE_RECEIPT, RETURN_FROM_CUSTOMER, RETURN_TO_SUPPLIER).
type MovementInput struct {
	ProductID string
	Delta     int64
	Cause     string
	Source    *entity.SourceDocument
	ActorID   string
	Note      string
}

// Apply valida, serializa por producto y aplica el movimiento: chequeo de efecto
// duplicado, chequeo de no-negatividad, append al kardex y update del agregado en una
// sola transacción. Devuelve el ID del movimiento creado.
//
// La validación go/no-go y la aplicación del delta son la misma operación bajo el lock:
// ningún caller debe decidir con una lectura previa sin lock.
func (a *Applier) Apply(ctx context.Context, in MovementInput) (string, error) {
	if in.Delta == 0 {
		return "", domain.ErrInvalidMovement
	}
	// REVERSAL solo se emite por la vía Reverse, nunca como causa directa.
	if !entity.IsValidCause(in.Cause) || in.Cause == entity.CauseReversal {
		return "", domain.ErrInvalidMovement
	}
	if entity.IsApprovalGated(in.Cause) && in.Source == nil {
		return "", domain.ErrInvalidMovement
	}

	var movementID string
	err := a.locks.WithProduct(in.ProductID, func() error {
		return a.txRunner.Run(ctx, func(
			ledgerRepo repository.LedgerRepository,
			productRepo repository.ProductRepository,
		) error {
			// Exactamente-una-vez por efecto vigente: un documento aprobado no puede
			// volver a emitir la misma causa sobre el mismo producto. Un efecto ya
			// compensado con REVERSAL sí puede reintentarse (aprobación que falló a
			// mitad de camino y fue deshecha).
			if in.Source != nil && entity.IsApprovalGated(in.Cause) {
				existing, err := ledgerRepo.FindByDocument(in.Source.Type, in.Source.ID)
				if err != nil {
					return err
				}
				for _, m := range existing {
					if m.Cause != in.Cause || m.ProductID != in.ProductID {
						continue
					}
					reversal, err := ledgerRepo.FindReversalOf(m.ID)
					if err != nil {
						return err
					}
					if reversal == nil {
						return domain.ErrDuplicateEffect
					}
				}
			}

			product, err := productRepo.GetForUpdate(in.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			newQty := product.Quantity + in.Delta
			if newQty < 0 {
				return domain.ErrInsufficientStock
			}

			mov := &entity.StockMovement{
				ProductID: in.ProductID,
				Quantity:  in.Delta,
				Cause:     in.Cause,
				Source:    in.Source,
				ActorID:   in.ActorID,
				Note:      in.Note,
				CreatedAt: time.Now(),
			}
			if err := ledgerRepo.Append(mov); err != nil {
				return err
			}
			if err := productRepo.UpdateQuantity(in.ProductID, newQty); err != nil {
				return err
			}
			movementID = mov.ID
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return movementID, nil
}

// Reverse anexa un movimiento REVERSAL con la cantidad opuesta al original, ligado al
// mismo documento origen. Un movimiento no puede reversarse dos veces
// (domain.ErrAlreadyReversed) y un REVERSAL no se reversa.
func (a *Applier) Reverse(ctx context.Context, movementID, actorID string) (string, error) {
	original, err := a.ledger.GetByID(movementID)
	if err != nil {
		return "", err
	}
	if original == nil {
		return "", domain.ErrNotFound
	}
	if original.Cause == entity.CauseReversal {
		return "", domain.ErrInvalidMovement
	}

	var reversalID string
	err = a.locks.WithProduct(original.ProductID, func() error {
		return a.txRunner.Run(ctx, func(
			ledgerRepo repository.LedgerRepository,
			productRepo repository.ProductRepository,
		) error {
			// Chequeo de duplicado bajo el lock: la lectura previa fue sin lock.
			existing, err := ledgerRepo.FindReversalOf(movementID)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.ErrAlreadyReversed
			}

			product, err := productRepo.GetForUpdate(original.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			newQty := product.Quantity - original.Quantity
			if newQty < 0 {
				// Reversar una entrada puede dejar negativo si el stock ya se vendió.
				return domain.ErrInsufficientStock
			}

			mov := &entity.StockMovement{
				ProductID:  original.ProductID,
				Quantity:   -original.Quantity,
				Cause:      entity.CauseReversal,
				Source:     original.Source,
				ReversesID: movementID,
				ActorID:    actorID,
				CreatedAt:  time.Now(),
			}
			if err := ledgerRepo.Append(mov); err != nil {
				return err
			}
			if err := productRepo.UpdateQuantity(original.ProductID, newQty); err != nil {
				return err
			}
			reversalID = mov.ID
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return reversalID, nil
}
