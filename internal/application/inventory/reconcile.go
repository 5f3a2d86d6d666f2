package inventory

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain"
)

// Reconciliation resultado del chequeo ledger vs agregado para un producto.
// Si el contrato del Applier se respeta, OK es siempre true; esta función existe para
// detectar violaciones del contrato en tests y monitoreo, no para corregir deriva.
type Reconciliation struct {
	ProductID      string `json:"product_id"`
	OK             bool   `json:"ok"`
	LedgerSum      int64  `json:"ledger_sum"`
	CachedQuantity int64  `json:"cached_quantity"`
}

// Reconcile compara la suma firmada del kardex con la cantidad cacheada del producto.
// Solo lectura; nunca muta estado. Toma el lock del producto para que las dos lecturas
// sean coherentes entre sí: sin él, un Apply confirmando entre una y otra se reportaría
// como deriva fantasma.
func (a *Applier) Reconcile(_ context.Context, productID string) (*Reconciliation, error) {
	var rec *Reconciliation
	err := a.locks.WithProduct(productID, func() error {
		product, err := a.products.GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		sum, err := a.ledger.SumFor(productID)
		if err != nil {
			return err
		}
		rec = &Reconciliation{
			ProductID:      productID,
			OK:             sum == product.Quantity,
			LedgerSum:      sum,
			CachedQuantity: product.Quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
