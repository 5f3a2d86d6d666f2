package inventory

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que el par append-al-ledger + update-del-agregado sea
// atómico: o ambos quedan escritos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
	) error) error
}
