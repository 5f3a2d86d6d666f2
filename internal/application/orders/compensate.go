package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
)

// compensate reversa, en orden inverso, los movimientos ya aplicados de un workflow que
// falló a mitad de camino. Una aplicación parcial nunca puede quedar sin reconciliar:
// si alguna reversa falla se reporta el error acumulado para intervención manual.
//
// Las reversas corren sobre un contexto desacoplado de la cancelación del caller: si
// el workflow murió justamente por timeout o cancel, las compensaciones igual deben
// entrar al kardex.
func compensate(ctx context.Context, applier *inventory.Applier, actorID string, movementIDs []string) error {
	ctx = context.WithoutCancel(ctx)
	var errs []error
	for i := len(movementIDs) - 1; i >= 0; i-- {
		if _, err := applier.Reverse(ctx, movementIDs[i], actorID); err != nil {
			errs = append(errs, fmt.Errorf("reversar movimiento %s: %w", movementIDs[i], err))
		}
	}
	return errors.Join(errs...)
}
