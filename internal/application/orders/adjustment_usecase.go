package orders

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/ports"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// AdjustmentUseCase ajustes manuales de stock (conteos físicos, mermas, hallazgos).
// Sin documento origen; siempre protegido por la capacidad ADJUST_STOCK.
type AdjustmentUseCase struct {
	applier *inventory.Applier
	authz   ports.Authorizer
	audit   ports.AuditSink
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(applier *inventory.Applier, authz ports.Authorizer, audit ports.AuditSink) *AdjustmentUseCase {
	return &AdjustmentUseCase{applier: applier, authz: authz, audit: audit}
}

// AdjustStock aplica un MANUAL_ADD o MANUAL_REMOVE según el signo del delta.
// Devuelve el ID del movimiento creado.
func (uc *AdjustmentUseCase) AdjustStock(ctx context.Context, actorID string, in dto.AdjustStockRequest) (string, error) {
	if err := uc.authz.Authorize(actorID, entity.CapAdjustStock); err != nil {
		return "", err
	}
	if in.ProductID == "" || in.Delta == 0 {
		return "", domain.ErrInvalidInput
	}
	cause := entity.CauseManualAdd
	if in.Delta < 0 {
		cause = entity.CauseManualRemove
	}
	movID, err := uc.applier.Apply(ctx, inventory.MovementInput{
		ProductID: in.ProductID,
		Delta:     in.Delta,
		Cause:     cause,
		ActorID:   actorID,
		Note:      in.Note,
	})
	if err != nil {
		return "", err
	}
	uc.audit.Record(actorID, "stock_adjusted", "product", in.ProductID, time.Now())
	return movID, nil
}
