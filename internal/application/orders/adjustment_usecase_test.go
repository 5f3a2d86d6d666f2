package orders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

func TestAdjustStock_CausaSegunSignoDelDelta(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, 5)
	ctx := context.Background()

	// Hallazgo en conteo físico: entran 3
	movID, err := e.adjustUC.AdjustStock(ctx, e.bodeguero, dto.AdjustStockRequest{
		ProductID: p.ID, Delta: 3, Note: "conteo físico",
	})
	require.NoError(t, err)
	mov, err := e.store.GetMovement(movID)
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.Equal(t, entity.CauseManualAdd, mov.Cause)
	assert.Equal(t, int64(3), mov.Quantity)
	assert.Equal(t, "conteo físico", mov.Note)
	assert.Equal(t, int64(8), e.qty(t, p.ID))

	// Merma: salen 2
	movID, err = e.adjustUC.AdjustStock(ctx, e.bodeguero, dto.AdjustStockRequest{
		ProductID: p.ID, Delta: -2, Note: "merma",
	})
	require.NoError(t, err)
	mov, err = e.store.GetMovement(movID)
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.Equal(t, entity.CauseManualRemove, mov.Cause)
	assert.Equal(t, int64(-2), mov.Quantity)
	assert.Equal(t, int64(6), e.qty(t, p.ID))
	e.reconciled(t, p.ID)
}

func TestAdjustStock_ValidacionesYPermisos(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, 5)
	ctx := context.Background()

	_, err := e.adjustUC.AdjustStock(ctx, e.bodeguero, dto.AdjustStockRequest{ProductID: p.ID, Delta: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.adjustUC.AdjustStock(ctx, e.bodeguero, dto.AdjustStockRequest{Delta: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.adjustUC.AdjustStock(ctx, e.bodeguero, dto.AdjustStockRequest{ProductID: p.ID, Delta: -6})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El vendedor no ajusta stock
	_, err = e.adjustUC.AdjustStock(ctx, e.vendedor, dto.AdjustStockRequest{ProductID: p.ID, Delta: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Equal(t, int64(5), e.qty(t, p.ID))
}

func TestAdjustStock_DejaRastroDeAuditoria(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, 5)

	before := len(e.store.AuditLogs())
	_, err := e.adjustUC.AdjustStock(context.Background(), e.admin, dto.AdjustStockRequest{
		ProductID: p.ID, Delta: 1, Note: "ajuste prueba",
	})
	require.NoError(t, err)

	logs := e.store.AuditLogs()
	require.Len(t, logs, before+1)
	last := logs[len(logs)-1]
	assert.Equal(t, e.admin, last.ActorID)
	assert.Equal(t, "stock_adjusted", last.Action)
	assert.Equal(t, p.ID, last.EntityID)
}
