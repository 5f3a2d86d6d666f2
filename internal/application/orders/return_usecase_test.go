package orders_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Crea una factura con una línea y devuelve su ID, para referenciarla desde
// devoluciones de cliente.
func (e *env) seedInvoice(t *testing.T, productID string, qty int64) string {
	t.Helper()
	resp, err := e.invoiceUC.CreateInvoice(context.Background(), e.vendedor, dto.CreateInvoiceRequest{
		CustomerID: "cliente-1",
		Items:      []dto.InvoiceItemRequest{{ProductID: productID, Quantity: qty}},
	})
	require.NoError(t, err)
	return resp.ID
}

func TestCreateReturn_ExigeExactamenteUnaReferencia(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, 10)
	invID := e.seedInvoice(t, p.ID, 2)
	ctx := context.Background()

	// Ninguna referencia
	_, err := e.returnUC.CreateReturn(ctx, e.vendedor, dto.CreateReturnRequest{
		ProductID: p.ID, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Ambas referencias
	_, err = e.returnUC.CreateReturn(ctx, e.vendedor, dto.CreateReturnRequest{
		InvoiceID: invID, PurchaseID: "oc-1", ProductID: p.ID, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad inválida
	_, err = e.returnUC.CreateReturn(ctx, e.vendedor, dto.CreateReturnRequest{
		InvoiceID: invID, ProductID: p.ID, Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Producto y documento deben existir
	_, err = e.returnUC.CreateReturn(ctx, e.vendedor, dto.CreateReturnRequest{
		InvoiceID: invID, ProductID: "no-existe", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.returnUC.CreateReturn(ctx, e.vendedor, dto.CreateReturnRequest{
		InvoiceID: "no-existe", ProductID: p.ID, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Válida: nace PENDING sin tocar stock
	resp, err := e.returnUC.CreateReturn(ctx, e.vendedor, dto.CreateReturnRequest{
		InvoiceID: invID, ProductID: p.ID, Quantity: 2, Reason: "producto defectuoso",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, resp.Status)
	assert.Equal(t, int64(8), e.qty(t, p.ID))
}

// Devolución de cliente aprobada: el stock vuelve a entrar.
func TestApproveReturn_DeClienteIngresaStock(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, 10)
	invID := e.seedInvoice(t, p.ID, 3)
	ctx := context.Background()
	require.Equal(t, int64(7), e.qty(t, p.ID))

	resp, err := e.returnUC.CreateReturn(ctx, e.vendedor, dto.CreateReturnRequest{
		InvoiceID: invID, ProductID: p.ID, Quantity: 3, Reason: "talla equivocada",
	})
	require.NoError(t, err)

	require.NoError(t, e.returnUC.Transition(ctx, e.bodeguero, resp.ID, entity.StatusApproved))
	assert.Equal(t, int64(10), e.qty(t, p.ID))
	e.reconciled(t, p.ID)

	movs, err := e.store.FindByDocument(entity.DocTypeReturn, resp.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.CauseReturnFromCustomer, movs[0].Cause)
	assert.Equal(t, int64(3), movs[0].Quantity)

	got, err := e.returnUC.GetReturn(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, got.Status)

	// Doble approve: terminal, sin segundo movimiento
	err = e.returnUC.Transition(ctx, e.bodeguero, resp.ID, entity.StatusApproved)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(10), e.qty(t, p.ID))
}

// Devolución a proveedor aprobada: el stock sale. Sin stock suficiente la
// devolución se queda PENDING.
func TestApproveReturn_AProveedorDescuentaStock(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, 0)
	ctx := context.Background()

	purchase, err := e.purchaseUC.CreatePurchase(ctx, e.bodeguero, dto.CreatePurchaseRequest{
		SupplierID: "prov-1",
		Items:      []dto.PurchaseItemRequest{{ProductID: p.ID, Quantity: 4, UnitCost: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)
	require.NoError(t, e.purchaseUC.Transition(ctx, e.bodeguero, purchase.ID, entity.StatusApproved))
	require.Equal(t, int64(4), e.qty(t, p.ID))

	resp, err := e.returnUC.CreateReturn(ctx, e.bodeguero, dto.CreateReturnRequest{
		PurchaseID: purchase.ID, ProductID: p.ID, Quantity: 3, Reason: "lote dañado",
	})
	require.NoError(t, err)

	require.NoError(t, e.returnUC.Transition(ctx, e.bodeguero, resp.ID, entity.StatusApproved))
	assert.Equal(t, int64(1), e.qty(t, p.ID))
	e.reconciled(t, p.ID)

	movs, err := e.store.FindByDocument(entity.DocTypeReturn, resp.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.CauseReturnToSupplier, movs[0].Cause)
	assert.Equal(t, int64(-3), movs[0].Quantity)
}

func TestApproveReturn_SinStockQuedaPendiente(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, 0)
	ctx := context.Background()

	purchase, err := e.purchaseUC.CreatePurchase(ctx, e.bodeguero, dto.CreatePurchaseRequest{
		SupplierID: "prov-1",
		Items:      []dto.PurchaseItemRequest{{ProductID: p.ID, Quantity: 2, UnitCost: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)
	require.NoError(t, e.purchaseUC.Transition(ctx, e.bodeguero, purchase.ID, entity.StatusApproved))

	// Se venden las 2 unidades recibidas
	_, err = e.invoiceUC.CreateInvoice(ctx, e.vendedor, dto.CreateInvoiceRequest{
		CustomerID: "cliente-1",
		Items:      []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	resp, err := e.returnUC.CreateReturn(ctx, e.bodeguero, dto.CreateReturnRequest{
		PurchaseID: purchase.ID, ProductID: p.ID, Quantity: 2, Reason: "lote dañado",
	})
	require.NoError(t, err)

	err = e.returnUC.Transition(ctx, e.bodeguero, resp.ID, entity.StatusApproved)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La devolución sigue PENDING y puede reintentarse después
	got, err := e.returnUC.GetReturn(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status)
	assert.Equal(t, int64(0), e.qty(t, p.ID))
}

func TestRejectReturn_SinEfectoYPermisos(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, 10)
	invID := e.seedInvoice(t, p.ID, 2)
	ctx := context.Background()

	resp, err := e.returnUC.CreateReturn(ctx, e.vendedor, dto.CreateReturnRequest{
		InvoiceID: invID, ProductID: p.ID, Quantity: 2, Reason: "se arrepintió",
	})
	require.NoError(t, err)

	// El vendedor crea devoluciones pero no las aprueba
	err = e.returnUC.Transition(ctx, e.vendedor, resp.ID, entity.StatusApproved)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, e.returnUC.Transition(ctx, e.bodeguero, resp.ID, entity.StatusRejected))
	assert.Equal(t, int64(8), e.qty(t, p.ID))

	got, err := e.returnUC.GetReturn(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, got.Status)

	movs, err := e.store.FindByDocument(entity.DocTypeReturn, resp.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)

	// Destino desconocido y documento inexistente
	err = e.returnUC.Transition(ctx, e.bodeguero, resp.ID, "CANCELLED")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	err = e.returnUC.Transition(ctx, e.bodeguero, "no-existe", entity.StatusApproved)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
