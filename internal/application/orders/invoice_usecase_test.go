package orders_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/auth"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/orders"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
)

// La factura es final al crearse: descuenta stock por línea y persiste el documento.
func TestCreateInvoice_DescuentaStockYPersiste(t *testing.T) {
	e := newEnv(t)
	a := e.seedProduct(t, 10)
	b := e.seedProduct(t, 4)
	ctx := context.Background()

	resp, err := e.invoiceUC.CreateInvoice(ctx, e.vendedor, dto.CreateInvoiceRequest{
		CustomerID: "cliente-1",
		Number:     "FV-0001",
		Items: []dto.InvoiceItemRequest{
			{ProductID: a.ID, Quantity: 3, UnitPrice: decimal.NewFromInt(1000)},
			{ProductID: b.ID, Quantity: 2}, // sin precio: usa el precio de venta del producto
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, int64(7), e.qty(t, a.ID))
	assert.Equal(t, int64(2), e.qty(t, b.ID))
	e.reconciled(t, a.ID)
	e.reconciled(t, b.ID)

	// Totales: 3*1000 + 2*precio de venta; impuestos en cero
	wantNet := decimal.NewFromInt(3000).Add(b.SellingPrice.Mul(decimal.NewFromInt(2)))
	assert.True(t, resp.NetTotal.Equal(wantNet), "net %s", resp.NetTotal)
	assert.True(t, resp.TaxTotal.IsZero())
	assert.True(t, resp.GrandTotal.Equal(wantNet))

	// Un SALE por línea, ligado a la factura
	movs, err := e.store.FindByDocument(entity.DocTypeInvoice, resp.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.CauseSale, m.Cause)
		assert.Negative(t, m.Quantity)
	}

	// El documento quedó persistido con sus líneas
	got, err := e.invoiceUC.GetInvoice(ctx, resp.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, "FV-0001", got.Number)
}

// Si una línea no alcanza, las líneas ya aplicadas se reversan y no queda documento.
func TestCreateInvoice_CompensaLineasAplicadas(t *testing.T) {
	e := newEnv(t)
	a := e.seedProduct(t, 10)
	b := e.seedProduct(t, 1)
	ctx := context.Background()

	_, err := e.invoiceUC.CreateInvoice(ctx, e.vendedor, dto.CreateInvoiceRequest{
		CustomerID: "cliente-1",
		Items: []dto.InvoiceItemRequest{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 5}, // no hay stock para esta línea
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Stock restaurado por compensación, sin documento persistido
	assert.Equal(t, int64(10), e.qty(t, a.ID))
	assert.Equal(t, int64(1), e.qty(t, b.ID))
	e.reconciled(t, a.ID)
	e.reconciled(t, b.ID)

	invoices, err := e.store.ListInvoices(10, 0)
	require.NoError(t, err)
	assert.Empty(t, invoices)

	// El kardex conserva la historia del intento: SALE + REVERSAL sobre el producto a
	movs, err := e.store.ListByProduct(a.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3) // INITIAL_STOCK, SALE, REVERSAL
	assert.Equal(t, entity.CauseReversal, movs[0].Cause)
	assert.Equal(t, entity.CauseSale, movs[1].Cause)
}

// ctxRunner delega en el store pero respeta la cancelación del contexto, como hace
// pool.Begin(ctx) en el TxRunner de postgres.
type ctxRunner struct {
	store    *memory.Store
	afterRun func()
}

func (r *ctxRunner) Run(ctx context.Context, fn func(repository.LedgerRepository, repository.ProductRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.Run(ctx, fn); err != nil {
		return err
	}
	if r.afterRun != nil {
		r.afterRun()
	}
	return nil
}

// Si el contexto del caller muere a mitad de la factura, la compensación de las líneas
// ya aplicadas debe entrar igual: una venta parcial sin documento ni reversa viola la
// invariante del kardex.
func TestCreateInvoice_CompensaConContextoCancelado(t *testing.T) {
	e := newEnv(t)
	a := e.seedProduct(t, 5)
	b := e.seedProduct(t, 5)

	runner := &ctxRunner{store: e.store}
	applier := inventory.NewApplier(inventory.NewProductLocks(), runner, e.store.Ledger(), e.store.Products())
	authz := auth.NewRoleAuthorizer(e.store.Users())
	invoiceUC := orders.NewInvoiceUseCase(applier, e.store.Invoices(), e.store.Products(), e.store.Ledger(), authz, e.store)

	// La línea 1 confirma y el contexto muere antes de la línea 2
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cancelled := false
	runner.afterRun = func() {
		if !cancelled {
			cancelled = true
			cancel()
		}
	}

	_, err := invoiceUC.CreateInvoice(ctx, e.vendedor, dto.CreateInvoiceRequest{
		CustomerID: "cliente-1",
		Items: []dto.InvoiceItemRequest{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, context.Canceled)

	// La venta parcial de la línea 1 quedó reversada pese al contexto cancelado
	assert.Equal(t, int64(5), e.qty(t, a.ID))
	assert.Equal(t, int64(5), e.qty(t, b.ID))
	e.reconciled(t, a.ID)

	movs, err := e.store.ListByProduct(a.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3) // INITIAL_STOCK, SALE, REVERSAL
	assert.Equal(t, entity.CauseReversal, movs[0].Cause)

	invoices, err := e.store.ListInvoices(10, 0)
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestCreateInvoice_Validaciones(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, 5)
	ctx := context.Background()

	// Sin cliente
	_, err := e.invoiceUC.CreateInvoice(ctx, e.vendedor, dto.CreateInvoiceRequest{
		Items: []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad no positiva
	_, err = e.invoiceUC.CreateInvoice(ctx, e.vendedor, dto.CreateInvoiceRequest{
		CustomerID: "cliente-1",
		Items:      []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Producto inexistente
	_, err = e.invoiceUC.CreateInvoice(ctx, e.vendedor, dto.CreateInvoiceRequest{
		CustomerID: "cliente-1",
		Items:      []dto.InvoiceItemRequest{{ProductID: "no-existe", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// El bodeguero no factura
	_, err = e.invoiceUC.CreateInvoice(ctx, e.bodeguero, dto.CreateInvoiceRequest{
		CustomerID: "cliente-1",
		Items:      []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Nada de lo anterior tocó el stock
	assert.Equal(t, int64(5), e.qty(t, p.ID))
}

// Borrar una factura reversa sus ventas y conserva todo el historial del kardex.
func TestDeleteInvoice_ReversaYConservaHistorial(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, 8)
	ctx := context.Background()

	resp, err := e.invoiceUC.CreateInvoice(ctx, e.admin, dto.CreateInvoiceRequest{
		CustomerID: "cliente-1",
		Items:      []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(5), e.qty(t, p.ID))

	require.NoError(t, e.invoiceUC.DeleteInvoice(ctx, e.admin, resp.ID))

	assert.Equal(t, int64(8), e.qty(t, p.ID))
	e.reconciled(t, p.ID)

	// Documento fuera, historial intacto: SALE y su REVERSAL siguen ligados a la factura
	_, err = e.invoiceUC.GetInvoice(ctx, resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	movs, err := e.store.FindByDocument(entity.DocTypeInvoice, resp.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)

	// El vendedor no puede borrar facturas
	otra, err := e.invoiceUC.CreateInvoice(ctx, e.vendedor, dto.CreateInvoiceRequest{
		CustomerID: "cliente-2",
		Items:      []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	err = e.invoiceUC.DeleteInvoice(ctx, e.vendedor, otra.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Dos facturas concurrentes por la última unidad: exactamente una se crea.
func TestCreateInvoice_CarreraPorUltimaUnidad(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, 1)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.invoiceUC.CreateInvoice(ctx, e.vendedor, dto.CreateInvoiceRequest{
				CustomerID: "cliente-1",
				Items:      []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 1}},
			})
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, int64(0), e.qty(t, p.ID))
	e.reconciled(t, p.ID)

	invoices, err := e.store.ListInvoices(10, 0)
	require.NoError(t, err)
	assert.Len(t, invoices, 1)
}
