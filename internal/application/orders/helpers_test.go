package orders_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/auth"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/orders"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de test: store en memoria + applier real + autorización por rol
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	store      *memory.Store
	applier    *inventory.Applier
	invoiceUC  *orders.InvoiceUseCase
	purchaseUC *orders.PurchaseUseCase
	returnUC   *orders.ReturnUseCase
	adjustUC   *orders.AdjustmentUseCase

	admin     string // todas las capacidades
	bodeguero string // compras, devoluciones, ajustes
	vendedor  string // factura y consulta
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New()
	applier := inventory.NewApplier(inventory.NewProductLocks(), store, store.Ledger(), store.Products())
	authz := auth.NewRoleAuthorizer(store.Users())

	e := &env{
		store:   store,
		applier: applier,
		invoiceUC: orders.NewInvoiceUseCase(
			applier, store.Invoices(), store.Products(), store.Ledger(), authz, store),
		purchaseUC: orders.NewPurchaseUseCase(
			applier, store.Purchases(), store.Products(), store.Ledger(), authz, store),
		returnUC: orders.NewReturnUseCase(
			applier, store.Returns(), store.Invoices(), store.Purchases(), store.Products(), authz, store),
		adjustUC: orders.NewAdjustmentUseCase(applier, authz, store),

		admin:     seedUser(t, store, entity.RoleAdmin),
		bodeguero: seedUser(t, store, entity.RoleBodeguero),
		vendedor:  seedUser(t, store, entity.RoleVendedor),
	}
	return e
}

func seedUser(t *testing.T, store *memory.Store, role string) string {
	t.Helper()
	u := &entity.User{
		ID:     uuid.New().String(),
		Email:  role + "-" + uuid.New().String()[:8] + "@test.local",
		Name:   role,
		Role:   role,
		Status: "active",
	}
	require.NoError(t, store.CreateUser(u))
	return u.ID
}

// seedProduct crea un producto y carga stock inicial vía applier (kardex cuadrado).
func (e *env) seedProduct(t *testing.T, initial int64) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          "SKU-" + uuid.New().String()[:8],
		Name:         "Cemento gris 50kg",
		Unit:         "und",
		SellingPrice: decimal.NewFromInt(32000),
		CostPrice:    decimal.NewFromInt(26000),
	}
	require.NoError(t, e.store.CreateProduct(p))
	if initial > 0 {
		_, err := e.applier.Apply(context.Background(), inventory.MovementInput{
			ProductID: p.ID,
			Delta:     initial,
			Cause:     entity.CauseInitialStock,
			ActorID:   e.admin,
		})
		require.NoError(t, err)
	}
	return p
}

func (e *env) qty(t *testing.T, productID string) int64 {
	t.Helper()
	p, err := e.store.GetProduct(productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

// reconciled exige que el kardex y la cantidad cacheada del producto cuadren.
func (e *env) reconciled(t *testing.T, productID string) {
	t.Helper()
	rec, err := e.applier.Reconcile(context.Background(), productID)
	require.NoError(t, err)
	require.True(t, rec.OK, "deriva: ledger=%d cached=%d", rec.LedgerSum, rec.CachedQuantity)
}
