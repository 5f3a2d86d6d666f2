package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/auth"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/orders"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	InvoiceUC  *orders.InvoiceUseCase
	PurchaseUC *orders.PurchaseUseCase
	ReturnUC   *orders.ReturnUseCase
	AdjustUC   *orders.AdjustmentUseCase
	AuthUC     *auth.AuthUseCase
	Applier    *inventory.Applier
	LedgerRepo repository.LedgerRepository
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.AdjustUC, deps.Applier, deps.LedgerRepo)
	products.Post("/", RequireCapability(entity.CapManageProducts), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/below-reorder", productHandler.ListBelowReorder)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireCapability(entity.CapManageProducts), productHandler.Update)
	products.Get("/:id/movements", RequireCapability(entity.CapViewLedger), inventoryHandler.ListMovements)
	products.Get("/:id/reconciliation", RequireCapability(entity.CapViewLedger), inventoryHandler.Reconcile)

	// Inventory (protegido)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/adjustments", RequireCapability(entity.CapAdjustStock), inventoryHandler.AdjustStock)
	invGroup.Post("/movements/:id/reverse", RequireCapability(entity.CapAdjustStock), inventoryHandler.ReverseMovement)

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", RequireCapability(entity.CapCreateInvoice), invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Delete("/:id", RequireCapability(entity.CapDeleteInvoice), invoiceHandler.Delete)

	// Purchases (protegido)
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", RequireCapability(entity.CapCreatePurchase), purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/:id/status", RequireCapability(entity.CapApprovePurchase), purchaseHandler.Transition)
	purchases.Delete("/:id", RequireCapability(entity.CapDeletePurchase), purchaseHandler.Delete)

	// Returns (protegido)
	returns := protected.Group("/returns")
	returnHandler := NewReturnHandler(deps.ReturnUC)
	returns.Post("/", RequireCapability(entity.CapCreateReturn), returnHandler.Create)
	returns.Get("/", returnHandler.List)
	returns.Get("/:id", returnHandler.GetByID)
	returns.Post("/:id/status", RequireCapability(entity.CapApproveReturn), returnHandler.Transition)
}
