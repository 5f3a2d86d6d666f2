package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Kardex-api/internal/application/auth"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/orders"
	"github.com/jhoicas/Kardex-api/internal/application/ports"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Kardex-api/internal/interfaces/http"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Persistencia: PostgreSQL por defecto; en demo un store en memoria para probar
	// la API sin base de datos.
	var (
		ledgerRepo   repository.LedgerRepository
		productRepo  repository.ProductRepository
		invoiceRepo  repository.InvoiceRepository
		purchaseRepo repository.PurchaseRepository
		returnRepo   repository.ReturnRepository
		userRepo     repository.UserRepository
		txRunner     inventory.TxRunner
		auditSink    ports.AuditSink
	)
	if cfg.App.Env == "demo" {
		store := memory.New()
		ledgerRepo = store.Ledger()
		productRepo = store.Products()
		invoiceRepo = store.Invoices()
		purchaseRepo = store.Purchases()
		returnRepo = store.Returns()
		userRepo = store.Users()
		txRunner = store
		auditSink = store
		log.Warn().Msg("modo demo: store en memoria, los datos se pierden al apagar")
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		ledgerRepo = postgres.NewLedgerRepository(pool)
		productRepo = postgres.NewProductRepository(pool)
		invoiceRepo = postgres.NewInvoiceRepository(pool)
		purchaseRepo = postgres.NewPurchaseRepository(pool)
		returnRepo = postgres.NewReturnRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
		auditSink = postgres.NewAuditRepository(pool, log)
	}

	locks := inventory.NewProductLocks()
	applier := inventory.NewApplier(locks, txRunner, ledgerRepo, productRepo)
	authz := auth.NewRoleAuthorizer(userRepo)

	productUC := usecase.NewProductUseCase(productRepo, applier, authz, auditSink)
	invoiceUC := orders.NewInvoiceUseCase(applier, invoiceRepo, productRepo, ledgerRepo, authz, auditSink)
	purchaseUC := orders.NewPurchaseUseCase(applier, purchaseRepo, productRepo, ledgerRepo, authz, auditSink)
	returnUC := orders.NewReturnUseCase(applier, returnRepo, invoiceRepo, purchaseRepo, productRepo, authz, auditSink)
	adjustUC := orders.NewAdjustmentUseCase(applier, authz, auditSink)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Auditor de reconciliación en background (AUDIT_INTERVAL_SECONDS=0 lo desactiva).
	auditor := inventory.NewAuditor(applier, ledgerRepo, cfg.Audit.Interval, log)
	go auditor.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		InvoiceUC:  invoiceUC,
		PurchaseUC: purchaseUC,
		ReturnUC:   returnUC,
		AdjustUC:   adjustUC,
		AuthUC:     authUC,
		Applier:    applier,
		LedgerRepo: ledgerRepo,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
