package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/ports"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// InvoiceUseCase crea y borra facturas de venta. Cada línea descuenta stock con un
// movimiento SALE vía el Applier; si alguna línea falla, las ya aplicadas se reversan
// antes de retornar el error: la factura nunca existe a medio descontar.
type InvoiceUseCase struct {
	applier     *inventory.Applier
	invoiceRepo repository.InvoiceRepository
	productRepo repository.ProductRepository
	ledgerRepo  repository.LedgerRepository
	authz       ports.Authorizer
	audit       ports.AuditSink
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	applier *inventory.Applier,
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
	authz ports.Authorizer,
	audit ports.AuditSink,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		applier:     applier,
		invoiceRepo: invoiceRepo,
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
		authz:       authz,
		audit:       audit,
	}
}

// CreateInvoice aplica un SALE por línea y luego persiste cabecera y detalles.
// Cada línea toma y suelta su propio lock de producto: el chequeo de stock y el
// descuento son la misma operación bloqueada dentro del Applier, nunca un pre-chequeo
// suelto. Si la persistencia del documento falla, los movimientos se reversan.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, actorID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := uc.authz.Authorize(actorID, entity.CapCreateInvoice); err != nil {
		return nil, err
	}
	if in.CustomerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Validar productos y completar precios (solo lectura; el go/no-go de stock es del Applier)
	productsByID := make(map[string]*entity.Product)
	for i := range in.Items {
		item := &in.Items[i]
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		productsByID[item.ProductID] = product
		if item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.IsZero() {
			item.UnitPrice = product.SellingPrice
		}
	}

	now := time.Now()
	invoiceID := uuid.New().String() // referencia de los movimientos SALE en el kardex
	source := &entity.SourceDocument{Type: entity.DocTypeInvoice, ID: invoiceID}

	// 1) Descontar stock línea por línea, acumulando los movimientos aplicados
	var applied []string
	for _, item := range in.Items {
		movID, err := uc.applier.Apply(ctx, inventory.MovementInput{
			ProductID: item.ProductID,
			Delta:     -item.Quantity,
			Cause:     entity.CauseSale,
			Source:    source,
			ActorID:   actorID,
		})
		if err != nil {
			if compErr := compensate(ctx, uc.applier, actorID, applied); compErr != nil {
				return nil, errors.Join(err, compErr)
			}
			return nil, err
		}
		applied = append(applied, movID)
	}

	// 2) Totales (los impuestos quedan fuera del motor; se registran en cero)
	var netTotal decimal.Decimal
	for _, item := range in.Items {
		netTotal = netTotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
	}

	number := in.Number
	if number == "" {
		number = fmt.Sprintf("FV-%d", now.Unix())
	}

	inv := &entity.Invoice{
		ID:         invoiceID,
		CustomerID: in.CustomerID,
		Number:     number,
		Date:       now,
		NetTotal:   netTotal,
		TaxTotal:   decimal.Zero,
		GrandTotal: netTotal,
		CreatedAt:  now,
		CreatedBy:  actorID,
	}

	// 3) Persistir cabecera y detalles; si falla, reversar todo lo aplicado
	if err := uc.persistInvoice(inv, in.Items); err != nil {
		if compErr := compensate(ctx, uc.applier, actorID, applied); compErr != nil {
			return nil, errors.Join(err, compErr)
		}
		return nil, err
	}

	uc.audit.Record(actorID, "invoice_created", "invoice", inv.ID, now)
	return uc.toResponse(inv, in.Items), nil
}

func (uc *InvoiceUseCase) persistInvoice(inv *entity.Invoice, items []dto.InvoiceItemRequest) error {
	if err := uc.invoiceRepo.Create(inv); err != nil {
		return err
	}
	for _, item := range items {
		detail := &entity.InvoiceDetail{
			ID:        uuid.New().String(),
			InvoiceID: inv.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)),
		}
		if err := uc.invoiceRepo.CreateDetail(detail); err != nil {
			return err
		}
	}
	return nil
}

// GetInvoice devuelve factura con detalles.
func (uc *InvoiceUseCase) GetInvoice(_ context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.invoiceRepo.GetDetailsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	resp := &dto.InvoiceResponse{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		Number:     inv.Number,
		Date:       inv.Date,
		NetTotal:   inv.NetTotal,
		TaxTotal:   inv.TaxTotal,
		GrandTotal: inv.GrandTotal,
		CreatedAt:  inv.CreatedAt,
	}
	for _, d := range details {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Subtotal:  d.Subtotal,
		})
	}
	return resp, nil
}

// ListInvoices devuelve cabeceras paginadas (sin detalles).
func (uc *InvoiceUseCase) ListInvoices(_ context.Context, page dto.PageRequest) ([]*dto.InvoiceResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, &dto.InvoiceResponse{
			ID:         inv.ID,
			CustomerID: inv.CustomerID,
			Number:     inv.Number,
			Date:       inv.Date,
			NetTotal:   inv.NetTotal,
			TaxTotal:   inv.TaxTotal,
			GrandTotal: inv.GrandTotal,
			CreatedAt:  inv.CreatedAt,
		})
	}
	return out, nil
}

// DeleteInvoice reversa todos los movimientos de la factura y borra el documento.
// El kardex conserva los SALE y sus REVERSAL (transacción compensatoria completa,
// nunca borrado de historial). Reintentable: los movimientos ya reversados se saltan.
func (uc *InvoiceUseCase) DeleteInvoice(ctx context.Context, actorID, id string) error {
	if err := uc.authz.Authorize(actorID, entity.CapDeleteInvoice); err != nil {
		return err
	}
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrNotFound
	}

	movements, err := uc.ledgerRepo.FindByDocument(entity.DocTypeInvoice, id)
	if err != nil {
		return err
	}
	for _, m := range movements {
		if m.Cause == entity.CauseReversal {
			continue
		}
		if _, err := uc.applier.Reverse(ctx, m.ID, actorID); err != nil {
			if errors.Is(err, domain.ErrAlreadyReversed) {
				continue
			}
			return fmt.Errorf("reversar movimiento %s de la factura: %w", m.ID, err)
		}
	}

	if err := uc.invoiceRepo.Delete(id); err != nil {
		return err
	}
	uc.audit.Record(actorID, "invoice_deleted", "invoice", id, time.Now())
	return nil
}

func (uc *InvoiceUseCase) toResponse(inv *entity.Invoice, items []dto.InvoiceItemRequest) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		Number:     inv.Number,
		Date:       inv.Date,
		NetTotal:   inv.NetTotal,
		TaxTotal:   inv.TaxTotal,
		GrandTotal: inv.GrandTotal,
		CreatedAt:  inv.CreatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)),
		})
	}
	return resp
}
