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

// PurchaseUseCase maneja compras a proveedor con compuerta de aprobación.
// La creación no toca stock; solo la transición PENDING -> APPROVED emite los
// PURCHASE_RECEIPT, y nunca se re-emiten.
type PurchaseUseCase struct {
	applier      *inventory.Applier
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	ledgerRepo   repository.LedgerRepository
	authz        ports.Authorizer
	audit        ports.AuditSink
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	applier *inventory.Applier,
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
	authz ports.Authorizer,
	audit ports.AuditSink,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		applier:      applier,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		ledgerRepo:   ledgerRepo,
		authz:        authz,
		audit:        audit,
	}
}

// CreatePurchase persiste la compra en PENDING con sus detalles. Sin efecto de stock.
func (uc *PurchaseUseCase) CreatePurchase(ctx context.Context, actorID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if err := uc.authz.Authorize(actorID, entity.CapCreatePurchase); err != nil {
		return nil, err
	}
	if in.SupplierID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(in.Items))
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 || item.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		// Una línea por producto: el ingreso es a lo sumo uno por (documento, causa,
		// producto), así que una línea repetida dejaría la compra imposible de aprobar.
		if seen[item.ProductID] {
			return nil, domain.ErrInvalidInput
		}
		seen[item.ProductID] = true
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	number := in.Number
	if number == "" {
		number = fmt.Sprintf("OC-%d", now.Unix())
	}
	var total decimal.Decimal
	for _, item := range in.Items {
		total = total.Add(item.UnitCost.Mul(decimal.NewFromInt(item.Quantity)))
	}

	purchase := &entity.Purchase{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		Number:     number,
		Status:     entity.StatusPending,
		Date:       now,
		Total:      total,
		CreatedAt:  now,
		CreatedBy:  actorID,
	}
	if err := uc.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}
	for _, item := range in.Items {
		detail := &entity.PurchaseDetail{
			ID:         uuid.New().String(),
			PurchaseID: purchase.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitCost:   item.UnitCost,
			Subtotal:   item.UnitCost.Mul(decimal.NewFromInt(item.Quantity)),
		}
		if err := uc.purchaseRepo.CreateDetail(detail); err != nil {
			return nil, err
		}
	}

	uc.audit.Record(actorID, "purchase_created", "purchase", purchase.ID, now)
	return uc.toResponse(purchase, in.Items), nil
}

// Transition aplica la máquina de estados de aprobación sobre la compra:
// PENDING -> APPROVED emite los PURCHASE_RECEIPT; PENDING -> REJECTED no toca stock.
// Cualquier otro destino o un documento no-PENDING retorna ErrInvalidTransition.
func (uc *PurchaseUseCase) Transition(ctx context.Context, actorID, purchaseID, toState string) error {
	switch toState {
	case entity.StatusApproved:
		return uc.approve(ctx, actorID, purchaseID)
	case entity.StatusRejected:
		return uc.reject(actorID, purchaseID)
	default:
		return domain.ErrInvalidTransition
	}
}

// approve emite un PURCHASE_RECEIPT por línea y confirma el estado con compare-and-set.
// Si un movimiento falla, las líneas ya recibidas se reversan y la compra sigue PENDING.
// El chequeo de duplicado del Applier cierra la ventana de un doble-approve concurrente.
func (uc *PurchaseUseCase) approve(ctx context.Context, actorID, purchaseID string) error {
	if err := uc.authz.Authorize(actorID, entity.CapApprovePurchase); err != nil {
		return err
	}
	purchase, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return err
	}
	if purchase == nil {
		return domain.ErrNotFound
	}
	if !entity.CanTransition(purchase.Status, entity.StatusApproved) {
		return domain.ErrInvalidTransition
	}
	details, err := uc.purchaseRepo.GetDetailsByPurchaseID(purchaseID)
	if err != nil {
		return err
	}

	source := &entity.SourceDocument{Type: entity.DocTypePurchase, ID: purchaseID}
	var applied []string
	for _, d := range details {
		movID, err := uc.applier.Apply(ctx, inventory.MovementInput{
			ProductID: d.ProductID,
			Delta:     d.Quantity,
			Cause:     entity.CausePurchaseReceipt,
			Source:    source,
			ActorID:   actorID,
		})
		if err != nil {
			if compErr := compensate(ctx, uc.applier, actorID, applied); compErr != nil {
				return errors.Join(err, compErr)
			}
			return err
		}
		applied = append(applied, movID)
	}

	// Confirmar el estado solo si sigue PENDING; si otro flujo lo movió mientras tanto,
	// nuestros movimientos se reversan y la transición falla.
	if err := uc.purchaseRepo.UpdateStatus(purchaseID, entity.StatusPending, entity.StatusApproved, actorID); err != nil {
		if compErr := compensate(ctx, uc.applier, actorID, applied); compErr != nil {
			return errors.Join(err, compErr)
		}
		return err
	}

	uc.audit.Record(actorID, "purchase_approved", "purchase", purchaseID, time.Now())
	return nil
}

// reject mueve PENDING -> REJECTED sin efecto de stock.
func (uc *PurchaseUseCase) reject(actorID, purchaseID string) error {
	if err := uc.authz.Authorize(actorID, entity.CapApprovePurchase); err != nil {
		return err
	}
	purchase, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return err
	}
	if purchase == nil {
		return domain.ErrNotFound
	}
	if err := uc.purchaseRepo.UpdateStatus(purchaseID, entity.StatusPending, entity.StatusRejected, actorID); err != nil {
		return err
	}
	uc.audit.Record(actorID, "purchase_rejected", "purchase", purchaseID, time.Now())
	return nil
}

// DeletePurchase borra la compra. Una compra APPROVED exige primero reversar sus
// movimientos; si el stock recibido ya se vendió, la reversa falla con
// ErrInsufficientStock y el borrado se aborta.
func (uc *PurchaseUseCase) DeletePurchase(ctx context.Context, actorID, purchaseID string) error {
	if err := uc.authz.Authorize(actorID, entity.CapDeletePurchase); err != nil {
		return err
	}
	purchase, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return err
	}
	if purchase == nil {
		return domain.ErrNotFound
	}

	if purchase.Status == entity.StatusApproved {
		movements, err := uc.ledgerRepo.FindByDocument(entity.DocTypePurchase, purchaseID)
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
				return fmt.Errorf("reversar recepción %s de la compra: %w", m.ID, err)
			}
		}
	}

	if err := uc.purchaseRepo.Delete(purchaseID); err != nil {
		return err
	}
	uc.audit.Record(actorID, "purchase_deleted", "purchase", purchaseID, time.Now())
	return nil
}

// GetPurchase devuelve la compra con detalles.
func (uc *PurchaseUseCase) GetPurchase(_ context.Context, id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.purchaseRepo.GetDetailsByPurchaseID(id)
	if err != nil {
		return nil, err
	}
	resp := &dto.PurchaseResponse{
		ID:         purchase.ID,
		SupplierID: purchase.SupplierID,
		Number:     purchase.Number,
		Status:     purchase.Status,
		Date:       purchase.Date,
		Total:      purchase.Total,
		CreatedAt:  purchase.CreatedAt,
	}
	for _, d := range details {
		resp.Items = append(resp.Items, dto.PurchaseItemResponse{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitCost:  d.UnitCost,
			Subtotal:  d.Subtotal,
		})
	}
	return resp, nil
}

// ListPurchases devuelve cabeceras paginadas, opcionalmente filtradas por estado.
func (uc *PurchaseUseCase) ListPurchases(_ context.Context, status string, page dto.PageRequest) ([]*dto.PurchaseResponse, error) {
	page.DefaultPage()
	purchases, err := uc.purchaseRepo.List(status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, &dto.PurchaseResponse{
			ID:         p.ID,
			SupplierID: p.SupplierID,
			Number:     p.Number,
			Status:     p.Status,
			Date:       p.Date,
			Total:      p.Total,
			CreatedAt:  p.CreatedAt,
		})
	}
	return out, nil
}

func (uc *PurchaseUseCase) toResponse(p *entity.Purchase, items []dto.PurchaseItemRequest) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:         p.ID,
		SupplierID: p.SupplierID,
		Number:     p.Number,
		Status:     p.Status,
		Date:       p.Date,
		Total:      p.Total,
		CreatedAt:  p.CreatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.PurchaseItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
			Subtotal:  item.UnitCost.Mul(decimal.NewFromInt(item.Quantity)),
		})
	}
	return resp
}
