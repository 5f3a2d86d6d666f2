package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/ports"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ReturnUseCase maneja devoluciones con compuerta de aprobación. La dirección del
// efecto la decide la referencia: factura = entra stock (RETURN_FROM_CUSTOMER),
// compra = sale stock (RETURN_TO_SUPPLIER). Pendientes y rechazadas jamás tocan
// el kardex.
type ReturnUseCase struct {
	applier      *inventory.Applier
	returnRepo   repository.ReturnRepository
	invoiceRepo  repository.InvoiceRepository
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	authz        ports.Authorizer
	audit        ports.AuditSink
}

// NewReturnUseCase construye el caso de uso.
func NewReturnUseCase(
	applier *inventory.Applier,
	returnRepo repository.ReturnRepository,
	invoiceRepo repository.InvoiceRepository,
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	authz ports.Authorizer,
	audit ports.AuditSink,
) *ReturnUseCase {
	return &ReturnUseCase{
		applier:      applier,
		returnRepo:   returnRepo,
		invoiceRepo:  invoiceRepo,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		authz:        authz,
		audit:        audit,
	}
}

// CreateReturn persiste la devolución en PENDING. Exige exactamente una referencia
// (invoice_id o purchase_id) y que documento y producto existan.
func (uc *ReturnUseCase) CreateReturn(ctx context.Context, actorID string, in dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	if err := uc.authz.Authorize(actorID, entity.CapCreateReturn); err != nil {
		return nil, err
	}
	// Exactamente una referencia: ambas o ninguna es entrada inválida
	if (in.InvoiceID == "") == (in.PurchaseID == "") {
		return nil, domain.ErrInvalidInput
	}
	if in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.InvoiceID != "" {
		inv, err := uc.invoiceRepo.GetByID(in.InvoiceID)
		if err != nil {
			return nil, err
		}
		if inv == nil {
			return nil, domain.ErrNotFound
		}
	} else {
		purchase, err := uc.purchaseRepo.GetByID(in.PurchaseID)
		if err != nil {
			return nil, err
		}
		if purchase == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	ret := &entity.Return{
		ID:         uuid.New().String(),
		InvoiceID:  in.InvoiceID,
		PurchaseID: in.PurchaseID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		Reason:     in.Reason,
		Status:     entity.StatusPending,
		CreatedAt:  now,
		CreatedBy:  actorID,
	}
	if err := uc.returnRepo.Create(ret); err != nil {
		return nil, err
	}

	uc.audit.Record(actorID, "return_created", "return", ret.ID, now)
	return toReturnResponse(ret), nil
}

// Transition aplica la máquina de estados: PENDING -> APPROVED emite exactamente un
// movimiento; PENDING -> REJECTED no toca stock. Si el movimiento falla (p. ej.
// stock insuficiente para devolver al proveedor), la devolución sigue PENDING.
func (uc *ReturnUseCase) Transition(ctx context.Context, actorID, returnID, toState string) error {
	switch toState {
	case entity.StatusApproved:
		return uc.approve(ctx, actorID, returnID)
	case entity.StatusRejected:
		return uc.reject(actorID, returnID)
	default:
		return domain.ErrInvalidTransition
	}
}

func (uc *ReturnUseCase) approve(ctx context.Context, actorID, returnID string) error {
	if err := uc.authz.Authorize(actorID, entity.CapApproveReturn); err != nil {
		return err
	}
	ret, err := uc.returnRepo.GetByID(returnID)
	if err != nil {
		return err
	}
	if ret == nil {
		return domain.ErrNotFound
	}
	if !entity.CanTransition(ret.Status, entity.StatusApproved) {
		return domain.ErrInvalidTransition
	}

	delta := ret.Quantity
	cause := entity.CauseReturnFromCustomer
	if !ret.FromCustomer() {
		delta = -ret.Quantity
		cause = entity.CauseReturnToSupplier
	}
	movID, err := uc.applier.Apply(ctx, inventory.MovementInput{
		ProductID: ret.ProductID,
		Delta:     delta,
		Cause:     cause,
		Source:    &entity.SourceDocument{Type: entity.DocTypeReturn, ID: returnID},
		ActorID:   actorID,
	})
	if err != nil {
		return err
	}

	if err := uc.returnRepo.UpdateStatus(returnID, entity.StatusPending, entity.StatusApproved, actorID); err != nil {
		// Otro flujo movió el documento entre el chequeo y el CAS: deshacer el efecto.
		// Contexto desacoplado: la reversa debe entrar aunque el caller ya haya cancelado.
		if _, revErr := uc.applier.Reverse(context.WithoutCancel(ctx), movID, actorID); revErr != nil {
			return errors.Join(err, revErr)
		}
		return err
	}

	uc.audit.Record(actorID, "return_approved", "return", returnID, time.Now())
	return nil
}

func (uc *ReturnUseCase) reject(actorID, returnID string) error {
	if err := uc.authz.Authorize(actorID, entity.CapApproveReturn); err != nil {
		return err
	}
	ret, err := uc.returnRepo.GetByID(returnID)
	if err != nil {
		return err
	}
	if ret == nil {
		return domain.ErrNotFound
	}
	if err := uc.returnRepo.UpdateStatus(returnID, entity.StatusPending, entity.StatusRejected, actorID); err != nil {
		return err
	}
	uc.audit.Record(actorID, "return_rejected", "return", returnID, time.Now())
	return nil
}

// GetReturn devuelve la devolución por ID.
func (uc *ReturnUseCase) GetReturn(_ context.Context, id string) (*dto.ReturnResponse, error) {
	ret, err := uc.returnRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, domain.ErrNotFound
	}
	return toReturnResponse(ret), nil
}

// ListReturns devuelve devoluciones paginadas, opcionalmente filtradas por estado.
func (uc *ReturnUseCase) ListReturns(_ context.Context, status string, page dto.PageRequest) ([]*dto.ReturnResponse, error) {
	page.DefaultPage()
	returns, err := uc.returnRepo.List(status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ReturnResponse, 0, len(returns))
	for _, r := range returns {
		out = append(out, toReturnResponse(r))
	}
	return out, nil
}

func toReturnResponse(r *entity.Return) *dto.ReturnResponse {
	return &dto.ReturnResponse{
		ID:         r.ID,
		InvoiceID:  r.InvoiceID,
		PurchaseID: r.PurchaseID,
		ProductID:  r.ProductID,
		Quantity:   r.Quantity,
		Reason:     r.Reason,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
}
