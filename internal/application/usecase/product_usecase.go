package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/ports"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ProductUseCase CRUD de productos. El alta con stock inicial pasa por el Applier
// (movimiento INITIAL_STOCK) para que la invariante de reconciliación se cumpla desde
// el primer día; ninguna otra operación de este caso de uso muta la cantidad.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	applier     *inventory.Applier
	authz       ports.Authorizer
	audit       ports.AuditSink
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, applier *inventory.Applier, authz ports.Authorizer, audit ports.AuditSink) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, applier: applier, authz: authz, audit: audit}
}

// Create da de alta el producto con cantidad cero y, si hay stock inicial, lo aplica
// como movimiento INITIAL_STOCK.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := uc.authz.Authorize(actorID, entity.CapManageProducts); err != nil {
		return nil, err
	}
	if in.SKU == "" || in.Name == "" || in.InitialQuantity < 0 || in.ReorderLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.productRepo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	unit := in.Unit
	if unit == "" {
		unit = "und"
	}
	product := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          in.SKU,
		Name:         in.Name,
		Description:  in.Description,
		Unit:         unit,
		Quantity:     0,
		ReorderLevel: in.ReorderLevel,
		SellingPrice: in.SellingPrice,
		CostPrice:    in.CostPrice,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}

	if in.InitialQuantity > 0 {
		if _, err := uc.applier.Apply(ctx, inventory.MovementInput{
			ProductID: product.ID,
			Delta:     in.InitialQuantity,
			Cause:     entity.CauseInitialStock,
			ActorID:   actorID,
		}); err != nil {
			return nil, err
		}
		product.Quantity = in.InitialQuantity
	}

	uc.audit.Record(actorID, "product_created", "product", product.ID, now)
	return toProductResponse(product), nil
}

// GetByID devuelve el producto por ID.
func (uc *ProductUseCase) GetByID(_ context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List devuelve productos paginados.
func (uc *ProductUseCase) List(_ context.Context, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// ListBelowReorder productos en o por debajo del punto de reorden.
func (uc *ProductUseCase) ListBelowReorder(_ context.Context) ([]*dto.ProductResponse, error) {
	products, err := uc.productRepo.ListBelowReorder()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Update edita datos del producto. La cantidad no se toca: eso es del Applier.
func (uc *ProductUseCase) Update(_ context.Context, actorID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := uc.authz.Authorize(actorID, entity.CapManageProducts); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.ReorderLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Description != "" {
		product.Description = in.Description
	}
	if in.Unit != "" {
		product.Unit = in.Unit
	}
	product.ReorderLevel = in.ReorderLevel
	if !in.SellingPrice.IsZero() {
		product.SellingPrice = in.SellingPrice
	}
	if !in.CostPrice.IsZero() {
		product.CostPrice = in.CostPrice
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	uc.audit.Record(actorID, "product_updated", "product", product.ID, product.UpdatedAt)
	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Unit:         p.Unit,
		Quantity:     p.Quantity,
		ReorderLevel: p.ReorderLevel,
		SellingPrice: p.SellingPrice,
		CostPrice:    p.CostPrice,
		BelowReorder: p.BelowReorder(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
