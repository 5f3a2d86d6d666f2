// Package memory implementa todos los puertos de persistencia sobre mapas en memoria.
// Se usa en APP_ENV=demo y en la suite de tests: mismo contrato que los adaptadores
// postgres, sin base de datos. La atomicidad lógica por producto la aporta el lock por
// producto del Applier; aquí cada método solo protege sus mapas con el mutex del store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Store contiene todas las tablas en memoria.
type Store struct {
	mu sync.RWMutex

	products        map[string]*entity.Product
	movements       map[string]*entity.StockMovement
	movementsByProd map[string][]*entity.StockMovement
	seqByProd       map[string]int64
	invoices        map[string]*entity.Invoice
	invoiceDetails  map[string][]*entity.InvoiceDetail
	purchases       map[string]*entity.Purchase
	purchaseDetails map[string][]*entity.PurchaseDetail
	returns         map[string]*entity.Return
	users           map[string]*entity.User
	auditLogs       []*entity.AuditLog
}

// New construye un store vacío.
func New() *Store {
	return &Store{
		products:        make(map[string]*entity.Product),
		movements:       make(map[string]*entity.StockMovement),
		movementsByProd: make(map[string][]*entity.StockMovement),
		seqByProd:       make(map[string]int64),
		invoices:        make(map[string]*entity.Invoice),
		invoiceDetails:  make(map[string][]*entity.InvoiceDetail),
		purchases:       make(map[string]*entity.Purchase),
		purchaseDetails: make(map[string][]*entity.PurchaseDetail),
		returns:         make(map[string]*entity.Return),
		users:           make(map[string]*entity.User),
	}
}

// Run implementa inventory.TxRunner. En memoria no hay transacción que abrir: los
// repos pasados son el propio store y la exclusión por producto viene del lock del
// Applier, que envuelve esta llamada completa.
func (s *Store) Run(_ context.Context, fn func(
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(s.Ledger(), s.Products())
}

// ──────────────────────────────────────────────────────────────────────────────
// LedgerRepository
// ──────────────────────────────────────────────────────────────────────────────

// Append agrega el movimiento al kardex asignando ID y Seq por producto.
func (s *Store) Append(m *entity.StockMovement) error {
	if m.Quantity == 0 {
		return domain.ErrInvalidMovement
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.seqByProd[m.ProductID]++
	m.Seq = s.seqByProd[m.ProductID]
	cp := *m
	s.movements[m.ID] = &cp
	s.movementsByProd[m.ProductID] = append(s.movementsByProd[m.ProductID], &cp)
	return nil
}

// GetMovement devuelve el movimiento o nil.
func (s *Store) GetMovement(id string) (*entity.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

// SumFor suma firmada de todos los movimientos del producto.
func (s *Store) SumFor(productID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum int64
	for _, m := range s.movementsByProd[productID] {
		sum += m.Quantity
	}
	return sum, nil
}

// FindByDocument movimientos ligados a un documento origen.
func (s *Store) FindByDocument(docType, docID string) ([]*entity.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.StockMovement
	for _, byProd := range s.movementsByProd {
		for _, m := range byProd {
			if m.Source != nil && m.Source.Type == docType && m.Source.ID == docID {
				cp := *m
				out = append(out, &cp)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// FindReversalOf devuelve el REVERSAL que apunta al movimiento, o nil.
func (s *Store) FindReversalOf(movementID string) (*entity.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.movements {
		if m.Cause == entity.CauseReversal && m.ReversesID == movementID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

// ListByProduct movimientos del producto, más recientes primero (Seq descendente).
func (s *Store) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byProd := s.movementsByProd[productID]
	if offset >= len(byProd) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(byProd) {
		end = len(byProd)
	}
	out := make([]*entity.StockMovement, 0, end-offset)
	for i := offset; i < end; i++ {
		cp := *byProd[len(byProd)-1-i]
		out = append(out, &cp)
	}
	return out, nil
}

// ListProductIDs productos con al menos un movimiento.
func (s *Store) ListProductIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.movementsByProd))
	for id := range s.movementsByProd {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// ProductRepository
// ──────────────────────────────────────────────────────────────────────────────

// CreateProduct persiste el producto; SKU duplicado retorna ErrDuplicate.
func (s *Store) CreateProduct(p *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

// GetProduct devuelve el producto o nil.
func (s *Store) GetProduct(id string) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetBySKU devuelve el producto por SKU o nil.
func (s *Store) GetBySKU(sku string) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// GetForUpdate en memoria equivale a GetProduct: la exclusión la da el lock por
// producto del Applier, no el store.
func (s *Store) GetForUpdate(id string) (*entity.Product, error) {
	return s.GetProduct(id)
}

// UpdateProduct reemplaza los datos del producto (excepto cantidad, que va por UpdateQuantity).
func (s *Store) UpdateProduct(p *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *p
	cp.Quantity = existing.Quantity
	s.products[p.ID] = &cp
	return nil
}

// UpdateQuantity fija la cantidad cacheada.
func (s *Store) UpdateQuantity(productID string, quantity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	p.UpdatedAt = time.Now()
	return nil
}

// ListProducts productos paginados por SKU.
func (s *Store) ListProducts(limit, offset int) ([]*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// ListBelowReorder productos en o por debajo del punto de reorden.
func (s *Store) ListBelowReorder() ([]*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.Product
	for _, p := range s.products {
		if p.BelowReorder() {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

// DeleteProduct borra el producto. El kardex conserva sus movimientos.
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// InvoiceRepository
// ──────────────────────────────────────────────────────────────────────────────

// CreateInvoice persiste la cabecera.
func (s *Store) CreateInvoice(inv *entity.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *inv
	s.invoices[inv.ID] = &cp
	return nil
}

// CreateInvoiceDetail persiste una línea de factura.
func (s *Store) CreateInvoiceDetail(d *entity.InvoiceDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.invoiceDetails[d.InvoiceID] = append(s.invoiceDetails[d.InvoiceID], &cp)
	return nil
}

// GetInvoice devuelve la factura o nil.
func (s *Store) GetInvoice(id string) (*entity.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

// GetDetailsByInvoiceID líneas de la factura.
func (s *Store) GetDetailsByInvoiceID(invoiceID string) ([]*entity.InvoiceDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	details := s.invoiceDetails[invoiceID]
	out := make([]*entity.InvoiceDetail, 0, len(details))
	for _, d := range details {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

// ListInvoices facturas paginadas por fecha descendente.
func (s *Store) ListInvoices(limit, offset int) ([]*entity.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*entity.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		cp := *inv
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// DeleteInvoice borra cabecera y detalles.
func (s *Store) DeleteInvoice(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.invoices, id)
	delete(s.invoiceDetails, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// PurchaseRepository
// ──────────────────────────────────────────────────────────────────────────────

// CreatePurchase persiste la compra.
func (s *Store) CreatePurchase(p *entity.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.purchases[p.ID] = &cp
	return nil
}

// CreatePurchaseDetail persiste una línea de compra.
func (s *Store) CreatePurchaseDetail(d *entity.PurchaseDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.purchaseDetails[d.PurchaseID] = append(s.purchaseDetails[d.PurchaseID], &cp)
	return nil
}

// GetPurchase devuelve la compra o nil.
func (s *Store) GetPurchase(id string) (*entity.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.purchases[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetDetailsByPurchaseID líneas de la compra.
func (s *Store) GetDetailsByPurchaseID(purchaseID string) ([]*entity.PurchaseDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	details := s.purchaseDetails[purchaseID]
	out := make([]*entity.PurchaseDetail, 0, len(details))
	for _, d := range details {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

// ListPurchases compras filtradas por estado ("" = todas).
func (s *Store) ListPurchases(status string, limit, offset int) ([]*entity.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []*entity.Purchase
	for _, p := range s.purchases {
		if status == "" || strings.EqualFold(p.Status, status) {
			cp := *p
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// UpdatePurchaseStatus compare-and-set del estado de la compra.
func (s *Store) UpdatePurchaseStatus(id, from, to, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.purchases[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Status != from {
		return domain.ErrInvalidTransition
	}
	p.Status = to
	if to == entity.StatusApproved || to == entity.StatusRejected {
		now := time.Now()
		p.ApprovedBy = actorID
		p.ApprovedAt = &now
	}
	return nil
}

// DeletePurchase borra la compra y sus líneas.
func (s *Store) DeletePurchase(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.purchases[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.purchases, id)
	delete(s.purchaseDetails, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// ReturnRepository
// ──────────────────────────────────────────────────────────────────────────────

// CreateReturn persiste la devolución.
func (s *Store) CreateReturn(r *entity.Return) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.returns[r.ID] = &cp
	return nil
}

// GetReturn devuelve la devolución o nil.
func (s *Store) GetReturn(id string) (*entity.Return, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.returns[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

// ListReturns devoluciones filtradas por estado ("" = todas).
func (s *Store) ListReturns(status string, limit, offset int) ([]*entity.Return, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []*entity.Return
	for _, r := range s.returns {
		if status == "" || strings.EqualFold(r.Status, status) {
			cp := *r
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// UpdateReturnStatus compare-and-set del estado de la devolución.
func (s *Store) UpdateReturnStatus(id, from, to, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.returns[id]
	if !ok {
		return domain.ErrNotFound
	}
	if r.Status != from {
		return domain.ErrInvalidTransition
	}
	r.Status = to
	if to == entity.StatusApproved || to == entity.StatusRejected {
		now := time.Now()
		r.ApprovedBy = actorID
		r.ApprovedAt = &now
	}
	return nil
}

// DeleteReturn borra la devolución.
func (s *Store) DeleteReturn(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.returns[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.returns, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// UserRepository
// ──────────────────────────────────────────────────────────────────────────────

// CreateUser persiste el usuario; email duplicado retorna ErrEmailAlreadyExists.
func (s *Store) CreateUser(u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

// GetUser devuelve el usuario o nil.
func (s *Store) GetUser(id string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// FindByEmail devuelve el usuario por email o nil.
func (s *Store) FindByEmail(email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// AuditSink
// ──────────────────────────────────────────────────────────────────────────────

// Record agrega un registro de auditoría (observacional).
func (s *Store) Record(actorID, action, entityType, entityID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditLogs = append(s.auditLogs, &entity.AuditLog{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  at,
	})
}

// AuditLogs copia de los registros (para tests y el feed de actividad).
func (s *Store) AuditLogs() []*entity.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.AuditLog, 0, len(s.auditLogs))
	for _, a := range s.auditLogs {
		cp := *a
		out = append(out, &cp)
	}
	return out
}
