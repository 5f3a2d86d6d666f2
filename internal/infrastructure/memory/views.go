package memory

import (
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/ports"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Vistas tipadas del store: cada puerto de persistencia se sirve con un wrapper fino
// sobre el mismo Store, igual que los adaptadores postgres comparten pool. Los nombres
// de método de los puertos colisionan entre sí (GetByID, Create, ...), por eso el Store
// usa nombres largos y las vistas adaptan.

var (
	_ repository.LedgerRepository   = ledgerView{}
	_ repository.ProductRepository  = productView{}
	_ repository.InvoiceRepository  = invoiceView{}
	_ repository.PurchaseRepository = purchaseView{}
	_ repository.ReturnRepository   = returnView{}
	_ repository.UserRepository     = userView{}
	_ inventory.TxRunner            = (*Store)(nil)
	_ ports.AuditSink               = (*Store)(nil)
)

// Ledger vista LedgerRepository.
func (s *Store) Ledger() repository.LedgerRepository { return ledgerView{s} }

// Products vista ProductRepository.
func (s *Store) Products() repository.ProductRepository { return productView{s} }

// Invoices vista InvoiceRepository.
func (s *Store) Invoices() repository.InvoiceRepository { return invoiceView{s} }

// Purchases vista PurchaseRepository.
func (s *Store) Purchases() repository.PurchaseRepository { return purchaseView{s} }

// Returns vista ReturnRepository.
func (s *Store) Returns() repository.ReturnRepository { return returnView{s} }

// Users vista UserRepository.
func (s *Store) Users() repository.UserRepository { return userView{s} }

type ledgerView struct{ s *Store }

func (v ledgerView) Append(m *entity.StockMovement) error            { return v.s.Append(m) }
func (v ledgerView) GetByID(id string) (*entity.StockMovement, error) { return v.s.GetMovement(id) }
func (v ledgerView) SumFor(productID string) (int64, error)           { return v.s.SumFor(productID) }
func (v ledgerView) FindByDocument(docType, docID string) ([]*entity.StockMovement, error) {
	return v.s.FindByDocument(docType, docID)
}
func (v ledgerView) FindReversalOf(movementID string) (*entity.StockMovement, error) {
	return v.s.FindReversalOf(movementID)
}
func (v ledgerView) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return v.s.ListByProduct(productID, limit, offset)
}
func (v ledgerView) ListProductIDs() ([]string, error) { return v.s.ListProductIDs() }

type productView struct{ s *Store }

func (v productView) Create(p *entity.Product) error            { return v.s.CreateProduct(p) }
func (v productView) GetByID(id string) (*entity.Product, error) { return v.s.GetProduct(id) }
func (v productView) GetBySKU(sku string) (*entity.Product, error) {
	return v.s.GetBySKU(sku)
}
func (v productView) GetForUpdate(id string) (*entity.Product, error) { return v.s.GetForUpdate(id) }
func (v productView) Update(p *entity.Product) error                  { return v.s.UpdateProduct(p) }
func (v productView) UpdateQuantity(productID string, quantity int64) error {
	return v.s.UpdateQuantity(productID, quantity)
}
func (v productView) List(limit, offset int) ([]*entity.Product, error) {
	return v.s.ListProducts(limit, offset)
}
func (v productView) ListBelowReorder() ([]*entity.Product, error) { return v.s.ListBelowReorder() }
func (v productView) Delete(id string) error                       { return v.s.DeleteProduct(id) }

type invoiceView struct{ s *Store }

func (v invoiceView) Create(inv *entity.Invoice) error { return v.s.CreateInvoice(inv) }
func (v invoiceView) CreateDetail(d *entity.InvoiceDetail) error {
	return v.s.CreateInvoiceDetail(d)
}
func (v invoiceView) GetByID(id string) (*entity.Invoice, error) { return v.s.GetInvoice(id) }
func (v invoiceView) GetDetailsByInvoiceID(invoiceID string) ([]*entity.InvoiceDetail, error) {
	return v.s.GetDetailsByInvoiceID(invoiceID)
}
func (v invoiceView) List(limit, offset int) ([]*entity.Invoice, error) {
	return v.s.ListInvoices(limit, offset)
}
func (v invoiceView) Delete(id string) error { return v.s.DeleteInvoice(id) }

type purchaseView struct{ s *Store }

func (v purchaseView) Create(p *entity.Purchase) error { return v.s.CreatePurchase(p) }
func (v purchaseView) CreateDetail(d *entity.PurchaseDetail) error {
	return v.s.CreatePurchaseDetail(d)
}
func (v purchaseView) GetByID(id string) (*entity.Purchase, error) { return v.s.GetPurchase(id) }
func (v purchaseView) GetDetailsByPurchaseID(purchaseID string) ([]*entity.PurchaseDetail, error) {
	return v.s.GetDetailsByPurchaseID(purchaseID)
}
func (v purchaseView) List(status string, limit, offset int) ([]*entity.Purchase, error) {
	return v.s.ListPurchases(status, limit, offset)
}
func (v purchaseView) UpdateStatus(id, from, to, actorID string) error {
	return v.s.UpdatePurchaseStatus(id, from, to, actorID)
}
func (v purchaseView) Delete(id string) error { return v.s.DeletePurchase(id) }

type returnView struct{ s *Store }

func (v returnView) Create(r *entity.Return) error            { return v.s.CreateReturn(r) }
func (v returnView) GetByID(id string) (*entity.Return, error) { return v.s.GetReturn(id) }
func (v returnView) List(status string, limit, offset int) ([]*entity.Return, error) {
	return v.s.ListReturns(status, limit, offset)
}
func (v returnView) UpdateStatus(id, from, to, actorID string) error {
	return v.s.UpdateReturnStatus(id, from, to, actorID)
}
func (v returnView) Delete(id string) error { return v.s.DeleteReturn(id) }

type userView struct{ s *Store }

func (v userView) Create(u *entity.User) error            { return v.s.CreateUser(u) }
func (v userView) GetByID(id string) (*entity.User, error) { return v.s.GetUser(id) }
func (v userView) FindByEmail(email string) (*entity.User, error) {
	return v.s.FindByEmail(email)
}
