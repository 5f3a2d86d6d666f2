package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para Invoice y detalles.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateDetail(detail *entity.InvoiceDetail) error
	GetByID(id string) (*entity.Invoice, error)
	GetDetailsByInvoiceID(invoiceID string) ([]*entity.InvoiceDetail, error)
	List(limit, offset int) ([]*entity.Invoice, error)
	// Delete borra cabecera y detalles. El kardex conserva los movimientos SALE y sus
	// REVERSAL: el documento desaparece, el historial no.
	Delete(id string) error
}
