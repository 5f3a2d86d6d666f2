package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo implementación de ReturnRepository sobre PostgreSQL (usable con pool o tx).
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

// Create persiste una devolución (nace PENDING). La referencia exclusiva
// factura-o-compra ya viene validada por el use case.
func (r *ReturnRepo) Create(ret *entity.Return) error {
	if ret.ID == "" {
		ret.ID = uuid.New().String()
	}
	if ret.CreatedAt.IsZero() {
		ret.CreatedAt = time.Now()
	}
	var invoiceID, purchaseID *string
	if ret.InvoiceID != "" {
		invoiceID = &ret.InvoiceID
	}
	if ret.PurchaseID != "" {
		purchaseID = &ret.PurchaseID
	}
	query := `
		INSERT INTO returns (id, invoice_id, purchase_id, product_id, quantity, reason, status, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		ret.ID, invoiceID, purchaseID, ret.ProductID, ret.Quantity,
		ret.Reason, ret.Status, ret.CreatedAt, ret.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create return: %w", err)
	}
	return nil
}

// GetByID obtiene una devolución por ID (nil si no existe).
func (r *ReturnRepo) GetByID(id string) (*entity.Return, error) {
	query := `
		SELECT id, invoice_id, purchase_id, product_id, quantity, reason, status, created_at, created_by, approved_by, approved_at
		FROM returns WHERE id = $1`
	ret, err := scanReturn(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return: %w", err)
	}
	return ret, nil
}

// List lista devoluciones paginadas, opcionalmente filtradas por estado.
func (r *ReturnRepo) List(status string, limit, offset int) ([]*entity.Return, error) {
	query := `
		SELECT id, invoice_id, purchase_id, product_id, quantity, reason, status, created_at, created_by, approved_by, approved_at
		FROM returns`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()
	var list []*entity.Return
	for rows.Next() {
		ret, err := scanReturnRows(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, ret)
	}
	return list, rows.Err()
}

// UpdateStatus compare-and-set del estado, igual que en compras.
func (r *ReturnRepo) UpdateStatus(id, from, to, actorID string) error {
	query := `
		UPDATE returns
		SET status = $3, approved_by = $4, approved_at = now()
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(context.Background(), query, id, from, to, actorID)
	if err != nil {
		return fmt.Errorf("update return status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// Delete borra la devolución. El kardex conserva los movimientos.
func (r *ReturnRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM returns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete return: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanReturn(row pgx.Row) (*entity.Return, error) {
	var ret entity.Return
	var invoiceID, purchaseID, approvedBy *string
	if err := row.Scan(&ret.ID, &invoiceID, &purchaseID, &ret.ProductID, &ret.Quantity,
		&ret.Reason, &ret.Status, &ret.CreatedAt, &ret.CreatedBy, &approvedBy, &ret.ApprovedAt); err != nil {
		return nil, err
	}
	if invoiceID != nil {
		ret.InvoiceID = *invoiceID
	}
	if purchaseID != nil {
		ret.PurchaseID = *purchaseID
	}
	if approvedBy != nil {
		ret.ApprovedBy = *approvedBy
	}
	return &ret, nil
}

func scanReturnRows(rows pgx.Rows) (*entity.Return, error) {
	var ret entity.Return
	var invoiceID, purchaseID, approvedBy *string
	if err := rows.Scan(&ret.ID, &invoiceID, &purchaseID, &ret.ProductID, &ret.Quantity,
		&ret.Reason, &ret.Status, &ret.CreatedAt, &ret.CreatedBy, &approvedBy, &ret.ApprovedAt); err != nil {
		return nil, fmt.Errorf("scan return: %w", err)
	}
	if invoiceID != nil {
		ret.InvoiceID = *invoiceID
	}
	if purchaseID != nil {
		ret.PurchaseID = *purchaseID
	}
	if approvedBy != nil {
		ret.ApprovedBy = *approvedBy
	}
	return &ret, nil
}
