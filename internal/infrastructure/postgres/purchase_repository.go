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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera de una compra (nace PENDING).
func (r *PurchaseRepo) Create(p *entity.Purchase) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO purchases (id, supplier_id, number, status, date, total, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.SupplierID, p.Number, p.Status, p.Date, p.Total, p.CreatedAt, p.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea de compra.
func (r *PurchaseRepo) CreateDetail(d *entity.PurchaseDetail) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_details (id, purchase_id, product_id, quantity, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.PurchaseID, d.ProductID, d.Quantity, d.UnitCost, d.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("create purchase detail: %w", err)
	}
	return nil
}

// GetByID obtiene una compra por ID (nil si no existe).
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `
		SELECT id, supplier_id, number, status, date, total, created_at, created_by, approved_by, approved_at
		FROM purchases WHERE id = $1`
	p, err := scanPurchase(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// GetDetailsByPurchaseID obtiene las líneas de una compra.
func (r *PurchaseRepo) GetDetailsByPurchaseID(purchaseID string) ([]*entity.PurchaseDetail, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, unit_cost, subtotal
		FROM purchase_details WHERE purchase_id = $1`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get purchase details: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseDetail
	for rows.Next() {
		var d entity.PurchaseDetail
		if err := rows.Scan(&d.ID, &d.PurchaseID, &d.ProductID, &d.Quantity, &d.UnitCost, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// List lista compras paginadas, opcionalmente filtradas por estado.
func (r *PurchaseRepo) List(status string, limit, offset int) ([]*entity.Purchase, error) {
	query := `
		SELECT id, supplier_id, number, status, date, total, created_at, created_by, approved_by, approved_at
		FROM purchases`
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
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchaseRows(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateStatus compare-and-set del estado: solo escribe si el estado actual es from.
// Cero filas afectadas significa que otro actor ganó la transición (ErrInvalidTransition).
func (r *PurchaseRepo) UpdateStatus(id, from, to, actorID string) error {
	query := `
		UPDATE purchases
		SET status = $3, approved_by = $4, approved_at = now()
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(context.Background(), query, id, from, to, actorID)
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// Delete borra cabecera y líneas. El kardex conserva los movimientos.
func (r *PurchaseRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM purchase_details WHERE purchase_id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase details: %w", err)
	}
	tag, err := r.q.Exec(context.Background(), `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	var approvedBy *string
	if err := row.Scan(&p.ID, &p.SupplierID, &p.Number, &p.Status, &p.Date, &p.Total,
		&p.CreatedAt, &p.CreatedBy, &approvedBy, &p.ApprovedAt); err != nil {
		return nil, err
	}
	if approvedBy != nil {
		p.ApprovedBy = *approvedBy
	}
	return &p, nil
}

func scanPurchaseRows(rows pgx.Rows) (*entity.Purchase, error) {
	var p entity.Purchase
	var approvedBy *string
	if err := rows.Scan(&p.ID, &p.SupplierID, &p.Number, &p.Status, &p.Date, &p.Total,
		&p.CreatedAt, &p.CreatedBy, &approvedBy, &p.ApprovedAt); err != nil {
		return nil, fmt.Errorf("scan purchase: %w", err)
	}
	if approvedBy != nil {
		p.ApprovedBy = *approvedBy
	}
	return &p, nil
}
