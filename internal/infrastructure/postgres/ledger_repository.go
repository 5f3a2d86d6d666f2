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

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del kardex sobre PostgreSQL (usable con pool o tx).
// La tabla stock_movements solo recibe INSERT: las correcciones son filas REVERSAL.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append persiste un movimiento nuevo. Seq lo asigna la base: MAX(seq)+1 por producto,
// seguro bajo concurrencia porque el applier serializa las escrituras por producto.
func (r *LedgerRepo) Append(m *entity.StockMovement) error {
	if m.Quantity == 0 {
		return domain.ErrInvalidMovement
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	var docType, docID *string
	if m.Source != nil {
		docType, docID = &m.Source.Type, &m.Source.ID
	}
	var reversesID *string
	if m.ReversesID != "" {
		reversesID = &m.ReversesID
	}
	query := `
		INSERT INTO stock_movements (id, product_id, quantity, cause, doc_type, doc_id, reverses_movement_id, actor_id, note, seq, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM stock_movements WHERE product_id = $2), $10)
		RETURNING seq`
	err := r.q.QueryRow(context.Background(), query,
		m.ID, m.ProductID, m.Quantity, m.Cause, docType, docID, reversesID,
		m.ActorID, m.Note, m.CreatedAt,
	).Scan(&m.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID (nil si no existe).
func (r *LedgerRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, quantity, cause, doc_type, doc_id, reverses_movement_id, actor_id, note, seq, created_at
		FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// SumFor devuelve la suma firmada de todos los movimientos del producto.
func (r *LedgerRepo) SumFor(productID string) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_movements WHERE product_id = $1`
	var sum int64
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

// FindByDocument devuelve los movimientos ligados a un documento origen.
func (r *LedgerRepo) FindByDocument(docType, docID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, quantity, cause, doc_type, doc_id, reverses_movement_id, actor_id, note, seq, created_at
		FROM stock_movements WHERE doc_type = $1 AND doc_id = $2
		ORDER BY created_at ASC, seq ASC`
	rows, err := r.q.Query(context.Background(), query, docType, docID)
	if err != nil {
		return nil, fmt.Errorf("find by document: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// FindReversalOf devuelve el REVERSAL que apunta al movimiento dado, o nil si no existe.
func (r *LedgerRepo) FindReversalOf(movementID string) (*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, quantity, cause, doc_type, doc_id, reverses_movement_id, actor_id, note, seq, created_at
		FROM stock_movements WHERE reverses_movement_id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, movementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find reversal: %w", err)
	}
	return m, nil
}

// ListByProduct lista los movimientos de un producto, más recientes primero.
func (r *LedgerRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, quantity, cause, doc_type, doc_id, reverses_movement_id, actor_id, note, seq, created_at
		FROM stock_movements WHERE product_id = $1
		ORDER BY seq DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list by product: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListProductIDs devuelve los productos con al menos un movimiento (para el auditor).
func (r *LedgerRepo) ListProductIDs() ([]string, error) {
	query := `SELECT DISTINCT product_id FROM stock_movements`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var docType, docID, reversesID *string
	if err := row.Scan(&m.ID, &m.ProductID, &m.Quantity, &m.Cause, &docType, &docID,
		&reversesID, &m.ActorID, &m.Note, &m.Seq, &m.CreatedAt); err != nil {
		return nil, err
	}
	if docType != nil && docID != nil {
		m.Source = &entity.SourceDocument{Type: *docType, ID: *docID}
	}
	if reversesID != nil {
		m.ReversesID = *reversesID
	}
	return &m, nil
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var docType, docID, reversesID *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Quantity, &m.Cause, &docType, &docID,
			&reversesID, &m.ActorID, &m.Note, &m.Seq, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if docType != nil && docID != nil {
			m.Source = &entity.SourceDocument{Type: *docType, ID: *docID}
		}
		if reversesID != nil {
			m.ReversesID = *reversesID
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
