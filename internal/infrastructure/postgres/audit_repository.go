package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Kardex-api/internal/application/ports"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

var _ ports.AuditSink = (*AuditRepo)(nil)

// AuditRepo implementación de AuditSink sobre PostgreSQL.
// El sink es observacional: un fallo al insertar se loguea y no propaga, para que
// la auditoría nunca tumbe una operación de negocio que ya se completó.
type AuditRepo struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewAuditRepository construye el sink con el pool.
func NewAuditRepository(pool *pgxpool.Pool, log *logger.Logger) *AuditRepo {
	return &AuditRepo{pool: pool, log: log}
}

// Record inserta un registro de auditoría.
func (r *AuditRepo) Record(actorID, action, entityType, entityID string, at time.Time) {
	query := `
		INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(context.Background(), query,
		uuid.New().String(), actorID, action, entityType, entityID, at,
	)
	if err != nil {
		r.log.Error().Err(err).Str("action", action).Str("entity_id", entityID).
			Msg("no se pudo registrar auditoría")
	}
}
