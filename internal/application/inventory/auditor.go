package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// Auditor recorre periódicamente los productos con movimientos y verifica la invariante
// de reconciliación. Una discrepancia se reporta a nivel error y no se corrige: la deriva
// solo puede venir de una violación del contrato del Applier y debe investigarse.
type Auditor struct {
	applier  *Applier
	ledger   repository.LedgerRepository
	interval time.Duration
	log      *logger.Logger
}

// NewAuditor construye el auditor de reconciliación.
func NewAuditor(applier *Applier, ledger repository.LedgerRepository, interval time.Duration, log *logger.Logger) *Auditor {
	return &Auditor{applier: applier, ledger: ledger, interval: interval, log: log.WithComponent("auditor")}
}

// Run bloquea ejecutando un barrido por intervalo hasta que el contexto se cancele.
// Lanzar en una goroutine desde main.
func (a *Auditor) Run(ctx context.Context) {
	if a.interval <= 0 {
		return
	}
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.sweep(ctx)
		}
	}
}

// Sweep ejecuta un barrido completo y devuelve el número de productos con deriva.
// Exportado para poder dispararlo desde un endpoint de administración.
func (a *Auditor) Sweep(ctx context.Context) int {
	return a.sweep(ctx)
}

func (a *Auditor) sweep(ctx context.Context) int {
	ids, err := a.ledger.ListProductIDs()
	if err != nil {
		a.log.Error().Err(err).Msg("auditor: listar productos del kardex")
		return 0
	}
	drifted := 0
	for _, id := range ids {
		rec, err := a.applier.Reconcile(ctx, id)
		if err != nil {
			a.log.Error().Err(err).Str("product_id", id).Msg("auditor: reconciliación falló")
			continue
		}
		if !rec.OK {
			drifted++
			a.log.Error().
				Str("product_id", id).
				Int64("ledger_sum", rec.LedgerSum).
				Int64("cached_quantity", rec.CachedQuantity).
				Msg("auditor: deriva entre kardex y cantidad cacheada")
		}
	}
	a.log.Debug().Int("products", len(ids)).Int("drifted", drifted).Msg("auditor: barrido completo")
	return drifted
}
