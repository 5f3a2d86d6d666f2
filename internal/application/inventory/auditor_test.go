package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

func TestAuditor_SweepReportaDeriva(t *testing.T) {
	store, applier := newApplier(t)
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	auditor := inventory.NewAuditor(applier, store.Ledger(), time.Minute, log)

	sano := seedProduct(t, store, applier, 5)
	corrupto := seedProduct(t, store, applier, 5)
	ctx := context.Background()

	assert.Equal(t, 0, auditor.Sweep(ctx), "sin deriva recién sembrado")

	// Corromper un agregado por fuera del applier
	require.NoError(t, store.UpdateQuantity(corrupto.ID, 99))

	assert.Equal(t, 1, auditor.Sweep(ctx))
	assert.Equal(t, int64(5), currentQty(t, store, sano.ID), "el auditor no corrige nada")
	assert.Equal(t, int64(99), currentQty(t, store, corrupto.ID))
}
