package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/auth"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
)

func seedAuthzUser(t *testing.T, store *memory.Store, role, status string) string {
	t.Helper()
	u := &entity.User{
		ID:           uuid.New().String(),
		Email:        uuid.New().String() + "@kardex.local",
		PasswordHash: "irrelevante",
		Role:         role,
		Status:       status,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, store.CreateUser(u))
	return u.ID
}

func TestRoleAuthorizer_ResuelveDesdeElRolPersistido(t *testing.T) {
	store := memory.New()
	authz := auth.NewRoleAuthorizer(store.Users())

	admin := seedAuthzUser(t, store, entity.RoleAdmin, "active")
	vendedor := seedAuthzUser(t, store, entity.RoleVendedor, "active")
	inactivo := seedAuthzUser(t, store, entity.RoleAdmin, "inactive")

	assert.NoError(t, authz.Authorize(admin, entity.CapAdjustStock))
	assert.NoError(t, authz.Authorize(vendedor, entity.CapCreateInvoice))

	// Rol sin la capacidad
	assert.ErrorIs(t, authz.Authorize(vendedor, entity.CapAdjustStock), domain.ErrForbidden)

	// Actor vacío, inexistente o no activo: nunca Forbidden, siempre Unauthorized
	assert.ErrorIs(t, authz.Authorize("", entity.CapViewLedger), domain.ErrUnauthorized)
	assert.ErrorIs(t, authz.Authorize(uuid.New().String(), entity.CapViewLedger), domain.ErrUnauthorized)
	assert.ErrorIs(t, authz.Authorize(inactivo, entity.CapViewLedger), domain.ErrUnauthorized)
}
