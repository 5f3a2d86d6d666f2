package auth

import (
	"github.com/jhoicas/Kardex-api/internal/application/ports"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ ports.Authorizer = (*RoleAuthorizer)(nil)

// RoleAuthorizer implementa el puerto Authorizer resolviendo capacidades desde el rol
// persistido del usuario. Los workflows lo consultan antes de cualquier llamada al kardex.
type RoleAuthorizer struct {
	userRepo repository.UserRepository
}

// NewRoleAuthorizer construye el autorizador.
func NewRoleAuthorizer(userRepo repository.UserRepository) *RoleAuthorizer {
	return &RoleAuthorizer{userRepo: userRepo}
}

// Authorize verifica que el actor exista, esté activo y su rol incluya la capacidad.
func (a *RoleAuthorizer) Authorize(actorID, capability string) error {
	if actorID == "" {
		return domain.ErrUnauthorized
	}
	user, err := a.userRepo.GetByID(actorID)
	if err != nil {
		return err
	}
	if user == nil || user.Status != "active" {
		return domain.ErrUnauthorized
	}
	if !entity.RoleHasCapability(user.Role, capability) {
		return domain.ErrForbidden
	}
	return nil
}
