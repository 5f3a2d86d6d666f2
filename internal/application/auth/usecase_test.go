package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Kardex-api/internal/application/auth"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/Kardex-api/pkg/jwt"
)

const testSecret = "secreto-de-pruebas-no-usar-en-prod"

func newAuthUC() (*auth.AuthUseCase, *memory.Store) {
	store := memory.New()
	uc := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "kardex-api-test",
	})
	return uc, store
}

func TestRegisterYLogin_CicloCompleto(t *testing.T) {
	uc, _ := newAuthUC()

	user, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "bodega@kardex.local",
		Password: "clave-segura-123",
		Name:     "Encargado de bodega",
		Role:     entity.RoleBodeguero,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBodeguero, user.Role)
	assert.Equal(t, "active", user.Status)

	resp, err := uc.Login(dto.LoginRequest{
		Email:    "bodega@kardex.local",
		Password: "clave-segura-123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)

	// El token carga identidad y rol verificables
	userID, role, err := pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, entity.RoleBodeguero, role)
}

func TestRegisterUser_Defaults(t *testing.T) {
	uc, _ := newAuthUC()

	// Sin nombre ni rol: nombre = email, rol = vendedor
	user, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "nuevo@kardex.local",
		Password: "clave-segura-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@kardex.local", user.Name)
	assert.Equal(t, entity.RoleVendedor, user.Role)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthUC()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "dup@kardex.local", Password: "clave-segura-123"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "dup@kardex.local", Password: "otra-clave-456"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_CredencialesYEstado(t *testing.T) {
	uc, store := newAuthUC()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "v@kardex.local", Password: "clave-segura-123"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "no-existe@kardex.local", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(dto.LoginRequest{Email: "v@kardex.local", Password: "clave-equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Usuario suspendido: credenciales correctas pero acceso denegado
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura-123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(&entity.User{
		ID:           uuid.New().String(),
		Email:        "suspendido@kardex.local",
		PasswordHash: string(hash),
		Role:         entity.RoleVendedor,
		Status:       "suspended",
		CreatedAt:    time.Now(),
	}))

	_, err = uc.Login(dto.LoginRequest{Email: "suspendido@kardex.local", Password: "clave-segura-123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
