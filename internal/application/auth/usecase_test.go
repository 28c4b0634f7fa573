package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tulsipower/production-monitor/internal/application/apptest"
	"github.com/tulsipower/production-monitor/internal/application/auth"
	"github.com/tulsipower/production-monitor/internal/application/dto"
	"github.com/tulsipower/production-monitor/internal/domain"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/pkg/jwt"
)

func newAuth(t *testing.T) (*auth.AuthUseCase, *apptest.UserRepo) {
	t.Helper()
	users := apptest.NewUserRepo()
	uc := auth.NewAuthUseCase(users, auth.JWTConfig{
		Secret:     "test-secret",
		ExpMinutes: 60,
		Issuer:     "test",
	})
	return uc, users
}

func TestRegisterUser_HasheaYAsignaRolPorDefecto(t *testing.T) {
	uc, users := newAuth(t)

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "operador@planta.com",
		Password: "secreto123",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOperator, resp.Role)
	assert.Equal(t, "operador@planta.com", resp.Name)

	stored, _ := users.GetByEmail("operador@planta.com")
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreto123", stored.PasswordHash)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newAuth(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "a@b.com", Password: "secreto123"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "a@b.com", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_TokenValido(t *testing.T) {
	uc, _ := newAuth(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "admin@planta.com", Password: "secreto123", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "admin@planta.com", Password: "secreto123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	userID, role, err := jwt.Parse("test-secret", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newAuth(t)

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@planta.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "a@b.com", Password: "secreto123"})
	require.NoError(t, err)
	_, err = uc.Login(dto.LoginRequest{Email: "a@b.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
