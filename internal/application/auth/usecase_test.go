package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/perfumes-admin-api/internal/application/auth"
	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/infrastructure/memory"
	"github.com/jhoicas/perfumes-admin-api/pkg/jwt"
	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
)

const secret = "test-secret-key-for-unit-tests"

func newUseCase() (*auth.AuthUseCase, *memory.Store) {
	store := memory.New()
	uc := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"}, logger.Nop())
	return uc, store
}

func TestRegisterLoginMe(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	user, err := uc.Register(ctx, dto.RegisterRequest{Username: " vale ", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "vale", user.Username)
	assert.Equal(t, "ADMIN", user.Role)
	assert.True(t, user.IsActive)

	tok, err := uc.Login(ctx, dto.LoginRequest{Username: "vale", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	userID, username, role, err := jwt.Parse(secret, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, "vale", username)
	assert.Equal(t, "ADMIN", role)

	me, err := uc.Me(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "vale", me.Username)
}

func TestRegister_Validaciones(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.Register(ctx, dto.RegisterRequest{Username: "vale", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Register(ctx, dto.RegisterRequest{Username: "  ", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Register(ctx, dto.RegisterRequest{Username: "vale", Password: "secreto123"})
	require.NoError(t, err)
	_, err = uc.Register(ctx, dto.RegisterRequest{Username: "vale", Password: "otroSecreto"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Username: "vale", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "vale", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMe_UsuarioInexistente(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Me(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivoEsForbidden(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	inactive := &entity.User{Username: "baja", PasswordHash: string(hash), IsActive: false, Role: entity.RoleAdmin}
	require.NoError(t, store.Users().Create(ctx, inactive))

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "baja", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Me(ctx, inactive.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
