package auth

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
	"github.com/jhoicas/perfumes-admin-api/pkg/jwt"
	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
)

const (
	minPasswordLen  = 8
	maxUsernameLen  = 50
	maxFullNameLen  = 120
	maxEmailLen     = 120
	bearerTokenType = "bearer"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y usuario actual.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log.Named("auth"), now: time.Now}
}

// Register crea un usuario administrador. Username o email repetido devuelve ErrAlreadyExists.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, domain.Invalid("username", "requerido")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return nil, domain.Invalid("username", "máximo %d caracteres", maxUsernameLen)
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		return nil, domain.Invalid("password", "mínimo %d caracteres", minPasswordLen)
	}
	fullName, err := optionalText("full_name", in.FullName, maxFullNameLen)
	if err != nil {
		return nil, err
	}
	email, err := optionalText("email", in.Email, maxEmailLen)
	if err != nil {
		return nil, err
	}
	if email != nil && !strings.Contains(*email, "@") {
		return nil, domain.Invalid("email", "formato inválido")
	}

	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Username:     username,
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
		Role:         entity.RoleAdmin,
		CreatedAt:    uc.now(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", user.ID).Str("username", username).Msg("usuario registrado")
	return toUserResponse(user), nil
}

// Login verifica usuario/password y genera el JWT.
// Credenciales inválidas → ErrUnauthorized; usuario inactivo → ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: bearerTokenType}, nil
}

// Me devuelve el usuario del token. Si ya no existe o está inactivo, ErrUnauthorized.
func (uc *AuthUseCase) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return toUserResponse(user), nil
}

func optionalText(field string, s *string, max int) (*string, error) {
	if s == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(v) > max {
		return nil, domain.Invalid(field, "máximo %d caracteres", max)
	}
	return &v, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		IsActive:  u.IsActive,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
