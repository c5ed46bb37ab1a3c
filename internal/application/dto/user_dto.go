package dto

import "time"

// RegisterRequest entrada para registro.
type RegisterRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

// LoginRequest credenciales; se acepta JSON o formulario (OAuth2 password flow).
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// TokenResponse token de acceso.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  *string   `json:"full_name"`
	Email     *string   `json:"email"`
	IsActive  bool      `json:"is_active"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
