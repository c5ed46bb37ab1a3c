package entity

import "time"

// Role rol de usuario. Hoy todos los usuarios son administradores.
type Role string

const (
	RoleAdmin Role = "ADMIN"
)

// Valid indica si el rol es conocido.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin:
		return true
	}
	return false
}

// User usuario del panel de administración.
type User struct {
	ID           int64
	Username     string
	FullName     *string
	Email        *string
	PasswordHash string // bcrypt
	IsActive     bool
	Role         Role
	CreatedAt    time.Time
}
