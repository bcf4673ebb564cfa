package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin       = "admin"
	RoleAlmacenista = "almacenista"
	RoleSupervisor  = "supervisor"
	RoleVendedor    = "vendedor"
	RoleRRHH        = "rrhh"
)

// ValidRole indica si el rol es conocido.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleAlmacenista, RoleSupervisor, RoleVendedor, RoleRRHH:
		return true
	}
	return false
}

// User usuario del sistema.
type User struct {
	ID           string
	Email        string // único
	PasswordHash string // bcrypt hash
	Name         string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
