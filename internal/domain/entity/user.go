package entity

import "time"

// Roles del sistema, de mayor a menor privilegio.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleStaff      = "staff"
	RoleViewer     = "viewer"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	FullName     string
	Role         string
	PasswordHash string
	AvatarURL    string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
