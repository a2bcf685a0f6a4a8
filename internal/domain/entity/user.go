package entity

import "time"

// Roles de usuario conocidos por el módulo de materiales.
const (
	RoleAdmin    = "admin"
	RoleApprover = "approver"
	RoleMember   = "member"
)

// User usuario del laboratorio (propiedad del subsistema de autenticación; aquí solo lectura).
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	Role         string
	CreatedAt    time.Time
}
