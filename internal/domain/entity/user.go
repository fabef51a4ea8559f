package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleGuardia   = "guardia"
	RoleResidente = "residente"
)

// User representa un usuario del sistema (administrador, guardia de caseta o residente).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, guardia, residente
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
