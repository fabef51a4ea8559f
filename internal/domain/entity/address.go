package entity

import "time"

// Community representa un residencial/privada administrado por el sistema.
type Community struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// House es una casa dentro de una comunidad. El teléfono de contacto es el que
// recibe las notificaciones de aprobación y de visitas esperadas.
type House struct {
	ID           string
	CommunityID  string
	Number       string
	ResidentName string
	ContactPhone string
	CreatedAt    time.Time
}
