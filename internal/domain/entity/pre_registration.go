package entity

import "time"

// Estados del ciclo de vida de un pre-registro. Máquina de estados lineal estricta:
// PENDIENTE -> DENTRO -> FUERA, sin saltos ni retrocesos.
const (
	PreRegPendiente = "PENDIENTE" // esperado, aún no llega
	PreRegDentro    = "DENTRO"    // actualmente dentro del residencial
	PreRegFuera     = "FUERA"     // ya salió
)

// PreRegistration es una visita esperada confirmada por la comunidad.
// Invariante: a lo sumo un registro PENDIENTE por placa (índice único parcial en DB).
type PreRegistration struct {
	ID                   string
	Plates               string // normalizadas a mayúsculas
	VisitorName          string
	Brand                string // opcional
	Color                string // opcional
	HouseVisited         string // "{Comunidad} - Casa {Número}"
	ArrivalTime          time.Time
	PersonToVisit        string
	Status               string // PENDIENTE | DENTRO | FUERA
	Comments             string // opcional
	SourceRegistrationID string // ID del registro intermedio origen, vacío en alta directa
	CreatedAt            time.Time
	ExpiresAt            *time.Time
	CreatedBy            string // opcional
}
