package entity

import "time"

// Direcciones de un movimiento en caseta.
const (
	AccessEntrada = "ENTRADA"
	AccessSalida  = "SALIDA"
)

// AccessLog es un movimiento registrado en caseta por un guardia: entrada o salida
// de un visitante o vehículo. Es un registro append-only.
type AccessLog struct {
	ID           string
	Plates       string // opcional: peatones no llevan placas
	VisitorName  string
	HouseVisited string
	Direction    string // ENTRADA | SALIDA
	GuardID      string // identidad del guardia que registró el movimiento
	Comments     string
	CreatedAt    time.Time
}
