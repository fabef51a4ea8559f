package entity

import "time"

// Vehicle es un vehículo registrado en el catálogo (residentes y frecuentes).
type Vehicle struct {
	ID        string
	Plates    string // normalizadas a mayúsculas, únicas
	Brand     string
	Color     string
	OwnerName string
	HouseID   string // opcional: casa a la que pertenece
	CreatedAt time.Time
	UpdatedAt time.Time
}
