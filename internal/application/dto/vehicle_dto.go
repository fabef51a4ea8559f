package dto

import "time"

// CreateVehicleRequest alta de un vehículo en el catálogo.
type CreateVehicleRequest struct {
	Plates    string `json:"plates" validate:"required,max=20"`
	Brand     string `json:"brand" validate:"omitempty,max=100"`
	Color     string `json:"color" validate:"omitempty,max=50"`
	OwnerName string `json:"owner_name" validate:"omitempty,max=200"`
	HouseID   string `json:"house_id" validate:"omitempty"`
}

// UpdateVehicleRequest actualización de un vehículo (placas no cambian).
type UpdateVehicleRequest struct {
	Brand     string `json:"brand" validate:"omitempty,max=100"`
	Color     string `json:"color" validate:"omitempty,max=50"`
	OwnerName string `json:"owner_name" validate:"omitempty,max=200"`
	HouseID   string `json:"house_id" validate:"omitempty"`
}

// VehicleResponse salida de un vehículo.
type VehicleResponse struct {
	ID        string    `json:"id"`
	Plates    string    `json:"plates"`
	Brand     string    `json:"brand,omitempty"`
	Color     string    `json:"color,omitempty"`
	OwnerName string    `json:"owner_name,omitempty"`
	HouseID   string    `json:"house_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
