package dto

import "time"

// CreateCommunityRequest alta de una comunidad.
type CreateCommunityRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CommunityResponse salida de una comunidad.
type CommunityResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateHouseRequest alta de una casa dentro de una comunidad.
type CreateHouseRequest struct {
	Number       string `json:"number" validate:"required,max=20"`
	ResidentName string `json:"resident_name" validate:"omitempty,max=200"`
	ContactPhone string `json:"contact_phone" validate:"required,max=20"`
}

// HouseResponse salida de una casa.
type HouseResponse struct {
	ID           string    `json:"id"`
	CommunityID  string    `json:"community_id"`
	Number       string    `json:"number"`
	ResidentName string    `json:"resident_name,omitempty"`
	ContactPhone string    `json:"contact_phone"`
	CreatedAt    time.Time `json:"created_at"`
}
