package dto

import "time"

// CreateAccessLogRequest registro manual de un movimiento en caseta.
type CreateAccessLogRequest struct {
	Plates       string `json:"plates" validate:"omitempty,max=20"`
	VisitorName  string `json:"visitor_name" validate:"required,max=200"`
	HouseVisited string `json:"house_visited" validate:"required,max=200"`
	Direction    string `json:"direction" validate:"required,oneof=ENTRADA SALIDA"`
	Comments     string `json:"comments" validate:"omitempty,max=500"`
}

// AccessLogResponse salida de un movimiento de caseta.
type AccessLogResponse struct {
	ID           string    `json:"id"`
	Plates       string    `json:"plates,omitempty"`
	VisitorName  string    `json:"visitor_name"`
	HouseVisited string    `json:"house_visited"`
	Direction    string    `json:"direction"`
	GuardID      string    `json:"guard_id"`
	Comments     string    `json:"comments,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
