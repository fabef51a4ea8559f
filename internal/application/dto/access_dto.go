package dto

import "time"

// CreateIntermediateRegistrationRequest entrada del formulario público de intake.
// community_id y house_number deben resolver a una casa conocida.
type CreateIntermediateRegistrationRequest struct {
	Plates        string     `json:"plates" validate:"required"`
	VisitorName   string     `json:"visitor_name" validate:"omitempty,max=200"`
	Brand         string     `json:"brand" validate:"omitempty,max=100"`
	Color         string     `json:"color" validate:"omitempty,max=50"`
	CommunityID   string     `json:"community_id" validate:"required"`
	HouseNumber   string     `json:"house_number" validate:"required"`
	ArrivalTime   *time.Time `json:"arrival_time"`
	PersonToVisit string     `json:"person_to_visit" validate:"omitempty,max=200"`
}

// IntermediateRegistrationResponse salida de un registro intermedio. Incluye el
// token para que la UI pueda mostrar un enlace de aprobación manual de respaldo.
type IntermediateRegistrationResponse struct {
	ID            string     `json:"id"`
	Plates        string     `json:"plates"`
	VisitorName   string     `json:"visitor_name,omitempty"`
	Brand         string     `json:"brand,omitempty"`
	Color         string     `json:"color,omitempty"`
	CommunityID   string     `json:"community_id"`
	CommunityName string     `json:"community_name"`
	HouseNumber   string     `json:"house_number"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty"`
	PersonToVisit string     `json:"person_to_visit,omitempty"`
	Status        string     `json:"status"`
	ApprovalToken string     `json:"approval_token"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ApproveResponse resultado de canjear un token de aprobación.
type ApproveResponse struct {
	Approved bool `json:"approved"`
}

// CreatePreRegistrationRequest alta directa de un pre-registro (sin pasar por el
// flujo de aprobación).
type CreatePreRegistrationRequest struct {
	Plates        string     `json:"plates" validate:"required"`
	VisitorName   string     `json:"visitor_name" validate:"required,max=200"`
	Brand         string     `json:"brand" validate:"omitempty,max=100"`
	Color         string     `json:"color" validate:"omitempty,max=50"`
	HouseVisited  string     `json:"house_visited" validate:"required,max=200"`
	ArrivalTime   time.Time  `json:"arrival_time" validate:"required"`
	PersonToVisit string     `json:"person_to_visit" validate:"required,max=200"`
	Comments      string     `json:"comments" validate:"omitempty,max=500"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// PreRegistrationResponse salida de un pre-registro.
type PreRegistrationResponse struct {
	ID                   string     `json:"id"`
	Plates               string     `json:"plates"`
	VisitorName          string     `json:"visitor_name"`
	Brand                string     `json:"brand,omitempty"`
	Color                string     `json:"color,omitempty"`
	HouseVisited         string     `json:"house_visited"`
	ArrivalTime          time.Time  `json:"arrival_time"`
	PersonToVisit        string     `json:"person_to_visit"`
	Status               string     `json:"status"`
	Comments             string     `json:"comments,omitempty"`
	SourceRegistrationID string     `json:"source_registration_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	CreatedBy            string     `json:"created_by,omitempty"`
}

// ArrivalLookupResponse resultado de la consulta en caseta por placas.
// "No encontrado" es una respuesta normal (found:false), nunca un error HTTP.
type ArrivalLookupResponse struct {
	Found           bool                     `json:"found"`
	PreRegistration *PreRegistrationResponse `json:"pre_registration,omitempty"`
}
