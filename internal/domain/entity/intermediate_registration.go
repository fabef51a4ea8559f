package entity

import "time"

// Estados de un registro intermedio.
const (
	IntermediateAwaitingApproval = "AWAITING_APPROVAL"
	IntermediateApproved         = "APPROVED"
)

// IntermediateRegistration es una solicitud de visita provisional, pendiente de que
// el residente la confirme por WhatsApp. El token de aprobación es único y de un
// solo uso: una vez APPROVED el registro nunca vuelve a aprobarse.
type IntermediateRegistration struct {
	ID            string
	Plates        string
	VisitorName   string
	Brand         string // opcional
	Color         string // opcional
	CommunityID   string
	CommunityName string
	HouseNumber   string
	ContactPhone  string // denormalizado al crear: teléfono de la casa en ese momento
	ArrivalTime   *time.Time
	PersonToVisit string
	Status        string // AWAITING_APPROVAL | APPROVED
	ApprovalToken string
	ApprovedAt    *time.Time
	CreatedAt     time.Time
}

// HouseLabel devuelve el identificador compuesto de la casa visitada, usado al
// convertir el registro intermedio en pre-registro.
func (r *IntermediateRegistration) HouseLabel() string {
	return r.CommunityName + " - Casa " + r.HouseNumber
}
