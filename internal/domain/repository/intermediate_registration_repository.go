package repository

import (
	"time"

	"github.com/tu-usuario/acceso-residencial/internal/domain/entity"
)

// IntermediateRegistrationRepository define el puerto de persistencia para
// registros intermedios (solicitudes de visita pendientes de aprobación).
type IntermediateRegistrationRepository interface {
	Create(r *entity.IntermediateRegistration) error
	GetByID(id string) (*entity.IntermediateRegistration, error)
	// Approve marca como APPROVED el registro con ese token solo si sigue en
	// AWAITING_APPROVAL y devuelve el registro actualizado; nil si el token no
	// existe o ya fue consumido (update condicional, idempotente bajo concurrencia).
	Approve(token string, approvedAt time.Time) (*entity.IntermediateRegistration, error)
	// ListPending devuelve los registros AWAITING_APPROVAL, más recientes primero.
	ListPending() ([]*entity.IntermediateRegistration, error)
}
