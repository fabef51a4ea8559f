package access

import (
	"context"
	"strings"
	"time"

	"github.com/tu-usuario/acceso-residencial/internal/domain/repository"
)

// NotificationGateway es el contrato del canal de notificación saliente (WhatsApp).
// Los fallos ordinarios de entrega (sin red, canal caído, destinatario inalcanzable)
// nunca se propagan como error: se reporta false y el negocio continúa.
type NotificationGateway interface {
	SendApproval(phone, token, visitorName, plates string) bool
	SendPreRegistrationNotice(phone, residentName, visitorName string, arrivalTime time.Time) bool
}

// Notifier encola notificaciones fuera del camino crítico de la petición.
// Los casos de uso nunca esperan la entrega: encolan y responden.
type Notifier interface {
	EnqueueApproval(phone, token, visitorName, plates string)
	EnqueueNotice(phone, residentName, visitorName string, arrivalTime time.Time)
}

// ApprovalTxRunner ejecuta el canje de token (flip de estado + inserción del
// pre-registro derivado) dentro de una sola transacción.
type ApprovalTxRunner interface {
	RunApproval(ctx context.Context, fn func(
		intRepo repository.IntermediateRegistrationRepository,
		preRepo repository.PreRegistrationRepository,
	) error) error
}

// NormalizePlates recorta espacios y pasa a mayúsculas. Todas las operaciones sobre
// placas comparan contra la forma normalizada.
func NormalizePlates(plates string) string {
	return strings.ToUpper(strings.TrimSpace(plates))
}
