package repository

import "github.com/tu-usuario/acceso-residencial/internal/domain/entity"

// PreRegistrationRepository define el puerto de persistencia para pre-registros.
//
// Las garantías de concurrencia viven en la implementación, no en el caso de uso:
//   - Create debe rechazar con domain.ErrConflict un segundo PENDIENTE para la
//     misma placa (índice único parcial, no check-then-insert en aplicación).
//   - TransitionStatus debe ser un update condicional (placa + estado origen);
//     cero filas afectadas = nil, sin error.
type PreRegistrationRepository interface {
	Create(p *entity.PreRegistration) error
	GetByID(id string) (*entity.PreRegistration, error)
	// FindPendingByPlates devuelve el único PENDIENTE para la placa, o nil.
	FindPendingByPlates(plates string) (*entity.PreRegistration, error)
	// TransitionStatus mueve el registro de from a to si y solo si está en from, y
	// devuelve el registro actualizado; nil cuando no hay registro en ese estado.
	TransitionStatus(plates, from, to string) (*entity.PreRegistration, error)
	// Search busca por subcadena (case-insensitive) en placas, visitante, casa y
	// persona visitada, ordenado por creación descendente.
	Search(term string, limit, offset int) ([]*entity.PreRegistration, error)
	List(limit, offset int) ([]*entity.PreRegistration, error)
}
