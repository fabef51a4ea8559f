package repository

import "github.com/tu-usuario/acceso-residencial/internal/domain/entity"

// AccessLogRepository define el puerto de persistencia para la bitácora de caseta.
type AccessLogRepository interface {
	Create(l *entity.AccessLog) error
	List(limit, offset int) ([]*entity.AccessLog, error)
	// Search busca por subcadena en placas, visitante y casa visitada.
	Search(term string, limit, offset int) ([]*entity.AccessLog, error)
}
