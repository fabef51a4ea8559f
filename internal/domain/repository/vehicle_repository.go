package repository

import "github.com/tu-usuario/acceso-residencial/internal/domain/entity"

// VehicleRepository define el puerto de persistencia para el catálogo de vehículos.
type VehicleRepository interface {
	Create(v *entity.Vehicle) error
	GetByID(id string) (*entity.Vehicle, error)
	GetByPlates(plates string) (*entity.Vehicle, error)
	List(limit, offset int) ([]*entity.Vehicle, error)
	Update(v *entity.Vehicle) error
	Delete(id string) error
}
