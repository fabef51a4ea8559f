package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/acceso-residencial/internal/application/access"
	"github.com/tu-usuario/acceso-residencial/internal/application/dto"
	"github.com/tu-usuario/acceso-residencial/internal/domain"
	"github.com/tu-usuario/acceso-residencial/internal/domain/entity"
	"github.com/tu-usuario/acceso-residencial/internal/domain/repository"
)

// VehicleUseCase casos de uso del catálogo de vehículos.
type VehicleUseCase struct {
	repo repository.VehicleRepository
}

// NewVehicleUseCase construye el caso de uso.
func NewVehicleUseCase(repo repository.VehicleRepository) *VehicleUseCase {
	return &VehicleUseCase{repo: repo}
}

// Create registra un vehículo. Las placas se normalizan y son únicas en el catálogo.
func (uc *VehicleUseCase) Create(in dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	plates := access.NormalizePlates(in.Plates)
	if plates == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByPlates(plates)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	v := &entity.Vehicle{
		ID:        uuid.New().String(),
		Plates:    plates,
		Brand:     in.Brand,
		Color:     in.Color,
		OwnerName: in.OwnerName,
		HouseID:   in.HouseID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(v); err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

// GetByPlates busca un vehículo por placas normalizadas.
func (uc *VehicleUseCase) GetByPlates(plates string) (*dto.VehicleResponse, error) {
	v, err := uc.repo.GetByPlates(access.NormalizePlates(plates))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return toVehicleResponse(v), nil
}

// List lista vehículos con paginación.
func (uc *VehicleUseCase) List(limit, offset int) ([]*dto.VehicleResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toVehicleResponse(v))
	}
	return out, nil
}

// Update actualiza los datos mutables de un vehículo (las placas no cambian).
func (uc *VehicleUseCase) Update(id string, in dto.UpdateVehicleRequest) (*dto.VehicleResponse, error) {
	v, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	v.Brand = in.Brand
	v.Color = in.Color
	v.OwnerName = in.OwnerName
	v.HouseID = in.HouseID
	v.UpdatedAt = time.Now()
	if err := uc.repo.Update(v); err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

// Delete elimina un vehículo del catálogo.
func (uc *VehicleUseCase) Delete(id string) error {
	v, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if v == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toVehicleResponse(v *entity.Vehicle) *dto.VehicleResponse {
	return &dto.VehicleResponse{
		ID:        v.ID,
		Plates:    v.Plates,
		Brand:     v.Brand,
		Color:     v.Color,
		OwnerName: v.OwnerName,
		HouseID:   v.HouseID,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}
