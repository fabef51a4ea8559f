package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/acceso-residencial/internal/application/dto"
	"github.com/tu-usuario/acceso-residencial/internal/domain"
	"github.com/tu-usuario/acceso-residencial/internal/domain/entity"
	"github.com/tu-usuario/acceso-residencial/internal/domain/repository"
)

// AddressUseCase casos de uso para comunidades y casas.
type AddressUseCase struct {
	repo repository.AddressRepository
}

// NewAddressUseCase construye el caso de uso.
func NewAddressUseCase(repo repository.AddressRepository) *AddressUseCase {
	return &AddressUseCase{repo: repo}
}

// CreateCommunity crea una comunidad.
func (uc *AddressUseCase) CreateCommunity(in dto.CreateCommunityRequest) (*dto.CommunityResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	c := &entity.Community{
		ID:        uuid.New().String(),
		Name:      in.Name,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.CreateCommunity(c); err != nil {
		return nil, err
	}
	return toCommunityResponse(c), nil
}

// ListCommunities lista todas las comunidades (alimenta el formulario público de intake).
func (uc *AddressUseCase) ListCommunities() ([]*dto.CommunityResponse, error) {
	list, err := uc.repo.ListCommunities()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CommunityResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCommunityResponse(c))
	}
	return out, nil
}

// CreateHouse crea una casa dentro de una comunidad existente.
func (uc *AddressUseCase) CreateHouse(communityID string, in dto.CreateHouseRequest) (*dto.HouseResponse, error) {
	if communityID == "" || in.Number == "" || in.ContactPhone == "" {
		return nil, domain.ErrInvalidInput
	}
	community, err := uc.repo.GetCommunityByID(communityID)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, domain.ErrNotFound
	}
	h := &entity.House{
		ID:           uuid.New().String(),
		CommunityID:  community.ID,
		Number:       in.Number,
		ResidentName: in.ResidentName,
		ContactPhone: in.ContactPhone,
		CreatedAt:    time.Now(),
	}
	if err := uc.repo.CreateHouse(h); err != nil {
		return nil, err
	}
	return toHouseResponse(h), nil
}

// ListHouses lista las casas de una comunidad.
func (uc *AddressUseCase) ListHouses(communityID string) ([]*dto.HouseResponse, error) {
	list, err := uc.repo.ListHousesByCommunity(communityID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.HouseResponse, 0, len(list))
	for _, h := range list {
		out = append(out, toHouseResponse(h))
	}
	return out, nil
}

func toCommunityResponse(c *entity.Community) *dto.CommunityResponse {
	return &dto.CommunityResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func toHouseResponse(h *entity.House) *dto.HouseResponse {
	return &dto.HouseResponse{
		ID:           h.ID,
		CommunityID:  h.CommunityID,
		Number:       h.Number,
		ResidentName: h.ResidentName,
		ContactPhone: h.ContactPhone,
		CreatedAt:    h.CreatedAt,
	}
}
