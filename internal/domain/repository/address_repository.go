package repository

import "github.com/tu-usuario/acceso-residencial/internal/domain/entity"

// AddressRepository define el puerto de persistencia para comunidades y casas.
type AddressRepository interface {
	CreateCommunity(c *entity.Community) error
	GetCommunityByID(id string) (*entity.Community, error)
	ListCommunities() ([]*entity.Community, error)

	CreateHouse(h *entity.House) error
	ListHousesByCommunity(communityID string) ([]*entity.House, error)
	// GetHouse resuelve la casa por comunidad + número (intake).
	GetHouse(communityID, number string) (*entity.House, error)
	// GetHouseByLabel resuelve la casa por el identificador compuesto
	// "{Comunidad} - Casa {Número}" (alta directa de pre-registros).
	GetHouseByLabel(label string) (*entity.House, error)
}
