package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/acceso-residencial/internal/domain"
	"github.com/tu-usuario/acceso-residencial/internal/domain/entity"
	"github.com/tu-usuario/acceso-residencial/internal/domain/repository"
)

var _ repository.AddressRepository = (*AddressRepo)(nil)

// AddressRepo implementación de AddressRepository (usable con pool o tx).
type AddressRepo struct {
	q Querier
}

// NewAddressRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAddressRepository(q Querier) *AddressRepo {
	return &AddressRepo{q: q}
}

// CreateCommunity persiste una nueva comunidad.
func (r *AddressRepo) CreateCommunity(c *entity.Community) error {
	query := `INSERT INTO communities (id, name, created_at) VALUES ($1, $2, $3)`
	_, err := r.q.Exec(context.Background(), query, c.ID, c.Name, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert community: %w", err)
	}
	return nil
}

// GetCommunityByID obtiene una comunidad por ID.
func (r *AddressRepo) GetCommunityByID(id string) (*entity.Community, error) {
	query := `SELECT id, name, created_at FROM communities WHERE id = $1`
	var c entity.Community
	err := r.q.QueryRow(context.Background(), query, id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get community: %w", err)
	}
	return &c, nil
}

// ListCommunities lista todas las comunidades por nombre.
func (r *AddressRepo) ListCommunities() ([]*entity.Community, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, created_at FROM communities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list communities: %w", err)
	}
	defer rows.Close()
	var list []*entity.Community
	for rows.Next() {
		var c entity.Community
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan community: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// CreateHouse persiste una nueva casa. (community_id, number) lleva constraint único.
func (r *AddressRepo) CreateHouse(h *entity.House) error {
	query := `
		INSERT INTO houses (id, community_id, number, resident_name, contact_phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		h.ID, h.CommunityID, h.Number, h.ResidentName, h.ContactPhone, h.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert house: %w", err)
	}
	return nil
}

// ListHousesByCommunity lista las casas de una comunidad por número.
func (r *AddressRepo) ListHousesByCommunity(communityID string) ([]*entity.House, error) {
	query := `
		SELECT id, community_id, number, resident_name, contact_phone, created_at
		FROM houses WHERE community_id = $1 ORDER BY number`
	rows, err := r.q.Query(context.Background(), query, communityID)
	if err != nil {
		return nil, fmt.Errorf("list houses: %w", err)
	}
	defer rows.Close()
	var list []*entity.House
	for rows.Next() {
		var h entity.House
		if err := rows.Scan(&h.ID, &h.CommunityID, &h.Number, &h.ResidentName, &h.ContactPhone, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan house: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}

// GetHouse resuelve la casa por comunidad + número.
func (r *AddressRepo) GetHouse(communityID, number string) (*entity.House, error) {
	query := `
		SELECT id, community_id, number, resident_name, contact_phone, created_at
		FROM houses WHERE community_id = $1 AND number = $2`
	return r.scanHouse(r.q.QueryRow(context.Background(), query, communityID, number))
}

// GetHouseByLabel resuelve la casa por el identificador compuesto
// "{Comunidad} - Casa {Número}". No hay foreign key entre esa etiqueta y las
// tablas: el join se hace por concatenación, igual que al generarla.
func (r *AddressRepo) GetHouseByLabel(label string) (*entity.House, error) {
	query := `
		SELECT h.id, h.community_id, h.number, h.resident_name, h.contact_phone, h.created_at
		FROM houses h
		JOIN communities c ON c.id = h.community_id
		WHERE c.name || ' - Casa ' || h.number = $1`
	return r.scanHouse(r.q.QueryRow(context.Background(), query, label))
}

func (r *AddressRepo) scanHouse(row pgx.Row) (*entity.House, error) {
	var h entity.House
	err := row.Scan(&h.ID, &h.CommunityID, &h.Number, &h.ResidentName, &h.ContactPhone, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get house: %w", err)
	}
	return &h, nil
}
