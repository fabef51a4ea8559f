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

var _ repository.PreRegistrationRepository = (*PreRegistrationRepo)(nil)

const preRegistrationColumns = `id, plates, visitor_name, brand, color, house_visited,
	arrival_time, person_to_visit, status, comments, source_registration_id,
	created_at, expires_at, created_by`

// PreRegistrationRepo implementación de PreRegistrationRepository (usable con pool o tx).
//
// La unicidad PENDIENTE-por-placa la garantiza el índice único parcial
// ux_pre_registrations_plates_pending (ver migrations/schema.sql); aquí solo se
// traduce la violación a domain.ErrConflict.
type PreRegistrationRepo struct {
	q Querier
}

// NewPreRegistrationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPreRegistrationRepository(q Querier) *PreRegistrationRepo {
	return &PreRegistrationRepo{q: q}
}

// Create persiste un nuevo pre-registro. domain.ErrConflict si ya hay un PENDIENTE
// con esas placas.
func (r *PreRegistrationRepo) Create(p *entity.PreRegistration) error {
	query := `
		INSERT INTO pre_registrations (` + preRegistrationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Plates, p.VisitorName, p.Brand, p.Color, p.HouseVisited,
		p.ArrivalTime, p.PersonToVisit, p.Status, p.Comments, p.SourceRegistrationID,
		p.CreatedAt, p.ExpiresAt, p.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert pre_registration: %w", err)
	}
	return nil
}

// GetByID obtiene un pre-registro por ID.
func (r *PreRegistrationRepo) GetByID(id string) (*entity.PreRegistration, error) {
	query := `SELECT ` + preRegistrationColumns + ` FROM pre_registrations WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get pre_registration")
}

// FindPendingByPlates devuelve el único PENDIENTE para la placa, o nil.
func (r *PreRegistrationRepo) FindPendingByPlates(plates string) (*entity.PreRegistration, error) {
	query := `
		SELECT ` + preRegistrationColumns + `
		FROM pre_registrations WHERE plates = $1 AND status = $2`
	return r.scanOne(
		r.q.QueryRow(context.Background(), query, plates, entity.PreRegPendiente),
		"find pending pre_registration",
	)
}

// TransitionStatus es el update condicional que implementa la máquina de estados:
// cero filas afectadas (placa inexistente o estado distinto de from) devuelve nil.
func (r *PreRegistrationRepo) TransitionStatus(plates, from, to string) (*entity.PreRegistration, error) {
	query := `
		UPDATE pre_registrations SET status = $3
		WHERE plates = $1 AND status = $2
		RETURNING ` + preRegistrationColumns
	return r.scanOne(
		r.q.QueryRow(context.Background(), query, plates, from, to),
		"transition pre_registration",
	)
}

// Search busca por subcadena case-insensitive en placas, visitante, casa y persona
// visitada, más recientes primero.
func (r *PreRegistrationRepo) Search(term string, limit, offset int) ([]*entity.PreRegistration, error) {
	query := `
		SELECT ` + preRegistrationColumns + `
		FROM pre_registrations
		WHERE plates ILIKE $1 OR visitor_name ILIKE $1 OR house_visited ILIKE $1 OR person_to_visit ILIKE $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.scanMany(query, "%"+escapeLike(term)+"%", limit, offset)
}

// List lista pre-registros, más recientes primero.
func (r *PreRegistrationRepo) List(limit, offset int) ([]*entity.PreRegistration, error) {
	query := `
		SELECT ` + preRegistrationColumns + `
		FROM pre_registrations ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.scanMany(query, limit, offset)
}

func (r *PreRegistrationRepo) scanOne(row pgx.Row, op string) (*entity.PreRegistration, error) {
	var p entity.PreRegistration
	err := row.Scan(
		&p.ID, &p.Plates, &p.VisitorName, &p.Brand, &p.Color, &p.HouseVisited,
		&p.ArrivalTime, &p.PersonToVisit, &p.Status, &p.Comments, &p.SourceRegistrationID,
		&p.CreatedAt, &p.ExpiresAt, &p.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func (r *PreRegistrationRepo) scanMany(query string, args ...any) ([]*entity.PreRegistration, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pre_registrations: %w", err)
	}
	defer rows.Close()
	var list []*entity.PreRegistration
	for rows.Next() {
		var p entity.PreRegistration
		if err := rows.Scan(
			&p.ID, &p.Plates, &p.VisitorName, &p.Brand, &p.Color, &p.HouseVisited,
			&p.ArrivalTime, &p.PersonToVisit, &p.Status, &p.Comments, &p.SourceRegistrationID,
			&p.CreatedAt, &p.ExpiresAt, &p.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan pre_registration: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
