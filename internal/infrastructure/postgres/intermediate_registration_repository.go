package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/acceso-residencial/internal/domain"
	"github.com/tu-usuario/acceso-residencial/internal/domain/entity"
	"github.com/tu-usuario/acceso-residencial/internal/domain/repository"
)

var _ repository.IntermediateRegistrationRepository = (*IntermediateRegistrationRepo)(nil)

const intermediateColumns = `id, plates, visitor_name, brand, color, community_id,
	community_name, house_number, contact_phone, arrival_time, person_to_visit,
	status, approval_token, approved_at, created_at`

// IntermediateRegistrationRepo implementación de IntermediateRegistrationRepository
// (usable con pool o tx).
type IntermediateRegistrationRepo struct {
	q Querier
}

// NewIntermediateRegistrationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIntermediateRegistrationRepository(q Querier) *IntermediateRegistrationRepo {
	return &IntermediateRegistrationRepo{q: q}
}

// Create persiste una nueva solicitud de visita. El token lleva constraint único.
func (r *IntermediateRegistrationRepo) Create(reg *entity.IntermediateRegistration) error {
	query := `
		INSERT INTO intermediate_registrations (` + intermediateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		reg.ID, reg.Plates, reg.VisitorName, reg.Brand, reg.Color, reg.CommunityID,
		reg.CommunityName, reg.HouseNumber, reg.ContactPhone, reg.ArrivalTime, reg.PersonToVisit,
		reg.Status, reg.ApprovalToken, reg.ApprovedAt, reg.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert intermediate_registration: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *IntermediateRegistrationRepo) GetByID(id string) (*entity.IntermediateRegistration, error) {
	query := `SELECT ` + intermediateColumns + ` FROM intermediate_registrations WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get intermediate_registration")
}

// Approve es el update condicional que hace el token de un solo uso: la cláusula
// WHERE sobre el estado garantiza que solo un canje concurrente vea la fila y que
// un token ya consumido devuelva nil como si no existiera.
func (r *IntermediateRegistrationRepo) Approve(token string, approvedAt time.Time) (*entity.IntermediateRegistration, error) {
	query := `
		UPDATE intermediate_registrations
		SET status = $3, approved_at = $4
		WHERE approval_token = $1 AND status = $2
		RETURNING ` + intermediateColumns
	return r.scanOne(
		r.q.QueryRow(context.Background(), query,
			token, entity.IntermediateAwaitingApproval, entity.IntermediateApproved, approvedAt),
		"approve intermediate_registration",
	)
}

// ListPending devuelve las solicitudes AWAITING_APPROVAL, más recientes primero.
func (r *IntermediateRegistrationRepo) ListPending() ([]*entity.IntermediateRegistration, error) {
	query := `
		SELECT ` + intermediateColumns + `
		FROM intermediate_registrations WHERE status = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, entity.IntermediateAwaitingApproval)
	if err != nil {
		return nil, fmt.Errorf("list pending intermediate_registrations: %w", err)
	}
	defer rows.Close()
	var list []*entity.IntermediateRegistration
	for rows.Next() {
		var reg entity.IntermediateRegistration
		if err := rows.Scan(
			&reg.ID, &reg.Plates, &reg.VisitorName, &reg.Brand, &reg.Color, &reg.CommunityID,
			&reg.CommunityName, &reg.HouseNumber, &reg.ContactPhone, &reg.ArrivalTime, &reg.PersonToVisit,
			&reg.Status, &reg.ApprovalToken, &reg.ApprovedAt, &reg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan intermediate_registration: %w", err)
		}
		list = append(list, &reg)
	}
	return list, rows.Err()
}

func (r *IntermediateRegistrationRepo) scanOne(row pgx.Row, op string) (*entity.IntermediateRegistration, error) {
	var reg entity.IntermediateRegistration
	err := row.Scan(
		&reg.ID, &reg.Plates, &reg.VisitorName, &reg.Brand, &reg.Color, &reg.CommunityID,
		&reg.CommunityName, &reg.HouseNumber, &reg.ContactPhone, &reg.ArrivalTime, &reg.PersonToVisit,
		&reg.Status, &reg.ApprovalToken, &reg.ApprovedAt, &reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &reg, nil
}
