package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/acceso-residencial/internal/domain/entity"
	"github.com/tu-usuario/acceso-residencial/internal/domain/repository"
)

var _ repository.AccessLogRepository = (*AccessLogRepo)(nil)

const accessLogColumns = `id, plates, visitor_name, house_visited, direction, guard_id, comments, created_at`

// AccessLogRepo implementación de AccessLogRepository (usable con pool o tx).
// La bitácora es append-only: no hay update ni delete.
type AccessLogRepo struct {
	q Querier
}

// NewAccessLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccessLogRepository(q Querier) *AccessLogRepo {
	return &AccessLogRepo{q: q}
}

// Create persiste un movimiento de caseta.
func (r *AccessLogRepo) Create(l *entity.AccessLog) error {
	query := `
		INSERT INTO access_logs (` + accessLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.Plates, l.VisitorName, l.HouseVisited, l.Direction, l.GuardID, l.Comments, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert access_log: %w", err)
	}
	return nil
}

// List lista movimientos, más recientes primero.
func (r *AccessLogRepo) List(limit, offset int) ([]*entity.AccessLog, error) {
	query := `SELECT ` + accessLogColumns + ` FROM access_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.scanMany(query, limit, offset)
}

// Search busca por subcadena en placas, visitante y casa visitada.
func (r *AccessLogRepo) Search(term string, limit, offset int) ([]*entity.AccessLog, error) {
	query := `
		SELECT ` + accessLogColumns + `
		FROM access_logs
		WHERE plates ILIKE $1 OR visitor_name ILIKE $1 OR house_visited ILIKE $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.scanMany(query, "%"+escapeLike(term)+"%", limit, offset)
}

func (r *AccessLogRepo) scanMany(query string, args ...any) ([]*entity.AccessLog, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list access_logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AccessLog
	for rows.Next() {
		var l entity.AccessLog
		if err := rows.Scan(&l.ID, &l.Plates, &l.VisitorName, &l.HouseVisited, &l.Direction, &l.GuardID, &l.Comments, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan access_log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
