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

// AccessLogUseCase casos de uso de la bitácora de caseta (registro manual por guardias).
type AccessLogUseCase struct {
	repo repository.AccessLogRepository
}

// NewAccessLogUseCase construye el caso de uso.
func NewAccessLogUseCase(repo repository.AccessLogRepository) *AccessLogUseCase {
	return &AccessLogUseCase{repo: repo}
}

// Register registra un movimiento de caseta a nombre del guardia autenticado.
func (uc *AccessLogUseCase) Register(guardID string, in dto.CreateAccessLogRequest) (*dto.AccessLogResponse, error) {
	if in.VisitorName == "" || in.HouseVisited == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Direction != entity.AccessEntrada && in.Direction != entity.AccessSalida {
		return nil, domain.ErrInvalidInput
	}
	l := &entity.AccessLog{
		ID:           uuid.New().String(),
		Plates:       access.NormalizePlates(in.Plates),
		VisitorName:  in.VisitorName,
		HouseVisited: in.HouseVisited,
		Direction:    in.Direction,
		GuardID:      guardID,
		Comments:     in.Comments,
		CreatedAt:    time.Now(),
	}
	if err := uc.repo.Create(l); err != nil {
		return nil, err
	}
	return toAccessLogResponse(l), nil
}

// List lista los movimientos más recientes; con term filtra por subcadena.
func (uc *AccessLogUseCase) List(term string, limit, offset int) ([]*dto.AccessLogResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var (
		list []*entity.AccessLog
		err  error
	)
	if term == "" {
		list, err = uc.repo.List(limit, offset)
	} else {
		list, err = uc.repo.Search(term, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AccessLogResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toAccessLogResponse(l))
	}
	return out, nil
}

func toAccessLogResponse(l *entity.AccessLog) *dto.AccessLogResponse {
	return &dto.AccessLogResponse{
		ID:           l.ID,
		Plates:       l.Plates,
		VisitorName:  l.VisitorName,
		HouseVisited: l.HouseVisited,
		Direction:    l.Direction,
		GuardID:      l.GuardID,
		Comments:     l.Comments,
		CreatedAt:    l.CreatedAt,
	}
}
