package access

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/acceso-residencial/internal/application/dto"
	"github.com/tu-usuario/acceso-residencial/internal/domain"
	"github.com/tu-usuario/acceso-residencial/internal/domain/entity"
	"github.com/tu-usuario/acceso-residencial/internal/domain/repository"
	"github.com/tu-usuario/acceso-residencial/pkg/logger"
)

// ArrivalWindow es la tolerancia alrededor de la hora estimada de llegada dentro de
// la cual la consulta de caseta considera vigente un pre-registro PENDIENTE.
// El límite es inclusivo: a exactamente 2h el registro todavía empata.
const ArrivalWindow = 2 * time.Hour

// PreRegistrationUseCase implementa el ciclo de vida del pre-registro y la consulta
// por placas con ventana de tiempo que se usa en caseta.
type PreRegistrationUseCase struct {
	preRepo  repository.PreRegistrationRepository
	addrRepo repository.AddressRepository
	logRepo  repository.AccessLogRepository
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewPreRegistrationUseCase construye el caso de uso.
func NewPreRegistrationUseCase(
	preRepo repository.PreRegistrationRepository,
	addrRepo repository.AddressRepository,
	logRepo repository.AccessLogRepository,
	notifier Notifier,
	log *logger.Logger,
) *PreRegistrationUseCase {
	return &PreRegistrationUseCase{
		preRepo:  preRepo,
		addrRepo: addrRepo,
		logRepo:  logRepo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Create da de alta un pre-registro directo (sin flujo de aprobación). La unicidad
// PENDIENTE-por-placa la garantiza el repositorio (índice único parcial): un
// duplicado llega aquí como domain.ErrConflict sin tocar el registro existente.
// Después del alta se intenta avisar al contacto de la casa; ese aviso nunca es
// requisito del éxito de la operación.
func (uc *PreRegistrationUseCase) Create(createdBy string, in dto.CreatePreRegistrationRequest) (*dto.PreRegistrationResponse, error) {
	plates := NormalizePlates(in.Plates)
	if plates == "" || in.VisitorName == "" || in.HouseVisited == "" || in.PersonToVisit == "" || in.ArrivalTime.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	pre := &entity.PreRegistration{
		ID:            uuid.New().String(),
		Plates:        plates,
		VisitorName:   in.VisitorName,
		Brand:         in.Brand,
		Color:         in.Color,
		HouseVisited:  in.HouseVisited,
		ArrivalTime:   in.ArrivalTime,
		PersonToVisit: in.PersonToVisit,
		Status:        entity.PreRegPendiente,
		Comments:      in.Comments,
		CreatedAt:     uc.now(),
		ExpiresAt:     in.ExpiresAt,
		CreatedBy:     createdBy,
	}
	if err := uc.preRepo.Create(pre); err != nil {
		return nil, err
	}

	house, err := uc.addrRepo.GetHouseByLabel(in.HouseVisited)
	if err != nil || house == nil {
		uc.log.Warn().
			Str("casa", in.HouseVisited).
			Msg("no se pudo resolver el contacto de la casa, pre-registro sin aviso")
	} else {
		uc.notifier.EnqueueNotice(house.ContactPhone, house.ResidentName, pre.VisitorName, pre.ArrivalTime)
	}

	uc.log.Info().Str("placas", pre.Plates).Str("casa", pre.HouseVisited).Msg("pre-registro creado")
	return toPreRegistrationResponse(pre), nil
}

// FindActiveForArrival busca el pre-registro PENDIENTE para la placa y valida la
// ventana de llegada. Un registro fuera de ventana se trata igual que la ausencia
// de registro: la razón del rechazo no se expone al caller, solo se loguea, para no
// dejar que un PENDIENTE viejo sea consumido por una visita posterior sin relación.
// Sin efectos secundarios: la transición de estado ocurre en MarkEntry.
func (uc *PreRegistrationUseCase) FindActiveForArrival(plates string) (*dto.ArrivalLookupResponse, error) {
	rec, err := uc.preRepo.FindPendingByPlates(NormalizePlates(plates))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &dto.ArrivalLookupResponse{Found: false}, nil
	}

	diff := uc.now().Sub(rec.ArrivalTime)
	if diff < 0 {
		diff = -diff
	}
	if diff > ArrivalWindow {
		uc.log.Warn().
			Str("placas", rec.Plates).
			Dur("desfase", diff).
			Msg("pre-registro PENDIENTE fuera de la ventana de llegada, descartado")
		return &dto.ArrivalLookupResponse{Found: false}, nil
	}

	return &dto.ArrivalLookupResponse{
		Found:           true,
		PreRegistration: toPreRegistrationResponse(rec),
	}, nil
}

// MarkEntry transiciona PENDIENTE -> DENTRO para la placa y registra el movimiento
// en la bitácora de caseta. La ventana de llegada no se revalida aquí: se comprobó
// en la consulta y el guardia actúa sobre ese resultado.
// Si no hay PENDIENTE para la placa devuelve domain.ErrNotFound (estado incorrecto
// y placa inexistente son indistinguibles).
func (uc *PreRegistrationUseCase) MarkEntry(plates, guardID string) (*dto.PreRegistrationResponse, error) {
	return uc.transition(plates, guardID, entity.PreRegPendiente, entity.PreRegDentro, entity.AccessEntrada)
}

// MarkExit transiciona DENTRO -> FUERA para la placa y registra la salida.
func (uc *PreRegistrationUseCase) MarkExit(plates, guardID string) (*dto.PreRegistrationResponse, error) {
	return uc.transition(plates, guardID, entity.PreRegDentro, entity.PreRegFuera, entity.AccessSalida)
}

func (uc *PreRegistrationUseCase) transition(plates, guardID, from, to, direction string) (*dto.PreRegistrationResponse, error) {
	normalized := NormalizePlates(plates)
	if normalized == "" {
		return nil, domain.ErrNotFound
	}
	rec, err := uc.preRepo.TransitionStatus(normalized, from, to)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}

	// La transición ya quedó persistida; un fallo al escribir la bitácora se
	// loguea pero no revierte la operación.
	logEntry := &entity.AccessLog{
		ID:           uuid.New().String(),
		Plates:       rec.Plates,
		VisitorName:  rec.VisitorName,
		HouseVisited: rec.HouseVisited,
		Direction:    direction,
		GuardID:      guardID,
		CreatedAt:    uc.now(),
	}
	if err := uc.logRepo.Create(logEntry); err != nil {
		uc.log.Error().Err(err).Str("placas", rec.Plates).Msg("no se pudo escribir la bitácora de caseta")
	}

	uc.log.Info().Str("placas", rec.Plates).Str("estado", rec.Status).Msg("pre-registro transicionado")
	return toPreRegistrationResponse(rec), nil
}

// Search busca pre-registros por subcadena en placas, visitante, casa y persona
// visitada (case-insensitive), más recientes primero.
func (uc *PreRegistrationUseCase) Search(term string, limit, offset int) ([]*dto.PreRegistrationResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var (
		list []*entity.PreRegistration
		err  error
	)
	if term == "" {
		list, err = uc.preRepo.List(limit, offset)
	} else {
		list, err = uc.preRepo.Search(term, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PreRegistrationResponse, 0, len(list))
	for _, rec := range list {
		out = append(out, toPreRegistrationResponse(rec))
	}
	return out, nil
}

func toPreRegistrationResponse(p *entity.PreRegistration) *dto.PreRegistrationResponse {
	return &dto.PreRegistrationResponse{
		ID:                   p.ID,
		Plates:               p.Plates,
		VisitorName:          p.VisitorName,
		Brand:                p.Brand,
		Color:                p.Color,
		HouseVisited:         p.HouseVisited,
		ArrivalTime:          p.ArrivalTime,
		PersonToVisit:        p.PersonToVisit,
		Status:               p.Status,
		Comments:             p.Comments,
		SourceRegistrationID: p.SourceRegistrationID,
		CreatedAt:            p.CreatedAt,
		ExpiresAt:            p.ExpiresAt,
		CreatedBy:            p.CreatedBy,
	}
}
