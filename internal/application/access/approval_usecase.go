package access

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/acceso-residencial/internal/application/dto"
	"github.com/tu-usuario/acceso-residencial/internal/domain"
	"github.com/tu-usuario/acceso-residencial/internal/domain/entity"
	"github.com/tu-usuario/acceso-residencial/internal/domain/repository"
	"github.com/tu-usuario/acceso-residencial/pkg/logger"
)

// ApprovalUseCase orquesta el flujo de aprobación: intake del formulario público,
// resolución de comunidad/casa, generación del token, notificación asíncrona y
// conversión del registro intermedio en pre-registro al canjear el token.
type ApprovalUseCase struct {
	intRepo  repository.IntermediateRegistrationRepository
	addrRepo repository.AddressRepository
	tx       ApprovalTxRunner
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewApprovalUseCase construye el caso de uso.
func NewApprovalUseCase(
	intRepo repository.IntermediateRegistrationRepository,
	addrRepo repository.AddressRepository,
	tx ApprovalTxRunner,
	notifier Notifier,
	log *logger.Logger,
) *ApprovalUseCase {
	return &ApprovalUseCase{
		intRepo:  intRepo,
		addrRepo: addrRepo,
		tx:       tx,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// CreateIntermediateRegistration crea una solicitud de visita AWAITING_APPROVAL.
// Resuelve la casa para denormalizar el teléfono de contacto, genera el token de
// aprobación y encola la notificación de WhatsApp. La notificación es best-effort:
// el registro queda creado aunque el envío falle.
func (uc *ApprovalUseCase) CreateIntermediateRegistration(in dto.CreateIntermediateRegistrationRequest) (*dto.IntermediateRegistrationResponse, error) {
	plates := NormalizePlates(in.Plates)
	if plates == "" || in.CommunityID == "" || in.HouseNumber == "" {
		return nil, domain.ErrInvalidInput
	}

	community, err := uc.addrRepo.GetCommunityByID(in.CommunityID)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, domain.ErrInvalidInput
	}
	house, err := uc.addrRepo.GetHouse(community.ID, in.HouseNumber)
	if err != nil {
		return nil, err
	}
	if house == nil {
		return nil, domain.ErrInvalidInput
	}

	rec := &entity.IntermediateRegistration{
		ID:            uuid.New().String(),
		Plates:        plates,
		VisitorName:   in.VisitorName,
		Brand:         in.Brand,
		Color:         in.Color,
		CommunityID:   community.ID,
		CommunityName: community.Name,
		HouseNumber:   house.Number,
		ContactPhone:  house.ContactPhone,
		ArrivalTime:   in.ArrivalTime,
		PersonToVisit: in.PersonToVisit,
		Status:        entity.IntermediateAwaitingApproval,
		ApprovalToken: uuid.New().String(),
		CreatedAt:     uc.now(),
	}
	if err := uc.intRepo.Create(rec); err != nil {
		return nil, err
	}

	// Fuera del camino crítico: el dispatcher entrega en segundo plano y un fallo
	// de entrega solo se loguea, nunca invalida el registro ya persistido.
	uc.notifier.EnqueueApproval(rec.ContactPhone, rec.ApprovalToken, rec.VisitorName, rec.Plates)

	uc.log.Info().
		Str("registro", rec.ID).
		Str("placas", rec.Plates).
		Str("casa", rec.HouseLabel()).
		Msg("registro intermedio creado")

	return toIntermediateResponse(rec), nil
}

// ApproveByToken canjea un token de aprobación: marca el registro intermedio como
// APPROVED y crea el pre-registro derivado con estado PENDIENTE, ambos en una sola
// transacción. El flip de estado es un update condicional, así que dos canjes
// concurrentes del mismo token producen exactamente un pre-registro: el segundo ve
// cero filas afectadas y recibe ErrNotFound.
//
// Un token desconocido y un token ya consumido son indistinguibles para el caller.
func (uc *ApprovalUseCase) ApproveByToken(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrNotFound
	}
	err := uc.tx.RunApproval(ctx, func(
		intRepo repository.IntermediateRegistrationRepository,
		preRepo repository.PreRegistrationRepository,
	) error {
		rec, err := intRepo.Approve(token, uc.now())
		if err != nil {
			return err
		}
		if rec == nil {
			// Desconocido, ya consumido o typo: mismo resultado hacia afuera.
			uc.log.Warn().Str("token", token).Msg("token de aprobación no canjeable")
			return domain.ErrNotFound
		}

		arrival := uc.now()
		if rec.ArrivalTime != nil {
			arrival = *rec.ArrivalTime
		}
		pre := &entity.PreRegistration{
			ID:                   uuid.New().String(),
			Plates:               rec.Plates,
			VisitorName:          rec.VisitorName,
			Brand:                rec.Brand,
			Color:                rec.Color,
			HouseVisited:         rec.HouseLabel(),
			ArrivalTime:          arrival,
			PersonToVisit:        rec.PersonToVisit,
			Status:               entity.PreRegPendiente,
			SourceRegistrationID: rec.ID,
			CreatedAt:            uc.now(),
		}
		return preRepo.Create(pre)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("token", token).Msg("registro intermedio aprobado")
	return nil
}

// ListPending devuelve las solicitudes AWAITING_APPROVAL, más recientes primero.
func (uc *ApprovalUseCase) ListPending() ([]*dto.IntermediateRegistrationResponse, error) {
	list, err := uc.intRepo.ListPending()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.IntermediateRegistrationResponse, 0, len(list))
	for _, rec := range list {
		out = append(out, toIntermediateResponse(rec))
	}
	return out, nil
}

func toIntermediateResponse(r *entity.IntermediateRegistration) *dto.IntermediateRegistrationResponse {
	return &dto.IntermediateRegistrationResponse{
		ID:            r.ID,
		Plates:        r.Plates,
		VisitorName:   r.VisitorName,
		Brand:         r.Brand,
		Color:         r.Color,
		CommunityID:   r.CommunityID,
		CommunityName: r.CommunityName,
		HouseNumber:   r.HouseNumber,
		ArrivalTime:   r.ArrivalTime,
		PersonToVisit: r.PersonToVisit,
		Status:        r.Status,
		ApprovalToken: r.ApprovalToken,
		ApprovedAt:    r.ApprovedAt,
		CreatedAt:     r.CreatedAt,
	}
}
