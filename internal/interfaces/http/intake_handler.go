package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/acceso-residencial/internal/application/access"
	"github.com/tu-usuario/acceso-residencial/internal/application/dto"
	"github.com/tu-usuario/acceso-residencial/internal/domain"
)

// IntakeHandler maneja el formulario público de solicitudes de visita y el canje
// de tokens de aprobación.
type IntakeHandler struct {
	uc *access.ApprovalUseCase
}

// NewIntakeHandler construye el handler.
func NewIntakeHandler(uc *access.ApprovalUseCase) *IntakeHandler {
	return &IntakeHandler{uc: uc}
}

// Create POST /api/intake
// Crea la solicitud y dispara (en segundo plano) la notificación de aprobación.
func (h *IntakeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateIntermediateRegistrationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.uc.CreateIntermediateRegistration(in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "placas, comunidad y casa válidas son requeridas"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// Approve POST|GET /api/intake/approve/:token
// Se registra también como GET porque el enlace del mensaje de WhatsApp se abre
// desde el navegador del residente.
func (h *IntakeHandler) Approve(c *fiber.Ctx) error {
	token := c.Params("token")
	if err := h.uc.ApproveByToken(c.UserContext(), token); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// Token desconocido o ya consumido: misma respuesta en ambos casos.
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "token inválido"})
		case errors.Is(err, domain.ErrConflict):
			// La placa ya tiene un PENDIENTE (alta directa posterior al intake).
			// La transacción se revierte: el token sigue canjeable cuando el
			// PENDIENTE existente cierre su ciclo.
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "ya existe un pre-registro PENDIENTE con esas placas"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(dto.ApproveResponse{Approved: true})
}

// ListPending GET /api/intake/pending
func (h *IntakeHandler) ListPending(c *fiber.Ctx) error {
	list, err := h.uc.ListPending()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}
