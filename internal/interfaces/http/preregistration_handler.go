package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/acceso-residencial/internal/application/access"
	"github.com/tu-usuario/acceso-residencial/internal/application/dto"
	"github.com/tu-usuario/acceso-residencial/internal/domain"
)

// PreRegistrationHandler maneja el ciclo de vida del pre-registro: alta directa,
// consulta de caseta por placas, entrada/salida y búsqueda.
type PreRegistrationHandler struct {
	uc *access.PreRegistrationUseCase
}

// NewPreRegistrationHandler construye el handler.
func NewPreRegistrationHandler(uc *access.PreRegistrationUseCase) *PreRegistrationHandler {
	return &PreRegistrationHandler{uc: uc}
}

// Create POST /api/pre-registrations
func (h *PreRegistrationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePreRegistrationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.uc.Create(GetUserID(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "placas, visitante, casa, persona y hora de llegada son requeridos"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "ya existe un pre-registro PENDIENTE con esas placas"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// Arrival GET /api/pre-registrations/arrival/:plates
// "No encontrado" (sin registro, o registro fuera de la ventana de ±2h) es una
// respuesta 200 con found:false, nunca un error.
func (h *PreRegistrationHandler) Arrival(c *fiber.Ctx) error {
	resp, err := h.uc.FindActiveForArrival(c.Params("plates"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(resp)
}

// MarkEntry PATCH /api/pre-registrations/:plates/entry
func (h *PreRegistrationHandler) MarkEntry(c *fiber.Ctx) error {
	return h.transition(c, h.uc.MarkEntry)
}

// MarkExit PATCH /api/pre-registrations/:plates/exit
func (h *PreRegistrationHandler) MarkExit(c *fiber.Ctx) error {
	return h.transition(c, h.uc.MarkExit)
}

func (h *PreRegistrationHandler) transition(c *fiber.Ctx, fn func(plates, guardID string) (*dto.PreRegistrationResponse, error)) error {
	rec, err := fn(c.Params("plates"), GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no hay pre-registro en el estado requerido para esas placas"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(rec)
}

// Search GET /api/pre-registrations?q=term&limit=20&offset=0
func (h *PreRegistrationHandler) Search(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	list, err := h.uc.Search(c.Query("q"), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}
