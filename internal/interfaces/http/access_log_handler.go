package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/acceso-residencial/internal/application/dto"
	"github.com/tu-usuario/acceso-residencial/internal/application/usecase"
	"github.com/tu-usuario/acceso-residencial/internal/domain"
)

// AccessLogHandler maneja la bitácora de caseta.
type AccessLogHandler struct {
	uc *usecase.AccessLogUseCase
}

// NewAccessLogHandler construye el handler.
func NewAccessLogHandler(uc *usecase.AccessLogUseCase) *AccessLogHandler {
	return &AccessLogHandler{uc: uc}
}

// Register POST /api/access-logs
// El guardia autenticado queda registrado como autor del movimiento.
func (h *AccessLogHandler) Register(c *fiber.Ctx) error {
	var in dto.CreateAccessLogRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	l, err := h.uc.Register(GetUserID(c), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "visitor_name, house_visited y direction (ENTRADA|SALIDA) son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(l)
}

// List GET /api/access-logs?q=term&limit=20&offset=0
func (h *AccessLogHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	list, err := h.uc.List(c.Query("q"), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}
