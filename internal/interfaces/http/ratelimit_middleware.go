package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/acceso-residencial/internal/application/dto"
	infraredis "github.com/tu-usuario/acceso-residencial/internal/infrastructure/redis"
	"github.com/tu-usuario/acceso-residencial/pkg/logger"
)

// intakeCounter cuenta peticiones dentro de una ventana fija.
type intakeCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// IntakeRateLimit limita por IP las peticiones al endpoint público de intake usando
// una ventana fija en Redis. Con client nil (Redis no configurado) el middleware no
// limita; con Redis caído tampoco: el intake es más importante que el límite.
func IntakeRateLimit(client *infraredis.Client, limit, windowSeconds int, log *logger.Logger) fiber.Handler {
	if client == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return intakeRateLimitWith(client, limit, windowSeconds, log)
}

func intakeRateLimitWith(counter intakeCounter, limit, windowSeconds int, log *logger.Logger) fiber.Handler {
	if limit <= 0 {
		limit = 10
	}
	window := time.Duration(windowSeconds) * time.Second
	if window <= 0 {
		window = time.Minute
	}
	return func(c *fiber.Ctx) error {
		key := "ratelimit:intake:" + c.IP()

		n, err := counter.Hit(c.UserContext(), key, window)
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter sin Redis, petición permitida")
			return c.Next()
		}
		if n > int64(limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiadas solicitudes, intenta más tarde",
			})
		}
		return c.Next()
	}
}
