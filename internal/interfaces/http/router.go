package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/acceso-residencial/internal/application/access"
	"github.com/tu-usuario/acceso-residencial/internal/application/auth"
	"github.com/tu-usuario/acceso-residencial/internal/application/usecase"
	"github.com/tu-usuario/acceso-residencial/internal/domain/entity"
	infraredis "github.com/tu-usuario/acceso-residencial/internal/infrastructure/redis"
	"github.com/tu-usuario/acceso-residencial/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ApprovalUC        *access.ApprovalUseCase
	PreRegistrationUC *access.PreRegistrationUseCase
	AddressUC         *usecase.AddressUseCase
	VehicleUC         *usecase.VehicleUseCase
	AccessLogUC       *usecase.AccessLogUseCase
	AuthUC            *auth.AuthUseCase
	JWTSecret         string
	Redis             *infraredis.Client
	IntakeLimit       int
	IntakeWindowS     int
	Log               *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Comunidades y casas: lectura pública (alimenta el formulario de intake)
	addressHandler := NewAddressHandler(deps.AddressUC)
	communities := api.Group("/communities")
	communities.Get("/", addressHandler.ListCommunities)
	communities.Get("/:id/houses", addressHandler.ListHouses)

	// Intake público de solicitudes de visita, con rate limit por IP
	intakeHandler := NewIntakeHandler(deps.ApprovalUC)
	intake := api.Group("/intake")
	intake.Post("/", IntakeRateLimit(deps.Redis, deps.IntakeLimit, deps.IntakeWindowS, deps.Log), intakeHandler.Create)
	// El canje del token es público: el residente llega desde el enlace de WhatsApp.
	intake.Post("/approve/:token", intakeHandler.Approve)
	intake.Get("/approve/:token", intakeHandler.Approve)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Administración de comunidades/casas (solo admin)
	adminOnly := RequireRole(entity.RoleAdmin)
	protected.Post("/communities", adminOnly, addressHandler.CreateCommunity)
	protected.Post("/communities/:id/houses", adminOnly, addressHandler.CreateHouse)

	// Solicitudes pendientes de aprobación (admin y guardia)
	staff := RequireRole(entity.RoleAdmin, entity.RoleGuardia)
	protected.Get("/intake/pending", staff, intakeHandler.ListPending)

	// Pre-registros (admin y guardia; la consulta de llegada es la operación de caseta)
	preHandler := NewPreRegistrationHandler(deps.PreRegistrationUC)
	pre := protected.Group("/pre-registrations", staff)
	pre.Post("/", preHandler.Create)
	pre.Get("/", preHandler.Search)
	pre.Get("/arrival/:plates", preHandler.Arrival)
	pre.Patch("/:plates/entry", preHandler.MarkEntry)
	pre.Patch("/:plates/exit", preHandler.MarkExit)

	// Catálogo de vehículos (admin y guardia)
	vehicleHandler := NewVehicleHandler(deps.VehicleUC)
	vehicles := protected.Group("/vehicles", staff)
	vehicles.Post("/", vehicleHandler.Create)
	vehicles.Get("/", vehicleHandler.List)
	vehicles.Get("/:plates", vehicleHandler.GetByPlates)
	vehicles.Put("/:id", vehicleHandler.Update)
	vehicles.Delete("/:id", vehicleHandler.Delete)

	// Bitácora de caseta (admin y guardia)
	logHandler := NewAccessLogHandler(deps.AccessLogUC)
	logs := protected.Group("/access-logs", staff)
	logs.Post("/", logHandler.Register)
	logs.Get("/", logHandler.List)
}
