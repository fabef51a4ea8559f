package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/acceso-residencial/internal/application/access"
	"github.com/tu-usuario/acceso-residencial/internal/application/auth"
	"github.com/tu-usuario/acceso-residencial/internal/application/notify"
	"github.com/tu-usuario/acceso-residencial/internal/application/usecase"
	"github.com/tu-usuario/acceso-residencial/internal/infrastructure/postgres"
	infraredis "github.com/tu-usuario/acceso-residencial/internal/infrastructure/redis"
	"github.com/tu-usuario/acceso-residencial/internal/infrastructure/whatsapp"
	httpRouter "github.com/tu-usuario/acceso-residencial/internal/interfaces/http"
	"github.com/tu-usuario/acceso-residencial/pkg/config"
	"github.com/tu-usuario/acceso-residencial/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient, err := infraredis.New(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	if redisClient == nil {
		log.Info().Msg("Redis no configurado, rate limiter de intake desactivado")
	} else {
		defer redisClient.Close()
	}

	intRepo := postgres.NewIntermediateRegistrationRepository(pool)
	preRepo := postgres.NewPreRegistrationRepository(pool)
	addrRepo := postgres.NewAddressRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	accessLogRepo := postgres.NewAccessLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Notificaciones WhatsApp en segundo plano: los casos de uso encolan y el
	// dispatcher entrega; un fallo de entrega jamás afecta la operación de negocio.
	gateway := whatsapp.NewService(cfg.WhatsApp, log)
	dispatcher := notify.NewDispatcher(gateway, log, 128)
	dispatcher.Start(2)

	approvalUC := access.NewApprovalUseCase(intRepo, addrRepo, txRunner, dispatcher, log)
	preRegistrationUC := access.NewPreRegistrationUseCase(preRepo, addrRepo, accessLogRepo, dispatcher, log)
	addressUC := usecase.NewAddressUseCase(addrRepo)
	vehicleUC := usecase.NewVehicleUseCase(vehicleRepo)
	accessLogUC := usecase.NewAccessLogUseCase(accessLogRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Acceso Residencial API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ApprovalUC:        approvalUC,
		PreRegistrationUC: preRegistrationUC,
		AddressUC:         addressUC,
		VehicleUC:         vehicleUC,
		AccessLogUC:       accessLogUC,
		AuthUC:            authUC,
		JWTSecret:         cfg.JWT.Secret,
		Redis:             redisClient,
		IntakeLimit:       cfg.Redis.IntakeLimit,
		IntakeWindowS:     cfg.Redis.IntakeWindowS,
		Log:               log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// Primero deja de aceptar peticiones, después drena la cola de notificaciones.
	dispatcher.Shutdown()

	log.Info().Msg("aplicación detenida")
}
