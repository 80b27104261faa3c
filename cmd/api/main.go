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

	"github.com/jhoicas/Traslados-api/internal/application/access"
	"github.com/jhoicas/Traslados-api/internal/application/auth"
	"github.com/jhoicas/Traslados-api/internal/application/document"
	"github.com/jhoicas/Traslados-api/internal/application/location"
	"github.com/jhoicas/Traslados-api/internal/application/transfer"
	"github.com/jhoicas/Traslados-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/Traslados-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Traslados-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Traslados-api/internal/interfaces/http"
	"github.com/jhoicas/Traslados-api/pkg/businessclock"
	"github.com/jhoicas/Traslados-api/pkg/config"
	"github.com/jhoicas/Traslados-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	businessRepo := postgres.NewBusinessRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	userLocRepo := postgres.NewUserLocationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	serialRepo := postgres.NewSerialNumberRepository(pool)
	transferRepo := postgres.NewStockTransferRepository(pool)
	stepRepo := postgres.NewTransferStepRepository(pool)
	sodRepo := postgres.NewSODSettingsRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	resolver := access.NewResolver(userLocRepo)
	notifier := notify.NewWebhookNotifier(
		cfg.Notify.WebhookURL,
		time.Duration(cfg.Notify.TimeoutSeconds)*time.Second,
		log,
	)
	auditSink := notify.NewAuditSink(auditRepo, log)
	clock := businessclock.New(cfg.App.Timezone)

	transferUC := transfer.NewUseCase(transfer.Deps{
		TxRunner:     txRunner,
		TransferRepo: transferRepo,
		StepRepo:     stepRepo,
		LocationRepo: locationRepo,
		ProductRepo:  productRepo,
		UserRepo:     userRepo,
		SerialRepo:   serialRepo,
		SODRepo:      sodRepo,
		Resolver:     resolver,
		Audit:        auditSink,
		Notifier:     notifier,
		Clock:        clock,
		Log:          log,
	})

	locationUC := location.NewUseCase(locationRepo, userRepo, userLocRepo)

	// PDF: guía de traslado que viaja con la mercancía
	noteGenerator := infrapdf.NewMarotoNoteGenerator()
	documentUC := document.NewUseCase(
		transferRepo, locationRepo, productRepo, serialRepo, resolver, noteGenerator,
	)

	authUC := auth.NewAuthUseCase(userRepo, businessRepo, auth.JWTConfig{
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
		Title:    "Traslados API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		TransferUC: transferUC,
		LocationUC: locationUC,
		DocumentUC: documentUC,
		JWTSecret:  cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
