package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Traslados-api/internal/application/auth"
	"github.com/jhoicas/Traslados-api/internal/application/document"
	"github.com/jhoicas/Traslados-api/internal/application/location"
	"github.com/jhoicas/Traslados-api/internal/application/transfer"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	TransferUC *transfer.UseCase
	LocationUC *location.UseCase
	DocumentUC *document.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sedes y asignaciones (protegido)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Post("/assign", locationHandler.Assign)
	locations.Post("/unassign", locationHandler.Unassign)
	locations.Get("/:id", locationHandler.Get)

	// Traslados (protegido)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC, deps.DocumentUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Put("/:id", transferHandler.Update)
	transfers.Post("/:id/check", transferHandler.Check)
	transfers.Post("/:id/send", transferHandler.Send)
	transfers.Post("/:id/arrive", transferHandler.Arrive)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Post("/:id/complete", transferHandler.Complete)
	transfers.Delete("/:id", transferHandler.Cancel)
	transfers.Get("/:id/note", transferHandler.Note)

	// Configuración SOD del negocio (protegido)
	settings := protected.Group("/settings")
	sodHandler := NewSODHandler(deps.TransferUC)
	settings.Get("/sod", sodHandler.Get)
	settings.Put("/sod", sodHandler.Update)
}
