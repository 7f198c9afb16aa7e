package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/auditoria-soat/internal/application/usecase"
	"github.com/jhoicas/auditoria-soat/internal/domain/entity"
	"github.com/jhoicas/auditoria-soat/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	EnvioUC   *usecase.EnvioUseCase
	LoteUC    *usecase.LoteUseCase
	JWTSecret string
	Logger    *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Todas las rutas de negocio requieren Bearer Token con uno de los roles del tablero
	protected := api.Group("/",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleAdmin, entity.RoleUser, entity.RoleAnalyst),
	)

	envioHandler := NewEnvioHandler(deps.EnvioUC, deps.Logger)
	envios := protected.Group("/envios")
	envios.Post("/validar", envioHandler.Validate)
	envios.Post("/ensamblado", envioHandler.SubmitChunked)
	envios.Post("/", envioHandler.Submit)

	cargas := protected.Group("/cargas")
	cargas.Put("/:uploadId/fragmentos/:chunkId", envioHandler.SaveChunk)

	loteHandler := NewLoteHandler(deps.LoteUC, deps.Logger)
	lotes := protected.Group("/lotes")
	lotes.Get("/", loteHandler.List)
	lotes.Get("/:id", loteHandler.GetByID)
}
