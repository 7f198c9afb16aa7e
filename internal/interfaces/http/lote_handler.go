package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/auditoria-soat/internal/application/dto"
	"github.com/jhoicas/auditoria-soat/internal/application/usecase"
	"github.com/jhoicas/auditoria-soat/pkg/logger"
)

// LoteHandler consultas de lotes registrados (protegido).
type LoteHandler struct {
	uc  *usecase.LoteUseCase
	log *logger.Logger
}

// NewLoteHandler construye el handler.
func NewLoteHandler(uc *usecase.LoteUseCase, log *logger.Logger) *LoteHandler {
	return &LoteHandler{uc: uc, log: log.Component("lote_handler")}
}

// GetByID godoc
// @Summary      Obtener lote por ID
// @Tags         lotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del lote"
// @Success      200  {object}  dto.LoteDetalleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lotes/{id} [get]
func (h *LoteHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id debe ser numérico"})
	}
	out, err := h.uc.GetByID(c.UserContext(), id, GetIdentity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar lotes
// @Tags         lotes
// @Security     Bearer
// @Produce      json
// @Param        codigo_habilitacion  query  string  false  "Código de habilitación (ignorado para prestadores)"
// @Param        desde   query  string  false  "Fecha inicial 2006-01-02"
// @Param        hasta   query  string  false  "Fecha final 2006-01-02 (inclusive)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.LoteListResponse
// @Router       /api/lotes [get]
func (h *LoteHandler) List(c *fiber.Ctx) error {
	var in dto.LoteListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), in, GetIdentity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
