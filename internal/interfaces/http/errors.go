package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/auditoria-soat/internal/application/dto"
	"github.com/jhoicas/auditoria-soat/internal/application/usecase"
	"github.com/jhoicas/auditoria-soat/internal/domain"
	"github.com/jhoicas/auditoria-soat/pkg/logger"
)

// writeError traduce los errores de dominio a status y código HTTP.
// Los errores no clasificados se registran y responden 500 sin detalle.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var (
		validacion *usecase.ValidacionError
		mismatch   *domain.ForbiddenMismatchError
		dup        *domain.DuplicateEnvioError
	)
	switch {
	case errors.As(err, &validacion):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.EnvioResponse{
			Code:         "VALIDATION",
			Valido:       false,
			Validaciones: validacion.Validaciones,
		})
	case errors.Is(err, domain.ErrStructuralValidation):
		return respond(c, fiber.StatusUnprocessableEntity, "VALIDATION", err)
	case errors.As(err, &mismatch):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN_MISMATCH",
			Message: "el código de habilitación del archivo no corresponde al del usuario",
		})
	case errors.As(err, &dup):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "DUPLICATE_ENVIO",
			Message: dup.Error(),
			LoteID:  dup.LoteID,
		})
	case errors.Is(err, domain.ErrTooManyLines):
		return respond(c, fiber.StatusRequestEntityTooLarge, "TOO_MANY_LINES", err)
	case errors.Is(err, domain.ErrChunksNotFound):
		return respond(c, fiber.StatusGone, "CHUNKS_NOT_FOUND", err)
	case errors.Is(err, domain.ErrStorageUnavailable), errors.Is(err, domain.ErrTransientIO):
		log.Error().Err(err).Str("path", c.Path()).Msg("falla transitoria de almacenamiento")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code:    "STORAGE_UNAVAILABLE",
			Message: "almacenamiento no disponible, intente más tarde",
		})
	case errors.Is(err, domain.ErrMissingFiles):
		return respond(c, fiber.StatusBadRequest, "MISSING_FILES", err)
	case errors.Is(err, domain.ErrInvalidInput):
		return respond(c, fiber.StatusBadRequest, "INVALID_INPUT", err)
	case errors.Is(err, domain.ErrNotFound):
		return respond(c, fiber.StatusNotFound, "NOT_FOUND", err)
	case errors.Is(err, domain.ErrForbidden):
		return respond(c, fiber.StatusForbidden, "FORBIDDEN", err)
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func respond(c *fiber.Ctx, status int, code string, err error) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
