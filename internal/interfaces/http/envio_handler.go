package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/auditoria-soat/internal/application/dto"
	"github.com/jhoicas/auditoria-soat/internal/application/envio"
	"github.com/jhoicas/auditoria-soat/internal/application/usecase"
	"github.com/jhoicas/auditoria-soat/internal/domain"
	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
	"github.com/jhoicas/auditoria-soat/pkg/logger"
)

// EnvioHandler carga de envíos FURIPS1 / FURIPS2 / FURTRAN.
type EnvioHandler struct {
	uc  *usecase.EnvioUseCase
	log *logger.Logger
}

// NewEnvioHandler construye el handler.
func NewEnvioHandler(uc *usecase.EnvioUseCase, log *logger.Logger) *EnvioHandler {
	return &EnvioHandler{uc: uc, log: log.Component("envio_handler")}
}

// Validate godoc
// @Summary      Validar envío sin registrarlo
// @Tags         envios
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        furips1  formData  file  false  "Archivo FURIPS1"
// @Param        furips2  formData  file  false  "Archivo FURIPS2"
// @Param        furtran  formData  file  false  "Archivo FURTRAN"
// @Success      200  {object}  dto.EnvioResponse
// @Failure      422  {object}  dto.EnvioResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/envios/validar [post]
func (h *EnvioHandler) Validate(c *fiber.Ctx) error {
	files, err := readFiles(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Preview(c.UserContext(), files, GetIdentity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Registrar envío
// @Tags         envios
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id_envio formData  string  true   "Identificador del envío"
// @Param        furips1  formData  file    false  "Archivo FURIPS1"
// @Param        furips2  formData  file    false  "Archivo FURIPS2"
// @Param        furtran  formData  file    false  "Archivo FURTRAN"
// @Success      201  {object}  dto.EnvioResponse
// @Success      207  {object}  dto.EnvioResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.EnvioResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/envios [post]
func (h *EnvioHandler) Submit(c *fiber.Ctx) error {
	idEnvio := strings.TrimSpace(c.FormValue("id_envio"))
	if idEnvio == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id_envio es requerido"})
	}
	files, err := readFiles(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Submit(c.UserContext(), idEnvio, files, GetIdentity(c))
	return h.submitted(c, out, err)
}

// SaveChunk godoc
// @Summary      Subir un fragmento de archivo
// @Tags         envios
// @Security     Bearer
// @Accept       application/octet-stream
// @Produce      json
// @Param        uploadId  path  string  true  "UUID de la carga"
// @Param        chunkId   path  string  true  "Identificador del fragmento (orden lexicográfico)"
// @Success      201  {object}  dto.FragmentoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cargas/{uploadId}/fragmentos/{chunkId} [put]
func (h *EnvioHandler) SaveChunk(c *fiber.Ctx) error {
	out, err := h.uc.SaveChunk(c.UserContext(), c.Params("uploadId"), c.Params("chunkId"), bytes.NewReader(c.Body()))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SubmitChunked godoc
// @Summary      Registrar envío a partir de cargas fragmentadas
// @Tags         envios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EnsambladoRequest  true  "Envío y cargas por archivo"
// @Success      201  {object}  dto.EnvioResponse
// @Failure      410  {object}  dto.ErrorResponse
// @Router       /api/envios/ensamblado [post]
func (h *EnvioHandler) SubmitChunked(c *fiber.Ctx) error {
	var in dto.EnsambladoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if strings.TrimSpace(in.IDEnvio) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id_envio es requerido"})
	}
	out, err := h.uc.SubmitChunked(c.UserContext(), in, GetIdentity(c))
	return h.submitted(c, out, err)
}

func (h *EnvioHandler) submitted(c *fiber.Ctx, out *dto.EnvioResponse, err error) error {
	if errors.Is(err, domain.ErrPartialInsert) && out != nil {
		out.Code = "PARTIAL_INSERT"
		return c.Status(fiber.StatusMultiStatus).JSON(out)
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// readFiles lee los campos furips1, furips2 y furtran del formulario; los ausentes se omiten.
func readFiles(c *fiber.Ctx) (envio.Files, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: se esperaba multipart/form-data", domain.ErrInvalidInput)
	}
	files := make(envio.Files, len(furips.Kinds()))
	for _, kind := range furips.Kinds() {
		headers := form.File[strings.ToLower(string(kind))]
		if len(headers) == 0 {
			continue
		}
		data, err := readPart(headers[0])
		if err != nil {
			return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrInvalidInput, kind, err)
		}
		files[kind] = data
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
