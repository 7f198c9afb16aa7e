package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/jhoicas/auditoria-soat/internal/application/dto"
	"github.com/jhoicas/auditoria-soat/internal/application/envio"
	"github.com/jhoicas/auditoria-soat/internal/domain"
	"github.com/jhoicas/auditoria-soat/internal/domain/entity"
	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
	"github.com/jhoicas/auditoria-soat/pkg/logger"
)

// ValidacionError el envío no pasó la validación estructural; lleva el detalle por archivo.
type ValidacionError struct {
	Validaciones map[string]furips.FileValidationResult
}

func (e *ValidacionError) Error() string {
	return domain.ErrStructuralValidation.Error()
}

func (e *ValidacionError) Unwrap() error { return domain.ErrStructuralValidation }

// EnvioUseCase casos de uso de carga de envíos SOAT/ECAT.
type EnvioUseCase struct {
	processor  *envio.Processor
	reconciler *envio.Reconciler
	registrar  *envio.Registrar
	chunks     envio.ChunkStore
	log        *logger.Logger
}

// NewEnvioUseCase construye el caso de uso. chunks puede ser nil si no se aceptan cargas fragmentadas.
func NewEnvioUseCase(
	processor *envio.Processor,
	reconciler *envio.Reconciler,
	registrar *envio.Registrar,
	chunks envio.ChunkStore,
	log *logger.Logger,
) *EnvioUseCase {
	return &EnvioUseCase{
		processor:  processor,
		reconciler: reconciler,
		registrar:  registrar,
		chunks:     chunks,
		log:        log.Component("envio_usecase"),
	}
}

// Preview valida y concilia sin registrar el lote.
func (uc *EnvioUseCase) Preview(ctx context.Context, files envio.Files, caller entity.Identity) (*dto.EnvioResponse, error) {
	s, err := uc.summarize(ctx, files, caller)
	if err != nil {
		return nil, err
	}
	return toEnvioResponse(s), nil
}

// Submit valida, concilia y registra el envío. Ante una inserción parcial devuelve la
// respuesta junto con el error *domain.PartialInsertError.
func (uc *EnvioUseCase) Submit(ctx context.Context, idEnvio string, files envio.Files, caller entity.Identity) (*dto.EnvioResponse, error) {
	s, err := uc.summarize(ctx, files, caller)
	if err != nil {
		return nil, err
	}
	res, err := uc.registrar.Register(ctx, s, idEnvio, caller)
	if res == nil {
		return nil, err
	}
	out := toEnvioResponse(s)
	lote := toLoteResponse(res.Lote)
	out.Lote = &lote
	out.Insertados = make(map[string]int64, len(res.Insertados))
	for kind, n := range res.Insertados {
		out.Insertados[string(kind)] = n
	}
	var partial *domain.PartialInsertError
	if errors.As(err, &partial) {
		out.Fallidos = make(map[string]string, len(partial.Fallidos))
		for k, e := range partial.Fallidos {
			out.Fallidos[k] = e.Error()
		}
	}
	return out, err
}

// SaveChunk almacena un fragmento de una carga fragmentada.
func (uc *EnvioUseCase) SaveChunk(ctx context.Context, uploadID, chunkID string, r io.Reader) (*dto.FragmentoResponse, error) {
	if uc.chunks == nil {
		return nil, fmt.Errorf("%w: cargas fragmentadas deshabilitadas", domain.ErrInvalidInput)
	}
	n, err := uc.chunks.SaveChunk(ctx, uploadID, chunkID, r)
	if err != nil {
		return nil, err
	}
	return &dto.FragmentoResponse{UploadID: uploadID, ChunkID: chunkID, Bytes: n}, nil
}

// SubmitChunked ensambla cada archivo a partir de sus fragmentos y luego sigue el flujo de Submit.
// Todas las cargas se verifican antes de leer cualquiera. Los fragmentos solo se eliminan cuando
// el lote quedó registrado (completo o parcial); ante cualquier otro error se conservan para reintentar.
func (uc *EnvioUseCase) SubmitChunked(ctx context.Context, req dto.EnsambladoRequest, caller entity.Identity) (*dto.EnvioResponse, error) {
	if uc.chunks == nil {
		return nil, fmt.Errorf("%w: cargas fragmentadas deshabilitadas", domain.ErrInvalidInput)
	}
	if len(req.Archivos) == 0 {
		return nil, fmt.Errorf("%w: no se indicó ningún archivo", domain.ErrMissingFiles)
	}

	names := make([]string, 0, len(req.Archivos))
	for name := range req.Archivos {
		names = append(names, name)
	}
	sort.Strings(names)

	type carga struct {
		kind furips.FileKind
		ref  dto.FragmentoRef
		size int64
	}
	cargas := make([]carga, 0, len(names))
	for _, name := range names {
		kind, err := furips.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		ref := req.Archivos[name]
		size, err := uc.chunks.Check(ctx, ref.UploadID, ref.TotalFragmentos)
		if err != nil {
			return nil, err
		}
		cargas = append(cargas, carga{kind: kind, ref: ref, size: size})
	}

	files := make(envio.Files, len(cargas))
	for _, c := range cargas {
		buf := bytes.NewBuffer(make([]byte, 0, c.size))
		meta, err := uc.chunks.Assemble(ctx, c.ref.UploadID, c.ref.TotalFragmentos, buf)
		if err != nil {
			return nil, err
		}
		uc.log.Info().
			Str("tipo", string(c.kind)).
			Str("upload_id", c.ref.UploadID).
			Int("fragmentos", meta.Chunks).
			Int64("bytes", meta.Size).
			Str("checksum", meta.Checksum).
			Msg("archivo ensamblado")
		files[c.kind] = buf.Bytes()
	}

	out, err := uc.Submit(ctx, req.IDEnvio, files, caller)
	if err == nil || errors.Is(err, domain.ErrPartialInsert) {
		for _, c := range cargas {
			if derr := uc.chunks.Discard(ctx, c.ref.UploadID); derr != nil {
				uc.log.Warn().Err(derr).Str("upload_id", c.ref.UploadID).Msg("no se pudieron eliminar los fragmentos")
			}
		}
	}
	return out, err
}

func (uc *EnvioUseCase) summarize(ctx context.Context, files envio.Files, caller entity.Identity) (*envio.EnvioSummary, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no se recibió ningún archivo", domain.ErrMissingFiles)
	}
	b, err := uc.processor.Process(ctx, files)
	if err != nil {
		return nil, err
	}
	if !b.Valid() {
		return nil, &ValidacionError{Validaciones: validaciones(b)}
	}
	return uc.reconciler.Reconcile(ctx, b, caller)
}

func validaciones(b *envio.Batch) map[string]furips.FileValidationResult {
	out := make(map[string]furips.FileValidationResult, len(b.Validaciones))
	for kind, v := range b.Validaciones {
		out[string(kind)] = v
	}
	return out
}

func toEnvioResponse(s *envio.EnvioSummary) *dto.EnvioResponse {
	resumen := dto.ResumenEnvioResponse{
		CodigoHabilitacion:  s.CodigoHabilitacion,
		NombreIPS:           s.NombreIPS,
		CantidadFacturas:    s.CantidadFacturas,
		CantidadItems:       s.CantidadItems,
		ValorTotal:          s.ValorTotal,
		SoloTransporte:      s.SoloTransporte,
		EstadoAseguramiento: nonNilEntries(s.EstadoAseguramiento),
		CondicionVictima:    nonNilEntries(s.CondicionVictima),
		TipoServicio:        nonNilEntries(s.TipoServicio),
	}
	if s.Transporte != nil {
		resumen.Transporte = &dto.TransporteResponse{
			CodigoHabilitacion: s.Transporte.CodigoHabilitacion,
			CantidadRegistros:  s.Transporte.CantidadRegistros,
			ValorTotal:         s.Transporte.ValorTotal,
		}
	}
	out := &dto.EnvioResponse{
		Valido:       true,
		Resumen:      &resumen,
		Validaciones: make(map[string]furips.FileValidationResult, len(s.Validaciones)),
	}
	for kind, v := range s.Validaciones {
		out.Validaciones[string(kind)] = v
	}
	return out
}

func nonNilEntries(e []furips.CodeFrequencyEntry) []furips.CodeFrequencyEntry {
	if e == nil {
		return []furips.CodeFrequencyEntry{}
	}
	return e
}

func toLoteResponse(l *entity.Lote) dto.LoteResponse {
	return dto.LoteResponse{
		ID:                 l.ID,
		CodigoHabilitacion: l.CodigoHabilitacion,
		NombreIPS:          l.NombreIPS,
		NombreArchivo:      l.NombreArchivo,
		CantidadFacturas:   l.CantidadFacturas,
		CantidadItems:      l.CantidadItems,
		ValorTotal:         l.ValorTotal,
		RutaDrive:          l.RutaDrive,
		Estado:             l.Estado,
		FechaCarga:         l.FechaCarga,
		FechaProcesado:     l.FechaProcesado,
		ProcesadoPor:       l.ProcesadoPor,
		CargadoPor:         l.CargadoPor,
	}
}
