package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/auditoria-soat/internal/application/dto"
	"github.com/jhoicas/auditoria-soat/internal/domain"
	"github.com/jhoicas/auditoria-soat/internal/domain/entity"
	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
	"github.com/jhoicas/auditoria-soat/internal/domain/repository"
)

const fechaLayout = "2006-01-02"

// LoteUseCase consultas de lotes registrados. Un prestador solo ve sus propios lotes.
type LoteUseCase struct {
	lotes     repository.LoteRepository
	registros repository.RegistroRepository
}

// NewLoteUseCase construye el caso de uso.
func NewLoteUseCase(lotes repository.LoteRepository, registros repository.RegistroRepository) *LoteUseCase {
	return &LoteUseCase{lotes: lotes, registros: registros}
}

// GetByID devuelve el lote con el conteo de registros persistidos.
// Devuelve domain.ErrNotFound si no existe o pertenece a otro prestador.
func (uc *LoteUseCase) GetByID(ctx context.Context, id int64, caller entity.Identity) (*dto.LoteDetalleResponse, error) {
	lote, err := uc.lotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lote == nil || !canSee(caller, lote) {
		return nil, domain.ErrNotFound
	}
	f1, f2, ft, err := uc.registros.CountByLote(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.LoteDetalleResponse{
		LoteResponse:     toLoteResponse(lote),
		RegistrosFurips1: f1,
		RegistrosFurips2: f2,
		RegistrosFurtran: ft,
	}, nil
}

// List lista lotes por fecha de carga descendente.
func (uc *LoteUseCase) List(ctx context.Context, in dto.LoteListRequest, caller entity.Identity) (*dto.LoteListResponse, error) {
	in.DefaultPage()
	if in.Limit > 100 {
		in.Limit = 100
	}
	filter := repository.LoteFilter{
		CodigoHabilitacion: in.CodigoHabilitacion,
		Limit:              in.Limit,
		Offset:             in.Offset,
	}
	if caller.IsProvider() {
		filter.CodigoHabilitacion = furips.TruncateCodigoHabilitacion(caller.CodigoHabilitacion)
		if filter.CodigoHabilitacion == "" {
			return nil, domain.ErrForbidden
		}
	}
	if in.Desde != "" {
		d, err := time.ParseInLocation(fechaLayout, in.Desde, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: desde debe tener formato %s", domain.ErrInvalidInput, fechaLayout)
		}
		filter.Desde = &d
	}
	if in.Hasta != "" {
		h, err := time.ParseInLocation(fechaLayout, in.Hasta, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: hasta debe tener formato %s", domain.ErrInvalidInput, fechaLayout)
		}
		// hasta inclusivo: se consulta hasta el inicio del día siguiente
		h = h.AddDate(0, 0, 1)
		filter.Hasta = &h
	}

	list, err := uc.lotes.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.lotes.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LoteResponse, 0, len(list))
	for _, l := range list {
		items = append(items, toLoteResponse(l))
	}
	return &dto.LoteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

func canSee(caller entity.Identity, l *entity.Lote) bool {
	if !caller.IsProvider() {
		return true
	}
	own := furips.TruncateCodigoHabilitacion(caller.CodigoHabilitacion)
	return own != "" && own == l.CodigoHabilitacion
}
