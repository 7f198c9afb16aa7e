package envio

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/auditoria-soat/internal/domain"
	"github.com/jhoicas/auditoria-soat/internal/domain/entity"
	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
	"github.com/jhoicas/auditoria-soat/pkg/logger"
)

// EnvioSummary resultado conciliado de un envío.
type EnvioSummary struct {
	CodigoHabilitacion  string
	NombreIPS           string
	CantidadFacturas    int
	CantidadItems       int
	ValorTotal          decimal.Decimal
	SoloTransporte      bool
	Transporte          *furips.FurtranAggregation
	EstadoAseguramiento []furips.CodeFrequencyEntry
	CondicionVictima    []furips.CodeFrequencyEntry
	TipoServicio        []furips.CodeFrequencyEntry
	Validaciones        map[furips.FileKind]furips.FileValidationResult
	Contenidos          Files

	batch *Batch
}

// Reconciler combina las agregaciones de FURIPS1, FURIPS2 y FURTRAN en un solo resumen.
type Reconciler struct {
	names ProviderNames
	log   *logger.Logger
}

// NewReconciler construye el conciliador con el buscador de nombres de prestador.
func NewReconciler(names ProviderNames, log *logger.Logger) *Reconciler {
	return &Reconciler{names: names, log: log.Component("reconciler")}
}

// Reconcile exige FURIPS1 y FURIPS2 válidos (FURTRAN opcional) o un envío solo de FURTRAN.
// Un prestador (rol USER) solo puede cargar archivos de su propio código de habilitación.
func (r *Reconciler) Reconcile(ctx context.Context, b *Batch, caller entity.Identity) (*EnvioSummary, error) {
	if !b.Valid() {
		return nil, domain.ErrStructuralValidation
	}
	has1, has2, hasT := b.Has(furips.KindFurips1), b.Has(furips.KindFurips2), b.Has(furips.KindFurtran)

	s := &EnvioSummary{
		Validaciones: b.Validaciones,
		Contenidos:   b.Contenidos,
		Transporte:   b.Furtran,
		batch:        b,
	}
	switch {
	case has1 && has2:
		s.CodigoHabilitacion = b.Furips1.CodigoHabilitacion
		s.CantidadFacturas = b.Furips1.CantidadFacturas
		s.CantidadItems = b.Furips2.CantidadItems
		s.ValorTotal = b.Furips2.ValorTotal
		s.EstadoAseguramiento = b.Furips1.EstadoAseguramiento
		s.CondicionVictima = b.Furips1.CondicionVictima
		s.TipoServicio = b.Furips2.TipoServicio
	case !has1 && !has2 && hasT:
		s.SoloTransporte = true
		s.CodigoHabilitacion = b.Furtran.CodigoHabilitacion
		s.CantidadFacturas = b.Furtran.CantidadRegistros
		s.ValorTotal = b.Furtran.ValorTotal
	default:
		return nil, fmt.Errorf("%w: se requieren FURIPS1 y FURIPS2, o solo FURTRAN", domain.ErrMissingFiles)
	}
	if s.CodigoHabilitacion == "" {
		return nil, fmt.Errorf("%w: el archivo no trae código de habilitación", domain.ErrInvalidInput)
	}

	if caller.IsProvider() {
		own := furips.TruncateCodigoHabilitacion(caller.CodigoHabilitacion)
		if own == "" || own != s.CodigoHabilitacion {
			return nil, &domain.ForbiddenMismatchError{CodigoUsuario: own, CodigoArchivo: s.CodigoHabilitacion}
		}
	}

	s.NombreIPS = r.resolveNombre(ctx, s, caller)
	return s, nil
}

func (r *Reconciler) resolveNombre(ctx context.Context, s *EnvioSummary, caller entity.Identity) string {
	nombre, err := r.names.FindNombreIPS(ctx, s.CodigoHabilitacion)
	if err != nil {
		r.log.Warn().Err(err).Str("codigo_habilitacion", s.CodigoHabilitacion).Msg("no se pudo buscar el nombre del prestador")
	}
	if nombre != "" {
		return nombre
	}
	if caller.IsProvider() && caller.Nombre != "" {
		return caller.Nombre
	}
	if s.SoloTransporte {
		r.log.Warn().Str("codigo_habilitacion", s.CodigoHabilitacion).Msg("envío FURTRAN sin prestador conocido")
		return entity.NombreIPSGenerico
	}
	return entity.NombreIPSNoEncontrada
}
