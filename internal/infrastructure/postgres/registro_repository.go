package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/auditoria-soat/internal/domain/entity"
	"github.com/jhoicas/auditoria-soat/internal/domain/repository"
)

var _ repository.RegistroRepository = (*RegistroRepo)(nil)

// RegistroRepo inserta las líneas decodificadas de un lote con COPY.
type RegistroRepo struct {
	q Querier
}

// NewRegistroRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRegistroRepository(q Querier) *RegistroRepo {
	return &RegistroRepo{q: q}
}

var (
	furips1Columns = []string{
		"lote_id", "linea", "numero_factura", "consecutivo_reclamacion", "codigo_habilitacion",
		"tipo_documento_victima", "documento_victima", "condicion_victima", "estado_aseguramiento",
		"placa_vehiculo", "campos",
	}
	furips2Columns = []string{
		"lote_id", "linea", "numero_factura", "consecutivo", "tipo_servicio", "codigo_servicio",
		"descripcion", "cantidad", "valor_unitario", "valor_facturado", "valor_reclamado",
	}
	furtranColumns = []string{
		"lote_id", "linea", "numero_factura", "codigo_habilitacion", "placa_ambulancia",
		"valor_reclamado", "campos",
	}
)

// InsertFurips1 copia las reclamaciones del FURIPS1.
func (r *RegistroRepo) InsertFurips1(ctx context.Context, registros []entity.RegistroFurips1) (int64, error) {
	n, err := r.q.CopyFrom(ctx, pgx.Identifier{"furips1_registros"}, furips1Columns,
		pgx.CopyFromSlice(len(registros), func(i int) ([]any, error) {
			x := registros[i]
			return []any{
				x.LoteID, x.Linea, x.NumeroFactura, x.ConsecutivoReclamacion, x.CodigoHabilitacion,
				x.TipoDocumentoVictima, x.DocumentoVictima, x.CondicionVictima, x.EstadoAseguramiento,
				x.PlacaVehiculo, x.Campos,
			}, nil
		}))
	if err != nil {
		return n, fmt.Errorf("copy furips1: %w", err)
	}
	return n, nil
}

// InsertFurips2 copia el detalle de servicios del FURIPS2.
func (r *RegistroRepo) InsertFurips2(ctx context.Context, registros []entity.RegistroFurips2) (int64, error) {
	n, err := r.q.CopyFrom(ctx, pgx.Identifier{"furips2_registros"}, furips2Columns,
		pgx.CopyFromSlice(len(registros), func(i int) ([]any, error) {
			x := registros[i]
			return []any{
				x.LoteID, x.Linea, x.NumeroFactura, x.Consecutivo, x.TipoServicio, x.CodigoServicio,
				x.Descripcion, x.Cantidad, x.ValorUnitario, x.ValorFacturado, x.ValorReclamado,
			}, nil
		}))
	if err != nil {
		return n, fmt.Errorf("copy furips2: %w", err)
	}
	return n, nil
}

// InsertFurtran copia las reclamaciones de transporte.
func (r *RegistroRepo) InsertFurtran(ctx context.Context, registros []entity.RegistroFurtran) (int64, error) {
	n, err := r.q.CopyFrom(ctx, pgx.Identifier{"furtran_registros"}, furtranColumns,
		pgx.CopyFromSlice(len(registros), func(i int) ([]any, error) {
			x := registros[i]
			return []any{
				x.LoteID, x.Linea, x.NumeroFactura, x.CodigoHabilitacion, x.PlacaAmbulancia,
				x.ValorReclamado, x.Campos,
			}, nil
		}))
	if err != nil {
		return n, fmt.Errorf("copy furtran: %w", err)
	}
	return n, nil
}

// CountByLote cuenta las líneas persistidas por tipo de archivo.
func (r *RegistroRepo) CountByLote(ctx context.Context, loteID int64) (furips1, furips2, furtran int64, err error) {
	const query = `
		SELECT
		    (SELECT COUNT(*) FROM furips1_registros WHERE lote_id = $1),
		    (SELECT COUNT(*) FROM furips2_registros WHERE lote_id = $1),
		    (SELECT COUNT(*) FROM furtran_registros WHERE lote_id = $1)`
	if err = r.q.QueryRow(ctx, query, loteID).Scan(&furips1, &furips2, &furtran); err != nil {
		return 0, 0, 0, fmt.Errorf("contar registros: %w", err)
	}
	return furips1, furips2, furtran, nil
}
