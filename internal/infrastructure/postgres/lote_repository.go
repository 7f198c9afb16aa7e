package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/auditoria-soat/internal/domain"
	"github.com/jhoicas/auditoria-soat/internal/domain/entity"
	"github.com/jhoicas/auditoria-soat/internal/domain/repository"
)

var _ repository.LoteRepository = (*LoteRepo)(nil)

// LoteRepo implementación de LoteRepository (usable con pool o tx).
type LoteRepo struct {
	q Querier
}

// NewLoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLoteRepository(q Querier) *LoteRepo {
	return &LoteRepo{q: q}
}

const loteColumns = `id, codigo_habilitacion, nombre_ips, nombre_archivo, cantidad_facturas, cantidad_items,
	valor_total, ruta_drive, estado, fecha_carga, fecha_procesado, procesado_por, cargado_por`

// LockEnvio toma un advisory lock de transacción sobre la llave del envío.
// Solo tiene efecto dentro de una transacción (se libera en commit/rollback).
func (r *LoteRepo) LockEnvio(ctx context.Context, codigoHabilitacion, nombreArchivo string, dia time.Time) error {
	key := codigoHabilitacion + "|" + nombreArchivo + "|" + dia.Format("2006-01-02")
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("lock envío: %w", err)
	}
	return nil
}

// FindByEnvio busca el lote del mismo prestador y nombre cargado en [desde, hasta).
func (r *LoteRepo) FindByEnvio(ctx context.Context, codigoHabilitacion, nombreArchivo string, desde, hasta time.Time) (*entity.Lote, error) {
	query := `SELECT ` + loteColumns + `
		FROM lotes
		WHERE codigo_habilitacion = $1 AND nombre_archivo = $2
		  AND fecha_carga >= $3 AND fecha_carga < $4
		ORDER BY id
		LIMIT 1`
	l, err := scanLote(r.q.QueryRow(ctx, query, codigoHabilitacion, nombreArchivo, desde, hasta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar envío: %w", err)
	}
	return l, nil
}

// Create inserta el lote. fecha_carga_dia respalda la unicidad diaria con un índice único.
func (r *LoteRepo) Create(ctx context.Context, lote *entity.Lote) error {
	dia, _ := entity.DiaCarga(lote.FechaCarga)
	query := `
		INSERT INTO lotes (codigo_habilitacion, nombre_ips, nombre_archivo, cantidad_facturas, cantidad_items,
		                   valor_total, ruta_drive, estado, fecha_carga, fecha_carga_dia, cargado_por)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		lote.CodigoHabilitacion, lote.NombreIPS, lote.NombreArchivo, lote.CantidadFacturas, lote.CantidadItems,
		lote.ValorTotal, lote.RutaDrive, lote.Estado, lote.FechaCarga, dia, lote.CargadoPor,
	).Scan(&lote.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert lote: %w", domain.ErrDuplicateEnvio)
		}
		return fmt.Errorf("insert lote: %w", err)
	}
	return nil
}

// UpdateRutaDrive guarda la ruta devuelta por el almacenamiento.
func (r *LoteRepo) UpdateRutaDrive(ctx context.Context, id int64, ruta string) error {
	tag, err := r.q.Exec(ctx, `UPDATE lotes SET ruta_drive = $2 WHERE id = $1`, id, ruta)
	if err != nil {
		return fmt.Errorf("update ruta lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un lote recién creado cuyo almacenamiento falló (los detalles caen en cascada).
func (r *LoteRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM lotes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lote: %w", err)
	}
	return nil
}

// GetByID obtiene un lote. nil si no existe.
func (r *LoteRepo) GetByID(ctx context.Context, id int64) (*entity.Lote, error) {
	l, err := scanLote(r.q.QueryRow(ctx, `SELECT `+loteColumns+` FROM lotes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	return l, nil
}

// List lista lotes del más reciente al más antiguo.
func (r *LoteRepo) List(ctx context.Context, f repository.LoteFilter) ([]*entity.Lote, error) {
	where, args := loteWhere(f)
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, f.Offset)
	query := `SELECT ` + loteColumns + ` FROM lotes` + where +
		fmt.Sprintf(" ORDER BY fecha_carga DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lote
	for rows.Next() {
		l, err := scanLote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Count total de lotes del filtro (ignora Limit/Offset).
func (r *LoteRepo) Count(ctx context.Context, f repository.LoteFilter) (int, error) {
	where, args := loteWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM lotes`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count lotes: %w", err)
	}
	return n, nil
}

// loteWhere arma la cláusula WHERE parametrizada del filtro.
func loteWhere(f repository.LoteFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.CodigoHabilitacion != "" {
		add("codigo_habilitacion = $%d", f.CodigoHabilitacion)
	}
	if f.Desde != nil {
		add("fecha_carga >= $%d", *f.Desde)
	}
	if f.Hasta != nil {
		add("fecha_carga < $%d", *f.Hasta)
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// FindNombreIPS nombre del prestador en el lote más reciente con el mismo prefijo de código.
// Ignora los lotes que quedaron con un nombre de respaldo.
func (r *LoteRepo) FindNombreIPS(ctx context.Context, prefijoCodigo string) (string, error) {
	if prefijoCodigo == "" {
		return "", nil
	}
	const query = `
		SELECT nombre_ips FROM lotes
		WHERE codigo_habilitacion LIKE $1 ESCAPE '\'
		  AND nombre_ips NOT IN ($2, $3)
		ORDER BY fecha_carga DESC
		LIMIT 1`
	var nombre string
	err := r.q.QueryRow(ctx, query, escapeLike(prefijoCodigo)+"%", entity.NombreIPSNoEncontrada, entity.NombreIPSGenerico).Scan(&nombre)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("buscar nombre IPS: %w", err)
	}
	return nombre, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLote(row rowScanner) (*entity.Lote, error) {
	var l entity.Lote
	err := row.Scan(
		&l.ID, &l.CodigoHabilitacion, &l.NombreIPS, &l.NombreArchivo, &l.CantidadFacturas, &l.CantidadItems,
		&l.ValorTotal, &l.RutaDrive, &l.Estado, &l.FechaCarga, &l.FechaProcesado, &l.ProcesadoPor, &l.CargadoPor,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
