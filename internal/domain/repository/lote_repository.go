package repository

import (
	"context"
	"time"

	"github.com/jhoicas/auditoria-soat/internal/domain/entity"
)

// LoteFilter filtros del listado de lotes. CodigoHabilitacion vacío = todos los prestadores.
type LoteFilter struct {
	CodigoHabilitacion string
	Desde              *time.Time
	Hasta              *time.Time
	Limit              int
	Offset             int
}

// LoteRepository define el puerto de persistencia de lotes (envíos).
type LoteRepository interface {
	// LockEnvio serializa registros concurrentes del mismo envío dentro de la transacción actual.
	LockEnvio(ctx context.Context, codigoHabilitacion, nombreArchivo string, dia time.Time) error
	// FindByEnvio busca un lote con el mismo código y nombre cargado en [desde, hasta). nil si no existe.
	FindByEnvio(ctx context.Context, codigoHabilitacion, nombreArchivo string, desde, hasta time.Time) (*entity.Lote, error)
	// Create inserta el lote y asigna su ID. Devuelve domain.ErrDuplicateEnvio si viola la unicidad diaria.
	Create(ctx context.Context, lote *entity.Lote) error
	UpdateRutaDrive(ctx context.Context, id int64, ruta string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*entity.Lote, error)
	List(ctx context.Context, filter LoteFilter) ([]*entity.Lote, error)
	// Count total de lotes que cumplen el filtro, sin paginación.
	Count(ctx context.Context, filter LoteFilter) (int, error)
	// FindNombreIPS devuelve el nombre del prestador en el lote más reciente cuyo código
	// comparte el prefijo dado. Vacío si no hay coincidencia.
	FindNombreIPS(ctx context.Context, prefijoCodigo string) (string, error)
}
