package repository

import (
	"context"

	"github.com/jhoicas/auditoria-soat/internal/domain/entity"
)

// RegistroRepository persiste las líneas decodificadas de un lote.
// Cada método inserta el conjunto completo o nada (lo invoca el TxRunner por tipo de archivo).
type RegistroRepository interface {
	InsertFurips1(ctx context.Context, registros []entity.RegistroFurips1) (int64, error)
	InsertFurips2(ctx context.Context, registros []entity.RegistroFurips2) (int64, error)
	InsertFurtran(ctx context.Context, registros []entity.RegistroFurtran) (int64, error)
	CountByLote(ctx context.Context, loteID int64) (furips1, furips2, furtran int64, err error)
}
