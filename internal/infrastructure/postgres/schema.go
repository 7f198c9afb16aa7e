package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements crea las tablas si no existen. El índice ux_lotes_envio_dia garantiza
// un solo lote por (prestador, envío, día) aunque dos cargas concurrentes pasen la verificación.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS lotes (
		id                  BIGSERIAL PRIMARY KEY,
		codigo_habilitacion VARCHAR(10)   NOT NULL,
		nombre_ips          TEXT          NOT NULL,
		nombre_archivo      TEXT          NOT NULL,
		cantidad_facturas   INTEGER       NOT NULL DEFAULT 0,
		cantidad_items      INTEGER       NOT NULL DEFAULT 0,
		valor_total         NUMERIC(18,2) NOT NULL DEFAULT 0,
		ruta_drive          TEXT          NOT NULL DEFAULT '',
		estado              VARCHAR(20)   NOT NULL DEFAULT 'EN_PROCESO'
		                    CHECK (estado IN ('EN_PROCESO', 'FINALIZADO')),
		fecha_carga         TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		fecha_carga_dia     DATE          NOT NULL,
		fecha_procesado     TIMESTAMPTZ,
		procesado_por       TEXT,
		cargado_por         TEXT          NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_lotes_envio_dia
		ON lotes (codigo_habilitacion, nombre_archivo, fecha_carga_dia)`,
	`CREATE INDEX IF NOT EXISTS ix_lotes_codigo_fecha
		ON lotes (codigo_habilitacion, fecha_carga DESC)`,
	`CREATE TABLE IF NOT EXISTS furips1_registros (
		id                      BIGSERIAL PRIMARY KEY,
		lote_id                 BIGINT  NOT NULL REFERENCES lotes(id) ON DELETE CASCADE,
		linea                   INTEGER NOT NULL,
		numero_factura          TEXT    NOT NULL,
		consecutivo_reclamacion TEXT    NOT NULL,
		codigo_habilitacion     TEXT    NOT NULL,
		tipo_documento_victima  TEXT    NOT NULL,
		documento_victima       TEXT    NOT NULL,
		condicion_victima       TEXT    NOT NULL,
		estado_aseguramiento    TEXT    NOT NULL,
		placa_vehiculo          TEXT    NOT NULL,
		campos                  TEXT[]  NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_furips1_lote ON furips1_registros (lote_id)`,
	`CREATE TABLE IF NOT EXISTS furips2_registros (
		id              BIGSERIAL PRIMARY KEY,
		lote_id         BIGINT        NOT NULL REFERENCES lotes(id) ON DELETE CASCADE,
		linea           INTEGER       NOT NULL,
		numero_factura  TEXT          NOT NULL,
		consecutivo     TEXT          NOT NULL,
		tipo_servicio   TEXT          NOT NULL,
		codigo_servicio TEXT          NOT NULL,
		descripcion     TEXT          NOT NULL,
		cantidad        NUMERIC(18,4) NOT NULL,
		valor_unitario  NUMERIC(18,2) NOT NULL,
		valor_facturado NUMERIC(18,2) NOT NULL,
		valor_reclamado NUMERIC(18,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_furips2_lote ON furips2_registros (lote_id)`,
	`CREATE TABLE IF NOT EXISTS furtran_registros (
		id                  BIGSERIAL PRIMARY KEY,
		lote_id             BIGINT        NOT NULL REFERENCES lotes(id) ON DELETE CASCADE,
		linea               INTEGER       NOT NULL,
		numero_factura      TEXT          NOT NULL,
		codigo_habilitacion TEXT          NOT NULL,
		placa_ambulancia    TEXT          NOT NULL,
		valor_reclamado     NUMERIC(18,2) NOT NULL,
		campos              TEXT[]        NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_furtran_lote ON furtran_registros (lote_id)`,
}

// EnsureSchema aplica el esquema de forma idempotente al iniciar.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("esquema (sentencia %d): %w", i+1, err)
		}
	}
	return nil
}
