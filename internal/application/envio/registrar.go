package envio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/auditoria-soat/internal/domain"
	"github.com/jhoicas/auditoria-soat/internal/domain/entity"
	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
	"github.com/jhoicas/auditoria-soat/internal/domain/repository"
	"github.com/jhoicas/auditoria-soat/pkg/logger"
)

// RegisterResult lote creado y número de líneas insertadas por tipo de archivo.
type RegisterResult struct {
	Lote       *entity.Lote
	Insertados map[furips.FileKind]int64
}

// Registrar es el único que crea lotes. Garantiza un lote por (prestador, envío, día).
type Registrar struct {
	tx       TxRunner
	uploader Uploader
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewRegistrar construye el registrador. notifier puede ser nil.
func NewRegistrar(tx TxRunner, uploader Uploader, notifier Notifier, log *logger.Logger) *Registrar {
	return &Registrar{
		tx:       tx,
		uploader: uploader,
		notifier: notifier,
		log:      log.Component("registrar"),
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj usado para la fecha de carga (tests y reprocesos).
func (r *Registrar) WithClock(now func() time.Time) *Registrar {
	r.now = now
	return r
}

// Register crea el lote, almacena los archivos y persiste las líneas decodificadas.
//
// Errores:
//   - *domain.DuplicateEnvioError si el envío ya existe hoy (no escribe nada).
//   - *domain.TransientIOError si el almacenamiento falla (el lote recién creado se elimina).
//   - *domain.PartialInsertError si algún tipo de archivo no se pudo insertar; el resultado
//     se devuelve igualmente con el lote creado.
func (r *Registrar) Register(ctx context.Context, s *EnvioSummary, idEnvio string, caller entity.Identity) (*RegisterResult, error) {
	idEnvio = strings.TrimSpace(idEnvio)
	if idEnvio == "" {
		return nil, fmt.Errorf("%w: id_envio requerido", domain.ErrInvalidInput)
	}
	if s == nil || s.batch == nil {
		return nil, fmt.Errorf("%w: resumen sin conciliar", domain.ErrInvalidInput)
	}
	log := r.log.With().Str("id_envio", idEnvio).Str("codigo_habilitacion", s.CodigoHabilitacion).Logger()

	lote, err := r.createLote(ctx, s, idEnvio, caller)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("lote_id", lote.ID).Msg("lote registrado")

	up, err := r.uploader.Upload(ctx, UploadRequest{
		LoteID:             lote.ID,
		CodigoHabilitacion: lote.CodigoHabilitacion,
		IDEnvio:            idEnvio,
		Files:              s.Contenidos,
	})
	if err != nil {
		log.Error().Err(err).Int64("lote_id", lote.ID).Msg("almacenamiento falló, se elimina el lote")
		if delErr := r.tx.Run(ctx, func(lotes repository.LoteRepository, _ repository.RegistroRepository) error {
			return lotes.Delete(ctx, lote.ID)
		}); delErr != nil {
			log.Error().Err(delErr).Int64("lote_id", lote.ID).Msg("no se pudo eliminar el lote huérfano")
		}
		return nil, domain.NewTransientIOError(domain.ErrStorageUnavailable, err)
	}
	lote.RutaDrive = up.Path

	res := &RegisterResult{Lote: lote, Insertados: make(map[furips.FileKind]int64)}
	failed := make(map[string]error)
	if err := r.tx.Run(ctx, func(lotes repository.LoteRepository, _ repository.RegistroRepository) error {
		return lotes.UpdateRutaDrive(ctx, lote.ID, up.Path)
	}); err != nil {
		failed["ruta_drive"] = err
	}
	for _, kind := range furips.Kinds() {
		if !s.batch.Has(kind) {
			continue
		}
		n, err := r.insertKind(ctx, kind, lote.ID, s.batch)
		if err != nil {
			log.Error().Err(err).Str("tipo", string(kind)).Int64("lote_id", lote.ID).Msg("inserción de registros falló")
			failed[string(kind)] = err
			continue
		}
		res.Insertados[kind] = n
	}

	r.notify(ctx, up)

	if len(failed) > 0 {
		return res, &domain.PartialInsertError{LoteID: lote.ID, RutaDrive: up.Path, Fallidos: failed}
	}
	log.Info().Int64("lote_id", lote.ID).Str("ruta", up.Path).Str("checksum", up.Checksum).Msg("envío almacenado e insertado")
	return res, nil
}

// createLote verificación de duplicado e inserción en una sola transacción, serializadas
// por el advisory lock del envío. El índice único cubre cualquier carrera restante.
func (r *Registrar) createLote(ctx context.Context, s *EnvioSummary, idEnvio string, caller entity.Identity) (*entity.Lote, error) {
	now := r.now()
	desde, hasta := entity.DiaCarga(now)
	lote := &entity.Lote{
		CodigoHabilitacion: s.CodigoHabilitacion,
		NombreIPS:          s.NombreIPS,
		NombreArchivo:      idEnvio,
		CantidadFacturas:   s.CantidadFacturas,
		CantidadItems:      s.CantidadItems,
		ValorTotal:         s.ValorTotal,
		Estado:             entity.LoteEstadoEnProceso,
		FechaCarga:         now,
		CargadoPor:         caller.UserID,
	}

	var existing *entity.Lote
	err := r.tx.Run(ctx, func(lotes repository.LoteRepository, _ repository.RegistroRepository) error {
		if err := lotes.LockEnvio(ctx, s.CodigoHabilitacion, idEnvio, desde); err != nil {
			return err
		}
		found, err := lotes.FindByEnvio(ctx, s.CodigoHabilitacion, idEnvio, desde, hasta)
		if err != nil {
			return err
		}
		if found != nil {
			existing = found
			return domain.ErrDuplicateEnvio
		}
		return lotes.Create(ctx, lote)
	})
	if err == nil {
		return lote, nil
	}
	if !errors.Is(err, domain.ErrDuplicateEnvio) {
		return nil, fmt.Errorf("registrar lote: %w", err)
	}
	if existing == nil {
		// El índice único rechazó la inserción: buscar el lote que ganó la carrera.
		lookupErr := r.tx.Run(ctx, func(lotes repository.LoteRepository, _ repository.RegistroRepository) error {
			var err error
			existing, err = lotes.FindByEnvio(ctx, s.CodigoHabilitacion, idEnvio, desde, hasta)
			return err
		})
		if lookupErr != nil {
			r.log.Warn().Err(lookupErr).
				Str("codigo_habilitacion", s.CodigoHabilitacion).
				Str("id_envio", idEnvio).
				Msg("envío duplicado: no se pudo obtener el lote existente")
		}
	}
	dup := &domain.DuplicateEnvioError{CodigoHabilitacion: s.CodigoHabilitacion, IDEnvio: idEnvio}
	if existing != nil {
		dup.LoteID = existing.ID
	}
	return nil, dup
}

// insertKind cada tipo en su propia transacción: todo o nada por archivo.
func (r *Registrar) insertKind(ctx context.Context, kind furips.FileKind, loteID int64, b *Batch) (int64, error) {
	var n int64
	err := r.tx.Run(ctx, func(_ repository.LoteRepository, registros repository.RegistroRepository) error {
		var err error
		switch kind {
		case furips.KindFurips1:
			n, err = registros.InsertFurips1(ctx, toRegistrosFurips1(loteID, b.Furips1Records))
		case furips.KindFurips2:
			n, err = registros.InsertFurips2(ctx, toRegistrosFurips2(loteID, b.Furips2Records))
		case furips.KindFurtran:
			n, err = registros.InsertFurtran(ctx, toRegistrosFurtran(loteID, b.FurtranRecords))
		}
		return err
	})
	return n, err
}

func (r *Registrar) notify(ctx context.Context, up UploadResult) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Notify(ctx, Notification{Bucket: up.Bucket, FilePath: up.Path}); err != nil {
		r.log.Warn().Err(err).Str("ruta", up.Path).Msg("webhook de notificación falló")
	}
}

func toRegistrosFurips1(loteID int64, recs []furips.Furips1Record) []entity.RegistroFurips1 {
	out := make([]entity.RegistroFurips1, len(recs))
	for i, r := range recs {
		out[i] = entity.RegistroFurips1{
			LoteID:                 loteID,
			Linea:                  r.Line,
			NumeroFactura:          r.NumeroFactura,
			ConsecutivoReclamacion: r.ConsecutivoReclamacion,
			CodigoHabilitacion:     r.CodigoHabilitacion,
			TipoDocumentoVictima:   r.TipoDocumentoVictima,
			DocumentoVictima:       r.DocumentoVictima,
			CondicionVictima:       r.CondicionVictima,
			EstadoAseguramiento:    r.EstadoAseguramiento,
			PlacaVehiculo:          r.PlacaVehiculo,
			Campos:                 r.Campos,
		}
	}
	return out
}

func toRegistrosFurips2(loteID int64, recs []furips.Furips2Record) []entity.RegistroFurips2 {
	out := make([]entity.RegistroFurips2, len(recs))
	for i, r := range recs {
		out[i] = entity.RegistroFurips2{
			LoteID:         loteID,
			Linea:          r.Line,
			NumeroFactura:  r.NumeroFactura,
			Consecutivo:    r.Consecutivo,
			TipoServicio:   r.TipoServicio,
			CodigoServicio: r.CodigoServicio,
			Descripcion:    r.Descripcion,
			Cantidad:       r.Cantidad,
			ValorUnitario:  r.ValorUnitario,
			ValorFacturado: r.ValorFacturado,
			ValorReclamado: r.ValorReclamado,
		}
	}
	return out
}

func toRegistrosFurtran(loteID int64, recs []furips.FurtranRecord) []entity.RegistroFurtran {
	out := make([]entity.RegistroFurtran, len(recs))
	for i, r := range recs {
		out[i] = entity.RegistroFurtran{
			LoteID:             loteID,
			Linea:              r.Line,
			NumeroFactura:      r.NumeroFactura,
			CodigoHabilitacion: r.CodigoHabilitacion,
			PlacaAmbulancia:    r.PlacaAmbulancia,
			ValorReclamado:     r.ValorReclamado,
			Campos:             r.Campos,
		}
	}
	return out
}
