package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrForbidden            = errors.New("acceso denegado")
	ErrStructuralValidation = errors.New("la estructura de los archivos no es válida")
	ErrMissingFiles         = errors.New("faltan archivos obligatorios del envío")
	ErrTooManyLines         = errors.New("el archivo supera el número máximo de líneas")
	ErrForbiddenMismatch    = errors.New("el código de habilitación del archivo no corresponde al usuario")
	ErrDuplicateEnvio       = errors.New("el envío ya fue cargado hoy")
	ErrPartialInsert        = errors.New("archivos almacenados pero la inserción de datos fue parcial")
	ErrTransientIO          = errors.New("falla transitoria de almacenamiento, reintente")
	ErrChunksNotFound       = errors.New("no se encontraron los fragmentos de la carga")
	ErrStorageUnavailable   = errors.New("almacenamiento no disponible")
)

// ForbiddenMismatchError rechazo de seguridad: el prestador intenta cargar archivos de otro código.
// Solo expone el código propio y el del archivo.
type ForbiddenMismatchError struct {
	CodigoUsuario string
	CodigoArchivo string
}

func (e *ForbiddenMismatchError) Error() string {
	return fmt.Sprintf("%s: archivo %q, usuario %q", ErrForbiddenMismatch.Error(), e.CodigoArchivo, e.CodigoUsuario)
}

func (e *ForbiddenMismatchError) Unwrap() error { return ErrForbiddenMismatch }

// DuplicateEnvioError el envío ya existe para el prestador en el día; LoteID es el lote existente.
type DuplicateEnvioError struct {
	LoteID             int64
	CodigoHabilitacion string
	IDEnvio            string
}

func (e *DuplicateEnvioError) Error() string {
	return fmt.Sprintf("%s: envío %q del prestador %s (lote %d)", ErrDuplicateEnvio.Error(), e.IDEnvio, e.CodigoHabilitacion, e.LoteID)
}

func (e *DuplicateEnvioError) Unwrap() error { return ErrDuplicateEnvio }

// PartialInsertError los archivos quedaron almacenados y el lote creado, pero la inserción
// de uno o más tipos de archivo falló. Los artefactos almacenados no se revierten.
type PartialInsertError struct {
	LoteID    int64
	RutaDrive string
	Fallidos  map[string]error // tipo de archivo -> causa
}

func (e *PartialInsertError) Error() string {
	kinds := make([]string, 0, len(e.Fallidos))
	for k, err := range e.Fallidos {
		kinds = append(kinds, k+": "+err.Error())
	}
	return fmt.Sprintf("%s (lote %d): %s", ErrPartialInsert.Error(), e.LoteID, strings.Join(kinds, "; "))
}

func (e *PartialInsertError) Unwrap() error { return ErrPartialInsert }

// TransientIOError falla de E/S que el llamador puede reintentar. Cause distingue el tipo
// (ErrChunksNotFound, ErrStorageUnavailable).
type TransientIOError struct {
	Cause error
	Err   error
}

func (e *TransientIOError) Error() string {
	if e.Err == nil {
		return e.Cause.Error()
	}
	return e.Cause.Error() + ": " + e.Err.Error()
}

func (e *TransientIOError) Unwrap() []error {
	errs := []error{ErrTransientIO, e.Cause}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewTransientIOError envuelve err bajo la causa transitoria indicada.
func NewTransientIOError(cause, err error) error {
	return &TransientIOError{Cause: cause, Err: err}
}
