// Package furips contiene la validación estructural, los catálogos y la agregación de los
// archivos planos SOAT/ECAT (FURIPS1, FURIPS2 y FURTRAN) según la Resolución 1915 de 2008
// y sus actualizaciones.
//
// Los archivos no tienen encabezado: un registro por línea y campos separados por coma.
// Cada tipo de archivo tiene un número fijo de campos.
package furips

import (
	"fmt"
	"strings"
)

// FileKind identifica el tipo de archivo del envío.
type FileKind string

const (
	KindFurips1 FileKind = "FURIPS1" // Reclamaciones: una factura/víctima por línea
	KindFurips2 FileKind = "FURIPS2" // Detalle de servicios facturados
	KindFurtran FileKind = "FURTRAN" // Reclamaciones de transporte
)

// Kinds devuelve los tipos en el orden en que se procesan y almacenan.
func Kinds() []FileKind {
	return []FileKind{KindFurips1, KindFurips2, KindFurtran}
}

// Schema número de campos obligatorio por tipo de archivo.
type Schema struct {
	Kind       FileKind
	FieldCount int
}

var schemas = map[FileKind]Schema{
	KindFurips1: {Kind: KindFurips1, FieldCount: 102},
	KindFurips2: {Kind: KindFurips2, FieldCount: 9},
	KindFurtran: {Kind: KindFurtran, FieldCount: 46},
}

// SchemaFor devuelve el esquema del tipo indicado.
func SchemaFor(kind FileKind) (Schema, bool) {
	s, ok := schemas[kind]
	return s, ok
}

// ParseKind acepta el nombre del tipo sin distinguir mayúsculas ("furips1", "FURIPS1").
func ParseKind(s string) (FileKind, error) {
	k := FileKind(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := SchemaFor(k); !ok {
		return "", fmt.Errorf("tipo de archivo desconocido: %q", s)
	}
	return k, nil
}

// Posiciones (base cero) de los campos que usa el pipeline.
// Los registros tipados las leen una sola vez; el resto del código no indexa campos.
const (
	furips1NumeroFactura          = 2
	furips1ConsecutivoReclamacion = 3
	furips1CodigoHabilitacion     = 4
	furips1TipoDocumentoVictima   = 9
	furips1DocumentoVictima       = 10
	furips1CondicionVictima       = 18
	furips1EstadoAseguramiento    = 27
	furips1PlacaVehiculo          = 29

	furips2NumeroFactura  = 0
	furips2Consecutivo    = 1
	furips2TipoServicio   = 2
	furips2CodigoServicio = 3
	furips2Descripcion    = 4
	furips2Cantidad       = 5
	furips2ValorUnitario  = 6
	furips2ValorFacturado = 7
	furips2ValorReclamado = 8

	furtranNumeroFactura      = 2
	furtranCodigoHabilitacion = 4
	furtranPlacaAmbulancia    = 20
	furtranValorReclamado     = 44
)

// CodigoHabilitacionLen longitud del código de habilitación REPS del prestador.
const CodigoHabilitacionLen = 10
