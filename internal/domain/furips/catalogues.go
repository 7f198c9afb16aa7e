package furips

import "strings"

// CodeTable catálogo de códigos de un campo codificado. Es inmutable: se construye una sola vez
// al iniciar el proceso y no expone el mapa interno.
type CodeTable struct {
	labels map[string]string
}

func newCodeTable(labels map[string]string) CodeTable {
	cp := make(map[string]string, len(labels))
	for k, v := range labels {
		cp[k] = v
	}
	return CodeTable{labels: cp}
}

// Lookup devuelve la etiqueta de un código conocido.
func (t CodeTable) Lookup(code string) (string, bool) {
	l, ok := t.labels[code]
	return l, ok
}

// =============================================================================
// FURIPS1 campo 28 - Estado de aseguramiento del vehículo
// =============================================================================

var EstadoAseguramiento = newCodeTable(map[string]string{
	"1": "Asegurado",
	"2": "No asegurado",
	"3": "Vehículo fantasma",
	"4": "Póliza falsa",
	"5": "Vehículo en fuga",
	"6": "Asegurado D.2497",
	"7": "No asegurado - Propietario indeterminado",
	"8": "No asegurado - Sin placa",
})

// =============================================================================
// FURIPS1 campo 19 - Condición del accidentado
// =============================================================================

var CondicionVictima = newCodeTable(map[string]string{
	"1": "Conductor",
	"2": "Peatón",
	"3": "Ocupante",
	"4": "Ciclista",
})

// =============================================================================
// FURIPS2 campo 3 - Tipo de servicio
// =============================================================================

var TipoServicio = newCodeTable(map[string]string{
	"1": "Medicamentos",
	"2": "Procedimientos",
	"3": "Transporte primario",
	"4": "Transporte secundario",
	"5": "Insumos",
	"6": "Dispositivos médicos",
	"7": "Material de osteosíntesis",
	"8": "Procedimiento no incluido en el manual tarifario",
})

// Decode traduce un código a su etiqueta. Es total: un código desconocido o vacío
// devuelve "Código {code}".
func Decode(code string, table CodeTable) string {
	if label, ok := table.Lookup(code); ok {
		return label
	}
	return "Código " + code
}

// isBlankCode los códigos vacíos no entran en las tablas de frecuencia.
func isBlankCode(code string) bool {
	return strings.TrimSpace(code) == ""
}
