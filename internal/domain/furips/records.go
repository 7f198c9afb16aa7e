package furips

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Furips1Record una reclamación (factura/víctima) del FURIPS1.
type Furips1Record struct {
	Line                   int
	NumeroFactura          string
	ConsecutivoReclamacion string
	CodigoHabilitacion     string
	TipoDocumentoVictima   string
	DocumentoVictima       string
	CondicionVictima       string
	EstadoAseguramiento    string
	PlacaVehiculo          string
	Campos                 []string
}

// Furips2Record un servicio facturado del FURIPS2.
type Furips2Record struct {
	Line           int
	NumeroFactura  string
	Consecutivo    string
	TipoServicio   string
	CodigoServicio string
	Descripcion    string
	Cantidad       decimal.Decimal
	ValorUnitario  decimal.Decimal
	ValorFacturado decimal.Decimal
	ValorReclamado decimal.Decimal
}

// FurtranRecord una reclamación de transporte del FURTRAN.
type FurtranRecord struct {
	Line               int
	NumeroFactura      string
	CodigoHabilitacion string
	PlacaAmbulancia    string
	ValorReclamado     decimal.Decimal
	Campos             []string
}

// mustFieldCount los registros tipados solo se construyen a partir de líneas ya validadas.
func mustFieldCount(kind FileKind, fields []string) {
	s, _ := SchemaFor(kind)
	if len(fields) != s.FieldCount {
		panic(fmt.Sprintf("furips: registro %s con %d campos, se esperaban %d", kind, len(fields), s.FieldCount))
	}
}

func fieldCount(kind FileKind) int {
	s, _ := SchemaFor(kind)
	return s.FieldCount
}

func field(fields []string, i int) string {
	return strings.TrimSpace(fields[i])
}

func newFurips1Record(line int, fields []string) Furips1Record {
	mustFieldCount(KindFurips1, fields)
	return Furips1Record{
		Line:                   line,
		NumeroFactura:          field(fields, furips1NumeroFactura),
		ConsecutivoReclamacion: field(fields, furips1ConsecutivoReclamacion),
		CodigoHabilitacion:     field(fields, furips1CodigoHabilitacion),
		TipoDocumentoVictima:   field(fields, furips1TipoDocumentoVictima),
		DocumentoVictima:       field(fields, furips1DocumentoVictima),
		CondicionVictima:       field(fields, furips1CondicionVictima),
		EstadoAseguramiento:    field(fields, furips1EstadoAseguramiento),
		PlacaVehiculo:          field(fields, furips1PlacaVehiculo),
		Campos:                 fields,
	}
}

func newFurips2Record(line int, fields []string) Furips2Record {
	mustFieldCount(KindFurips2, fields)
	return Furips2Record{
		Line:           line,
		NumeroFactura:  field(fields, furips2NumeroFactura),
		Consecutivo:    field(fields, furips2Consecutivo),
		TipoServicio:   field(fields, furips2TipoServicio),
		CodigoServicio: field(fields, furips2CodigoServicio),
		Descripcion:    field(fields, furips2Descripcion),
		Cantidad:       ParseAmount(fields[furips2Cantidad]),
		ValorUnitario:  ParseAmount(fields[furips2ValorUnitario]),
		ValorFacturado: ParseAmount(fields[furips2ValorFacturado]),
		ValorReclamado: ParseAmount(fields[furips2ValorReclamado]),
	}
}

func newFurtranRecord(line int, fields []string) FurtranRecord {
	mustFieldCount(KindFurtran, fields)
	return FurtranRecord{
		Line:               line,
		NumeroFactura:      field(fields, furtranNumeroFactura),
		CodigoHabilitacion: field(fields, furtranCodigoHabilitacion),
		PlacaAmbulancia:    field(fields, furtranPlacaAmbulancia),
		ValorReclamado:     ParseAmount(fields[furtranValorReclamado]),
		Campos:             fields,
	}
}

// ParseAmount interpreta un valor monetario. Un valor vacío o no numérico cuenta como cero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ReadFurips1 valida el contenido y construye los registros de las líneas válidas en una pasada.
func ReadFurips1(content string) ([]Furips1Record, FileValidationResult) {
	var records []Furips1Record
	res := scan(content, fieldCount(KindFurips1), func(line int, fields []string) {
		records = append(records, newFurips1Record(line, fields))
	})
	return records, res
}

// ReadFurips2 igual que ReadFurips1 para el detalle de servicios.
func ReadFurips2(content string) ([]Furips2Record, FileValidationResult) {
	var records []Furips2Record
	res := scan(content, fieldCount(KindFurips2), func(line int, fields []string) {
		records = append(records, newFurips2Record(line, fields))
	})
	return records, res
}

// ReadFurtran igual que ReadFurips1 para transporte.
func ReadFurtran(content string) ([]FurtranRecord, FileValidationResult) {
	var records []FurtranRecord
	res := scan(content, fieldCount(KindFurtran), func(line int, fields []string) {
		records = append(records, newFurtranRecord(line, fields))
	})
	return records, res
}
