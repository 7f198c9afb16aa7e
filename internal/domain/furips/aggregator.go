package furips

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CodeFrequencyEntry una fila de una tabla de frecuencias por campo codificado.
type CodeFrequencyEntry struct {
	Code          string          `json:"codigo"`
	Label         string          `json:"descripcion"`
	Count         int             `json:"cantidad"`
	MonetaryTotal decimal.Decimal `json:"valor"`
	Percentage    float64         `json:"porcentaje"`
}

// Furips1Aggregation totales del FURIPS1.
type Furips1Aggregation struct {
	CodigoHabilitacion  string               `json:"codigo_habilitacion"`
	CantidadFacturas    int                  `json:"cantidad_facturas"`
	EstadoAseguramiento []CodeFrequencyEntry `json:"estado_aseguramiento"`
	CondicionVictima    []CodeFrequencyEntry `json:"condicion_victima"`
}

// Furips2Aggregation totales del FURIPS2.
type Furips2Aggregation struct {
	CantidadItems int                  `json:"cantidad_items"`
	ValorTotal    decimal.Decimal      `json:"valor_total"`
	TipoServicio  []CodeFrequencyEntry `json:"tipo_servicio"`
}

// FurtranAggregation totales del FURTRAN.
type FurtranAggregation struct {
	CodigoHabilitacion string          `json:"codigo_habilitacion"`
	CantidadRegistros  int             `json:"cantidad_registros"`
	ValorTotal         decimal.Decimal `json:"valor_total"`
}

// AggregateFurips1 cuenta facturas y construye las tablas de estado de aseguramiento y
// condición del accidentado. El código de habilitación sale únicamente de la primera línea.
func AggregateFurips1(records []Furips1Record) Furips1Aggregation {
	agg := Furips1Aggregation{CantidadFacturas: len(records)}
	if len(records) > 0 {
		agg.CodigoHabilitacion = TruncateCodigoHabilitacion(records[0].CodigoHabilitacion)
	}
	estado := newFrequencyCounter(EstadoAseguramiento)
	condicion := newFrequencyCounter(CondicionVictima)
	for _, r := range records {
		estado.add(r.EstadoAseguramiento, decimal.Zero)
		condicion.add(r.CondicionVictima, decimal.Zero)
	}
	agg.EstadoAseguramiento = estado.byCount()
	agg.CondicionVictima = condicion.byCount()
	return agg
}

// AggregateFurips2 suma el valor reclamado y construye la tabla por tipo de servicio
// ponderada por valor.
func AggregateFurips2(records []Furips2Record) Furips2Aggregation {
	agg := Furips2Aggregation{CantidadItems: len(records), ValorTotal: decimal.Zero}
	servicio := newFrequencyCounter(TipoServicio)
	for _, r := range records {
		agg.ValorTotal = agg.ValorTotal.Add(r.ValorReclamado)
		servicio.add(r.TipoServicio, r.ValorReclamado)
	}
	agg.TipoServicio = servicio.byValue()
	return agg
}

// AggregateFurtran suma el valor reclamado de transporte.
func AggregateFurtran(records []FurtranRecord) FurtranAggregation {
	agg := FurtranAggregation{CantidadRegistros: len(records), ValorTotal: decimal.Zero}
	if len(records) > 0 {
		agg.CodigoHabilitacion = TruncateCodigoHabilitacion(records[0].CodigoHabilitacion)
	}
	for _, r := range records {
		agg.ValorTotal = agg.ValorTotal.Add(r.ValorReclamado)
	}
	return agg
}

// TruncateCodigoHabilitacion deja los primeros 10 caracteres del código.
func TruncateCodigoHabilitacion(code string) string {
	code = strings.TrimSpace(code)
	r := []rune(code)
	if len(r) <= CodigoHabilitacionLen {
		return code
	}
	return string(r[:CodigoHabilitacionLen])
}

// frequencyCounter acumula conteos y valores por código. Los porcentajes se calculan solo
// al final, sobre el total de la tabla.
type frequencyCounter struct {
	table  CodeTable
	counts map[string]int
	values map[string]decimal.Decimal
}

func newFrequencyCounter(table CodeTable) *frequencyCounter {
	return &frequencyCounter{
		table:  table,
		counts: make(map[string]int),
		values: make(map[string]decimal.Decimal),
	}
}

func (f *frequencyCounter) add(code string, value decimal.Decimal) {
	if isBlankCode(code) {
		return
	}
	code = strings.TrimSpace(code)
	f.counts[code]++
	f.values[code] = f.values[code].Add(value)
}

func (f *frequencyCounter) entries() []CodeFrequencyEntry {
	out := make([]CodeFrequencyEntry, 0, len(f.counts))
	for code, n := range f.counts {
		out = append(out, CodeFrequencyEntry{
			Code:          code,
			Label:         Decode(code, f.table),
			Count:         n,
			MonetaryTotal: f.values[code],
		})
	}
	return out
}

// byCount porcentajes sobre el número de registros con código; orden: conteo desc, código asc.
func (f *frequencyCounter) byCount() []CodeFrequencyEntry {
	out := f.entries()
	total := 0
	for _, e := range out {
		total += e.Count
	}
	for i := range out {
		out[i].Percentage = percentage(decimal.NewFromInt(int64(out[i].Count)), decimal.NewFromInt(int64(total)))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// byValue porcentajes sobre el valor total de la tabla; orden: valor desc, código asc.
func (f *frequencyCounter) byValue() []CodeFrequencyEntry {
	out := f.entries()
	total := decimal.Zero
	for _, e := range out {
		total = total.Add(e.MonetaryTotal)
	}
	for i := range out {
		out[i].Percentage = percentage(out[i].MonetaryTotal, total)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].MonetaryTotal.Cmp(out[j].MonetaryTotal); c != 0 {
			return c > 0
		}
		return out[i].Code < out[j].Code
	})
	return out
}

func percentage(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Mul(hundred).Div(total).Round(2).InexactFloat64()
}
