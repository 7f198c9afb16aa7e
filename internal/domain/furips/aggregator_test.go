package furips_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
)

func furips1Line(codigo, condicion, estado string) string {
	return buildLine(102, map[int]string{4: codigo, 18: condicion, 27: estado})
}

func furips2Line(tipo, valor string) string {
	return buildLine(9, map[int]string{2: tipo, 8: valor})
}

func furtranLine(codigo, valor string) string {
	return buildLine(46, map[int]string{4: codigo, 44: valor})
}

// ──────────────────────────────────────────────────────────────────────────────
// FURIPS1
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregateFurips1_CodigoDeLaPrimeraLinea(t *testing.T) {
	records, res := furips.ReadFurips1(buildFile(
		furips1Line("1234567890EXTRA", "1", "1"),
		furips1Line("9999999999", "2", "1"),
		furips1Line("8888888888", "3", "3"),
	))
	require.True(t, res.IsValid)

	agg := furips.AggregateFurips1(records)

	assert.Equal(t, "1234567890", agg.CodigoHabilitacion, "la primera línea manda aunque las demás difieran")
	assert.Equal(t, 3, agg.CantidadFacturas)
}

func TestAggregateFurips1_TablaEstadoAseguramiento(t *testing.T) {
	records, _ := furips.ReadFurips1(buildFile(
		furips1Line("1234567890", "1", "1"),
		furips1Line("1234567890", "1", "1"),
		furips1Line("1234567890", "1", "3"),
	))
	agg := furips.AggregateFurips1(records)

	require.Len(t, agg.EstadoAseguramiento, 2)
	first, second := agg.EstadoAseguramiento[0], agg.EstadoAseguramiento[1]
	assert.Equal(t, "1", first.Code)
	assert.Equal(t, "Asegurado", first.Label)
	assert.Equal(t, 2, first.Count)
	assert.Equal(t, 66.67, first.Percentage)
	assert.Equal(t, "3", second.Code)
	assert.Equal(t, "Vehículo fantasma", second.Label)
	assert.Equal(t, 1, second.Count)
	assert.Equal(t, 33.33, second.Percentage)
}

func TestAggregateFurips1_CodigosVaciosNoCuentan(t *testing.T) {
	records, _ := furips.ReadFurips1(buildFile(
		furips1Line("1234567890", "", "1"),
		furips1Line("1234567890", " ", "9"),
		furips1Line("1234567890", "2", ""),
	))
	agg := furips.AggregateFurips1(records)

	require.Len(t, agg.CondicionVictima, 1)
	assert.Equal(t, "Peatón", agg.CondicionVictima[0].Label)
	assert.Equal(t, 100.0, agg.CondicionVictima[0].Percentage)

	require.Len(t, agg.EstadoAseguramiento, 2, "el código desconocido se conserva, el vacío no")
	assert.Equal(t, "1", agg.EstadoAseguramiento[0].Code, "empate por conteo se ordena por código")
	assert.Equal(t, "Código 9", agg.EstadoAseguramiento[1].Label)
}

func TestAggregateFurips1_PorcentajesSuman100(t *testing.T) {
	lines := []string{}
	for _, c := range []string{"1", "2", "3", "4", "1", "2", "1", "5", "6", "7", "8"} {
		lines = append(lines, furips1Line("1234567890", "1", c))
	}
	records, _ := furips.ReadFurips1(buildFile(lines...))
	agg := furips.AggregateFurips1(records)

	sum := 0.0
	for _, e := range agg.EstadoAseguramiento {
		sum += e.Percentage
	}
	assert.InDelta(t, 100.0, sum, 0.05)
}

// ──────────────────────────────────────────────────────────────────────────────
// FURIPS2
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregateFurips2_TotalesYOrdenPorValor(t *testing.T) {
	records, res := furips.ReadFurips2(buildFile(
		furips2Line("1", "1000"),
		furips2Line("2", "5000.50"),
		furips2Line("1", "abc"),
		furips2Line("3", ""),
		furips2Line("1", "2000"),
	))
	require.True(t, res.IsValid)

	agg := furips.AggregateFurips2(records)

	assert.Equal(t, 5, agg.CantidadItems)
	assert.True(t, decimal.RequireFromString("8000.50").Equal(agg.ValorTotal), agg.ValorTotal.String())

	require.Len(t, agg.TipoServicio, 3)
	assert.Equal(t, "2", agg.TipoServicio[0].Code)
	assert.Equal(t, "Procedimientos", agg.TipoServicio[0].Label)
	assert.Equal(t, "1", agg.TipoServicio[1].Code)
	assert.Equal(t, 3, agg.TipoServicio[1].Count)
	assert.True(t, decimal.NewFromInt(3000).Equal(agg.TipoServicio[1].MonetaryTotal))
	assert.Equal(t, "3", agg.TipoServicio[2].Code)
	assert.Equal(t, 0.0, agg.TipoServicio[2].Percentage)
	assert.Equal(t, 62.5, agg.TipoServicio[0].Percentage)
}

func TestAggregateFurips2_EmpateDeValorOrdenaPorCodigo(t *testing.T) {
	records, _ := furips.ReadFurips2(buildFile(
		furips2Line("5", "100"),
		furips2Line("4", "100"),
	))
	agg := furips.AggregateFurips2(records)

	require.Len(t, agg.TipoServicio, 2)
	assert.Equal(t, "4", agg.TipoServicio[0].Code)
	assert.Equal(t, "5", agg.TipoServicio[1].Code)
	assert.Equal(t, 50.0, agg.TipoServicio[0].Percentage)
}

// ──────────────────────────────────────────────────────────────────────────────
// FURTRAN
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregateFurtran_SumaValor(t *testing.T) {
	records, res := furips.ReadFurtran(buildFile(
		furtranLine("5555555555001", "150000"),
		furtranLine("5555555555001", "49999.99"),
	))
	require.True(t, res.IsValid)

	agg := furips.AggregateFurtran(records)

	assert.Equal(t, 2, agg.CantidadRegistros)
	assert.Equal(t, "5555555555", agg.CodigoHabilitacion)
	assert.True(t, decimal.RequireFromString("199999.99").Equal(agg.ValorTotal))
}

func TestReadFurips1_LineasInvalidasNoGeneranRegistros(t *testing.T) {
	records, res := furips.ReadFurips1(buildFile(
		furips1Line("1234567890", "1", "1"),
		buildLine(101, nil),
	))

	assert.False(t, res.IsValid)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Line)
}

func TestParseAmount(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(furips.ParseAmount("")))
	assert.True(t, decimal.Zero.Equal(furips.ParseAmount("N/A")))
	assert.True(t, decimal.RequireFromString("12.5").Equal(furips.ParseAmount(" 12.5 ")))
}
