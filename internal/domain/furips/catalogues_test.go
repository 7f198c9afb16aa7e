package furips_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
)

func TestDecode_CodigosConocidos(t *testing.T) {
	assert.Equal(t, "Asegurado", furips.Decode("1", furips.EstadoAseguramiento))
	assert.Equal(t, "Ciclista", furips.Decode("4", furips.CondicionVictima))
	assert.Equal(t, "Medicamentos", furips.Decode("1", furips.TipoServicio))
}

// Decode es total: cualquier entrada devuelve una etiqueta no vacía.
func TestDecode_Total(t *testing.T) {
	for _, code := range []string{"", " ", "99", "A", "ñ", "1 "} {
		label := furips.Decode(code, furips.TipoServicio)
		assert.NotEmpty(t, label)
		assert.Equal(t, "Código "+code, label)
	}
}

func TestCatalogos_NumeroDeEntradas(t *testing.T) {
	cases := []struct {
		table furips.CodeTable
		n     int
	}{
		{furips.EstadoAseguramiento, 8},
		{furips.CondicionVictima, 4},
		{furips.TipoServicio, 8},
	}
	for _, c := range cases {
		for i := 1; i <= c.n; i++ {
			_, ok := c.table.Lookup(strconv.Itoa(i))
			assert.True(t, ok, "código %d", i)
		}
		_, ok := c.table.Lookup(strconv.Itoa(c.n + 1))
		assert.False(t, ok)
	}
}

func TestDecodeContent_Latin1(t *testing.T) {
	raw := []byte("Pe\xf3n,Veh\xedculo")
	out, err := furips.DecodeContent(raw, "latin1")
	require.NoError(t, err)
	assert.Equal(t, "Peón,Vehículo", out)
}

func TestDecodeContent_UTF8ConBOM(t *testing.T) {
	out, err := furips.DecodeContent([]byte("\xEF\xBB\xBFPeatón"), "latin1")
	require.NoError(t, err)
	assert.Equal(t, "Peatón", out)
}

func TestDecodeContent_UTF8Estricto(t *testing.T) {
	_, err := furips.DecodeContent([]byte("Pe\xf3n"), "utf8")
	assert.Error(t, err)
}
