package furips_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
)

// buildLine arma una línea de n campos con valores "x" salvo los índices indicados.
func buildLine(n int, set map[int]string) string {
	fields := make([]string, n)
	for i := range fields {
		fields[i] = "x"
	}
	for i, v := range set {
		fields[i] = v
	}
	return strings.Join(fields, ",")
}

func buildFile(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestValidate_TodasLasLineasValidas(t *testing.T) {
	for _, n := range []int{1, 2, 7, 50} {
		lines := make([]string, n)
		for i := range lines {
			lines[i] = buildLine(9, nil)
		}
		res := furips.Validate(buildFile(lines...), 9)

		assert.True(t, res.IsValid)
		assert.Empty(t, res.Errors)
		assert.Equal(t, n, res.ValidLines)
		assert.Equal(t, n, res.TotalLines)
	}
}

// Un FURIPS2 con una línea corta entre cuatro válidas: un solo error en la línea correcta.
func TestValidate_Furips2LineaCorta(t *testing.T) {
	content := buildFile(
		buildLine(9, nil),
		buildLine(9, nil),
		buildLine(8, nil),
		buildLine(9, nil),
		buildLine(9, nil),
	)
	res := furips.Validate(content, 9)

	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Equal(t, 9, res.Errors[0].ExpectedFields)
	assert.Equal(t, 8, res.Errors[0].ActualFields)
	assert.Equal(t, 4, res.ValidLines)
	assert.Equal(t, 5, res.TotalLines)
}

func TestValidate_ReportaTodasLasLineasInvalidas(t *testing.T) {
	content := buildFile(
		buildLine(10, nil),
		buildLine(9, nil),
		buildLine(3, nil),
		buildLine(9, nil),
		buildLine(12, nil),
	)
	res := furips.Validate(content, 9)

	require.Len(t, res.Errors, 3, "no debe detenerse en el primer error")
	lines := []int{res.Errors[0].Line, res.Errors[1].Line, res.Errors[2].Line}
	assert.Equal(t, []int{1, 3, 5}, lines)
	assert.Equal(t, 2, res.ValidLines)
}

func TestValidate_LineasEnBlancoSeOmiten(t *testing.T) {
	content := buildLine(9, nil) + "\r\n\r\n   \n" + buildLine(9, nil) + "\r\n" + buildLine(4, nil)
	res := furips.Validate(content, 9)

	assert.Equal(t, 3, res.TotalLines)
	assert.Equal(t, 2, res.ValidLines)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 5, res.Errors[0].Line, "el número de línea es el físico dentro del archivo")
}

func TestValidate_ContenidoVacio(t *testing.T) {
	res := furips.Validate("", 102)

	assert.True(t, res.IsValid)
	assert.Equal(t, 0, res.TotalLines)
	assert.NotNil(t, res.Errors)
}

func TestValidate_VistaPreviaLimitadaA100Caracteres(t *testing.T) {
	long := buildLine(5, map[int]string{0: strings.Repeat("ñ", 300)})
	res := furips.Validate(long, 9)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, 100, len([]rune(res.Errors[0].Preview)))
}

func TestSchemaFor_NumeroDeCampos(t *testing.T) {
	cases := map[furips.FileKind]int{
		furips.KindFurips1: 102,
		furips.KindFurips2: 9,
		furips.KindFurtran: 46,
	}
	for kind, want := range cases {
		s, ok := furips.SchemaFor(kind)
		require.True(t, ok)
		assert.Equal(t, want, s.FieldCount, string(kind))
	}
}

func TestParseKind(t *testing.T) {
	k, err := furips.ParseKind(" furtran ")
	require.NoError(t, err)
	assert.Equal(t, furips.KindFurtran, k)

	_, err = furips.ParseKind("FURIPS3")
	assert.Error(t, err)
}
