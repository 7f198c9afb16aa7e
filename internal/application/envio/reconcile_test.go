package envio_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/auditoria-soat/internal/application/envio"
	"github.com/jhoicas/auditoria-soat/internal/domain"
	"github.com/jhoicas/auditoria-soat/internal/domain/entity"
	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
	"github.com/jhoicas/auditoria-soat/pkg/logger"
)

var admin = entity.Identity{UserID: "u-admin", Role: entity.RoleAdmin}

func process(t *testing.T, files envio.Files) *envio.Batch {
	t.Helper()
	b, err := envio.NewProcessor("latin1", 0).Process(context.Background(), files)
	require.NoError(t, err)
	return b
}

func TestReconcile_Furips1YFurips2(t *testing.T) {
	names := namesFunc(func(_ context.Context, prefijo string) (string, error) {
		assert.Equal(t, "1100100001", prefijo)
		return "Clínica del Norte", nil
	})
	r := envio.NewReconciler(names, logger.Nop())

	s, err := r.Reconcile(context.Background(), process(t, envioCompleto("1100100001")), admin)
	require.NoError(t, err)

	assert.Equal(t, "1100100001", s.CodigoHabilitacion)
	assert.Equal(t, "Clínica del Norte", s.NombreIPS)
	assert.Equal(t, 2, s.CantidadFacturas)
	assert.Equal(t, 3, s.CantidadItems)
	assert.True(t, decimal.NewFromInt(3500).Equal(s.ValorTotal))
	assert.False(t, s.SoloTransporte)
	assert.Len(t, s.EstadoAseguramiento, 2)
	assert.Len(t, s.CondicionVictima, 2)
	require.Len(t, s.TipoServicio, 2)
	assert.Equal(t, "2", s.TipoServicio[0].Code, "mayor valor primero")
}

func TestReconcile_FurtranOpcionalNoCambiaTotales(t *testing.T) {
	files := envioCompleto("1100100001")
	files[furips.KindFurtran] = file(furtranLine("1100100001", "99999"))
	r := envio.NewReconciler(noNames(), logger.Nop())

	s, err := r.Reconcile(context.Background(), process(t, files), admin)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(3500).Equal(s.ValorTotal))
	require.NotNil(t, s.Transporte)
	assert.Equal(t, 1, s.Transporte.CantidadRegistros)
}

func TestReconcile_SoloFurtran(t *testing.T) {
	files := envio.Files{furips.KindFurtran: file(
		furtranLine("2200200002", "100"),
		furtranLine("2200200002", "50"),
	)}
	r := envio.NewReconciler(noNames(), logger.Nop())

	s, err := r.Reconcile(context.Background(), process(t, files), admin)
	require.NoError(t, err)

	assert.True(t, s.SoloTransporte)
	assert.Equal(t, "2200200002", s.CodigoHabilitacion)
	assert.Equal(t, 2, s.CantidadFacturas)
	assert.True(t, decimal.NewFromInt(150).Equal(s.ValorTotal))
	assert.Equal(t, entity.NombreIPSGenerico, s.NombreIPS)
}

func TestReconcile_FaltaFurips2(t *testing.T) {
	files := envioCompleto("1100100001")
	delete(files, furips.KindFurips2)
	r := envio.NewReconciler(noNames(), logger.Nop())

	_, err := r.Reconcile(context.Background(), process(t, files), admin)

	assert.ErrorIs(t, err, domain.ErrMissingFiles)
}

func TestReconcile_LoteInvalido(t *testing.T) {
	files := envioCompleto("1100100001")
	files[furips.KindFurips1] = file("a,b,c")
	r := envio.NewReconciler(noNames(), logger.Nop())

	_, err := r.Reconcile(context.Background(), process(t, files), admin)

	assert.ErrorIs(t, err, domain.ErrStructuralValidation)
}

// ─── Restricción de prestador ────────────────────────────────────────────────

func TestReconcile_PrestadorConOtroCodigo(t *testing.T) {
	caller := entity.Identity{UserID: "u1", Role: entity.RoleUser, CodigoHabilitacion: "3300300003"}
	r := envio.NewReconciler(noNames(), logger.Nop())

	_, err := r.Reconcile(context.Background(), process(t, envioCompleto("1100100001")), caller)

	require.ErrorIs(t, err, domain.ErrForbiddenMismatch)
	var mismatch *domain.ForbiddenMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "3300300003", mismatch.CodigoUsuario)
	assert.Equal(t, "1100100001", mismatch.CodigoArchivo)
}

func TestReconcile_PrestadorUsaSuNombreSiNoHayHistorial(t *testing.T) {
	caller := entity.Identity{UserID: "u1", Role: entity.RoleUser, CodigoHabilitacion: "1100100001", Nombre: "IPS Los Andes"}
	r := envio.NewReconciler(noNames(), logger.Nop())

	s, err := r.Reconcile(context.Background(), process(t, envioCompleto("1100100001")), caller)
	require.NoError(t, err)

	assert.Equal(t, "IPS Los Andes", s.NombreIPS)
}

func TestReconcile_NombreNoEncontrado(t *testing.T) {
	names := namesFunc(func(context.Context, string) (string, error) {
		return "", errors.New("conexión perdida")
	})
	r := envio.NewReconciler(names, logger.Nop())

	s, err := r.Reconcile(context.Background(), process(t, envioCompleto("1100100001")), admin)
	require.NoError(t, err, "la búsqueda de nombre no bloquea el envío")

	assert.Equal(t, entity.NombreIPSNoEncontrada, s.NombreIPS)
}

func TestReconcile_AnalistaPuedeCargarCualquierCodigo(t *testing.T) {
	caller := entity.Identity{UserID: "u2", Role: entity.RoleAnalyst}
	r := envio.NewReconciler(noNames(), logger.Nop())

	s, err := r.Reconcile(context.Background(), process(t, envioCompleto("4400400004")), caller)
	require.NoError(t, err)
	assert.Equal(t, "4400400004", s.CodigoHabilitacion)
}
