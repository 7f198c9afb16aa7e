package storage_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/auditoria-soat/internal/application/envio"
	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
	"github.com/jhoicas/auditoria-soat/internal/infrastructure/storage"
)

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(b)
	}
	return out
}

func TestBuildBundle_UnaEntradaPorArchivo(t *testing.T) {
	files := envio.Files{
		furips.KindFurips1: []byte("f1\n"),
		furips.KindFurtran: []byte("ft\n"),
	}

	data, err := storage.BuildBundle(files, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	entries := readZip(t, data)
	assert.Equal(t, map[string]string{"FURIPS1.txt": "f1\n", "FURTRAN.txt": "ft\n"}, entries)
}

func TestObjectPath_LimpiaElIDDeEnvio(t *testing.T) {
	path := storage.ObjectPath(envio.UploadRequest{
		LoteID:             42,
		CodigoHabilitacion: "1100100001",
		IDEnvio:            " envío/03 ../x ",
	})
	assert.Equal(t, "1100100001/42_env_o_03_.._x.zip", path)
}

func TestLocalUploader_EscribeElZip(t *testing.T) {
	dir := t.TempDir()
	up, err := storage.NewLocalUploader(dir)
	require.NoError(t, err)

	res, err := up.Upload(context.Background(), envio.UploadRequest{
		LoteID:             7,
		CodigoHabilitacion: "1100100001",
		IDEnvio:            "ENV-1",
		Files:              envio.Files{furips.KindFurips2: []byte("a,b\n")},
	})
	require.NoError(t, err)

	assert.Equal(t, "1100100001/7_ENV-1.zip", res.Path)
	data, err := os.ReadFile(filepath.Join(dir, "1100100001", "7_ENV-1.zip"))
	require.NoError(t, err)
	assert.Equal(t, storage.Checksum(data), res.Checksum)
	assert.Len(t, res.Checksum, 16)
	assert.Equal(t, "a,b\n", readZip(t, data)["FURIPS2.txt"])

	_, err = os.Stat(filepath.Join(dir, "1100100001", "7_ENV-1.zip.tmp"))
	assert.True(t, os.IsNotExist(err))
}
