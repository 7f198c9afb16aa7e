// Package storage almacena los archivos de un envío registrado como un único ZIP,
// en Google Cloud Storage o en disco local.
package storage

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/jhoicas/auditoria-soat/internal/application/envio"
	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// BuildBundle empaqueta los archivos del envío en un ZIP en memoria.
// Cada entrada se llama {TIPO}.txt y se escribe en el orden FURIPS1, FURIPS2, FURTRAN.
func BuildBundle(files envio.Files, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, kind := range furips.Kinds() {
		content, ok := files[kind]
		if !ok {
			continue
		}
		name := string(kind) + ".txt"
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return nil, fmt.Errorf("zip: crear entrada %s: %w", name, err)
		}
		if _, err := fw.Write(content); err != nil {
			return nil, fmt.Errorf("zip: escribir %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}

// ObjectPath ruta del ZIP dentro del bucket o directorio:
//
//	{codigo_habilitacion}/{lote_id}_{id_envio}.zip
//
// Los caracteres fuera de [A-Za-z0-9._-] del id de envío se reemplazan por "_".
func ObjectPath(req envio.UploadRequest) string {
	id := unsafeName.ReplaceAllString(strings.TrimSpace(req.IDEnvio), "_")
	codigo := unsafeName.ReplaceAllString(req.CodigoHabilitacion, "_")
	return fmt.Sprintf("%s/%d_%s.zip", codigo, req.LoteID, id)
}

// Checksum xxhash64 del contenido en hexadecimal (16 dígitos).
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
