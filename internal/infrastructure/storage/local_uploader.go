package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/auditoria-soat/internal/application/envio"
)

var _ envio.Uploader = (*LocalUploader)(nil)

// LocalUploader guarda el ZIP en un directorio local (desarrollo o despliegues sin bucket).
type LocalUploader struct {
	dir string
	now func() time.Time
}

// NewLocalUploader crea el directorio raíz si no existe.
func NewLocalUploader(dir string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("crear directorio de envíos: %w", err)
	}
	return &LocalUploader{dir: dir, now: time.Now}, nil
}

// Upload escribe a un temporal y renombra, para no dejar ZIPs truncados.
func (u *LocalUploader) Upload(ctx context.Context, req envio.UploadRequest) (envio.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return envio.UploadResult{}, err
	}
	data, err := BuildBundle(req.Files, u.now())
	if err != nil {
		return envio.UploadResult{}, err
	}
	path := ObjectPath(req)
	full := filepath.Join(u.dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return envio.UploadResult{}, fmt.Errorf("crear directorio %s: %w", filepath.Dir(full), err)
	}
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return envio.UploadResult{}, fmt.Errorf("escribir %s: %w", path, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return envio.UploadResult{}, fmt.Errorf("mover %s: %w", path, err)
	}
	return envio.UploadResult{Bucket: u.dir, Path: path, Checksum: Checksum(data)}, nil
}
