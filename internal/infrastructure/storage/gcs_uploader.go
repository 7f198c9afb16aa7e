package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"

	"github.com/jhoicas/auditoria-soat/internal/application/envio"
)

var _ envio.Uploader = (*GCSUploader)(nil)

// GCSUploader sube el ZIP del envío a un bucket de Google Cloud Storage.
// Las credenciales se resuelven por Application Default Credentials.
type GCSUploader struct {
	client *gcs.Client
	bucket string
	now    func() time.Time
}

// NewGCSUploader crea el cliente de GCS. Llamar Close al terminar.
func NewGCSUploader(ctx context.Context, bucket string) (*GCSUploader, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs: crear cliente: %w", err)
	}
	return &GCSUploader{client: client, bucket: bucket, now: time.Now}, nil
}

// Upload escribe el objeto; el envío solo queda visible si Close del writer termina sin error.
func (u *GCSUploader) Upload(ctx context.Context, req envio.UploadRequest) (envio.UploadResult, error) {
	data, err := BuildBundle(req.Files, u.now())
	if err != nil {
		return envio.UploadResult{}, err
	}
	path := ObjectPath(req)
	sum := Checksum(data)

	w := u.client.Bucket(u.bucket).Object(path).NewWriter(ctx)
	w.ContentType = "application/zip"
	w.Metadata = map[string]string{
		"codigo_habilitacion": req.CodigoHabilitacion,
		"id_envio":            req.IDEnvio,
		"lote_id":             fmt.Sprint(req.LoteID),
		"xxhash64":            sum,
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return envio.UploadResult{}, fmt.Errorf("gcs: escribir %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return envio.UploadResult{}, fmt.Errorf("gcs: cerrar %s: %w", path, err)
	}
	return envio.UploadResult{Bucket: u.bucket, Path: path, Checksum: sum}, nil
}

// Close libera el cliente.
func (u *GCSUploader) Close() error {
	return u.client.Close()
}
