// Package envio orquesta la carga de un envío SOAT/ECAT: validación y agregación por archivo,
// conciliación entre archivos y registro idempotente del lote.
package envio

import (
	"context"
	"io"

	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
	"github.com/jhoicas/auditoria-soat/internal/domain/repository"
)

// Files contenido crudo de cada archivo del envío.
type Files map[furips.FileKind][]byte

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotes repository.LoteRepository,
		registros repository.RegistroRepository,
	) error) error
}

// UploadRequest archivos confirmados de un lote recién registrado.
type UploadRequest struct {
	LoteID             int64
	CodigoHabilitacion string
	IDEnvio            string
	Files              Files
}

// UploadResult ubicación del envío en el almacenamiento. La ruta se guarda tal cual en el lote.
type UploadResult struct {
	Bucket   string
	Path     string
	Checksum string // xxhash64 del ZIP almacenado
}

// Uploader almacena los archivos confirmados (almacenamiento de objetos).
type Uploader interface {
	Upload(ctx context.Context, req UploadRequest) (UploadResult, error)
}

// Notification cuerpo del webhook posterior al registro.
type Notification struct {
	Bucket   string `json:"bucket"`
	FilePath string `json:"file_path"`
}

// Notifier avisa a sistemas externos que un envío quedó almacenado.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// ProviderNames resuelve el nombre de un prestador a partir de lotes anteriores.
type ProviderNames interface {
	FindNombreIPS(ctx context.Context, prefijoCodigo string) (string, error)
}

// ChunkAssembler reconstruye una carga que llegó dividida en fragmentos.
type ChunkAssembler interface {
	Assemble(ctx context.Context, uploadID string, expectedCount int, w io.Writer) (AssembledUpload, error)
}

// ChunkStore recibe fragmentos de una carga y los ensambla cuando llegan todos.
// Assemble no consume los fragmentos: se eliminan con Discard cuando el envío quedó registrado.
type ChunkStore interface {
	ChunkAssembler
	SaveChunk(ctx context.Context, uploadID, chunkID string, r io.Reader) (int64, error)
	// Check confirma que la carga está completa y devuelve su tamaño, sin leerla.
	Check(ctx context.Context, uploadID string, expectedCount int) (int64, error)
	Discard(ctx context.Context, uploadID string) error
}

// AssembledUpload metadatos del archivo reconstruido.
type AssembledUpload struct {
	Size     int64
	Checksum string
	Chunks   int
}
