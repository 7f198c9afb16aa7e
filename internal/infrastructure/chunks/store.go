// Package chunks guarda en disco los fragmentos de cargas grandes y los ensambla
// en orden cuando el cliente confirma el envío.
package chunks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/auditoria-soat/internal/application/envio"
	"github.com/jhoicas/auditoria-soat/internal/domain"
	"github.com/jhoicas/auditoria-soat/pkg/logger"
)

var _ envio.ChunkStore = (*Store)(nil)

var chunkIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

const tmpSuffix = ".part"

// Store fragmentos en <dir>/<uploadID>/<chunkID>.
type Store struct {
	dir string
	ttl time.Duration
	log *logger.Logger
}

// NewStore crea el directorio raíz si no existe. ttl 0 desactiva la purga.
func NewStore(dir string, ttl time.Duration, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("crear directorio de fragmentos: %w", err)
	}
	return &Store{dir: dir, ttl: ttl, log: log.Component("chunks")}, nil
}

// SaveChunk escribe el fragmento de forma atómica (archivo temporal + rename).
// Reenviar el mismo chunkID reemplaza el anterior.
func (s *Store) SaveChunk(ctx context.Context, uploadID, chunkID string, r io.Reader) (int64, error) {
	dir, err := s.uploadDir(uploadID)
	if err != nil {
		return 0, err
	}
	if !chunkIDPattern.MatchString(chunkID) {
		return 0, fmt.Errorf("%w: chunk_id inválido", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, domain.NewTransientIOError(domain.ErrStorageUnavailable, err)
	}

	f, err := os.CreateTemp(dir, chunkID+"-*"+tmpSuffix)
	if err != nil {
		return 0, domain.NewTransientIOError(domain.ErrStorageUnavailable, err)
	}
	tmp := f.Name()
	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return 0, domain.NewTransientIOError(domain.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, chunkID)); err != nil {
		_ = os.Remove(tmp)
		return 0, domain.NewTransientIOError(domain.ErrStorageUnavailable, err)
	}
	s.log.Debug().Str("upload_id", uploadID).Str("chunk_id", chunkID).Int64("bytes", n).Msg("fragmento recibido")
	return n, nil
}

// Check verifica que la carga tenga sus fragmentos completos sin consumirlos.
// Devuelve el tamaño total en bytes.
func (s *Store) Check(ctx context.Context, uploadID string, expectedCount int) (int64, error) {
	dir, names, err := s.chunksFor(uploadID, expectedCount)
	if err != nil {
		return 0, err
	}
	var size int64
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			return 0, domain.NewTransientIOError(domain.ErrStorageUnavailable, err)
		}
		size += info.Size()
	}
	return size, nil
}

// Assemble concatena los fragmentos en orden lexicográfico de chunkID y los escribe en w.
// expectedCount > 0 exige exactamente ese número de fragmentos. Los fragmentos se conservan
// hasta que el llamador invoque Discard.
func (s *Store) Assemble(ctx context.Context, uploadID string, expectedCount int, w io.Writer) (envio.AssembledUpload, error) {
	dir, names, err := s.chunksFor(uploadID, expectedCount)
	if err != nil {
		return envio.AssembledUpload{}, err
	}

	h := xxhash.New()
	mw := io.MultiWriter(w, h)
	var size int64
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return envio.AssembledUpload{}, err
		}
		n, err := copyFile(mw, filepath.Join(dir, name))
		if err != nil {
			return envio.AssembledUpload{}, domain.NewTransientIOError(domain.ErrStorageUnavailable, err)
		}
		size += n
	}
	return envio.AssembledUpload{
		Size:     size,
		Checksum: fmt.Sprintf("%016x", h.Sum64()),
		Chunks:   len(names),
	}, nil
}

// Discard elimina los fragmentos de una carga ya registrada. Una carga inexistente no es error.
func (s *Store) Discard(_ context.Context, uploadID string) error {
	dir, err := s.uploadDir(uploadID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("eliminar carga %s: %w", uploadID, err)
	}
	return nil
}

func (s *Store) chunksFor(uploadID string, expectedCount int) (string, []string, error) {
	dir, err := s.uploadDir(uploadID)
	if err != nil {
		return "", nil, err
	}
	names, err := listChunks(dir)
	if err != nil {
		return "", nil, err
	}
	if len(names) == 0 {
		return "", nil, fmt.Errorf("%w: carga %s sin fragmentos", domain.ErrChunksNotFound, uploadID)
	}
	if expectedCount > 0 && len(names) != expectedCount {
		return "", nil, fmt.Errorf("%w: carga %s tiene %d de %d fragmentos",
			domain.ErrChunksNotFound, uploadID, len(names), expectedCount)
	}
	return dir, names, nil
}

// PurgeExpired elimina las cargas sin actividad por más del TTL. Devuelve cuántas eliminó.
func (s *Store) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("leer directorio de fragmentos: %w", err)
	}
	purged := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return purged, err
		}
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= s.ttl {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.dir, e.Name())); err != nil {
			s.log.Warn().Err(err).Str("upload_id", e.Name()).Msg("no se pudo purgar la carga")
			continue
		}
		purged++
	}
	return purged, nil
}

// RunPurge ejecuta PurgeExpired cada interval hasta que ctx se cancele.
func (s *Store) RunPurge(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := s.PurgeExpired(ctx, now)
			if err != nil && !errors.Is(err, context.Canceled) {
				s.log.Error().Err(err).Msg("purga de fragmentos falló")
				continue
			}
			if n > 0 {
				s.log.Info().Int("cargas", n).Msg("cargas abandonadas purgadas")
			}
		}
	}
}

func (s *Store) uploadDir(uploadID string) (string, error) {
	id, err := uuid.Parse(uploadID)
	if err != nil {
		return "", fmt.Errorf("%w: upload_id debe ser un UUID", domain.ErrInvalidInput)
	}
	return filepath.Join(s.dir, id.String()), nil
}

func listChunks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, domain.NewTransientIOError(domain.ErrStorageUnavailable, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasSuffix(e.Name(), tmpSuffix) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func copyFile(w io.Writer, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(w, f)
}
