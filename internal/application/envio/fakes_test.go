package envio_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/auditoria-soat/internal/application/envio"
	"github.com/jhoicas/auditoria-soat/internal/domain/entity"
	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
	"github.com/jhoicas/auditoria-soat/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Archivos de prueba
// ──────────────────────────────────────────────────────────────────────────────

func line(n int, set map[int]string) string {
	fields := make([]string, n)
	for i := range fields {
		fields[i] = "x"
	}
	for i, v := range set {
		fields[i] = v
	}
	return strings.Join(fields, ",")
}

func file(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

func furips1Line(codigo, condicion, estado string) string {
	return line(102, map[int]string{4: codigo, 18: condicion, 27: estado})
}

func furips2Line(tipo, valor string) string {
	return line(9, map[int]string{2: tipo, 8: valor})
}

func furtranLine(codigo, valor string) string {
	return line(46, map[int]string{4: codigo, 44: valor})
}

// envioCompleto FURIPS1 con 2 facturas y FURIPS2 con 3 ítems por 3500.
func envioCompleto(codigo string) envio.Files {
	return envio.Files{
		furips.KindFurips1: file(
			furips1Line(codigo, "1", "1"),
			furips1Line(codigo, "2", "3"),
		),
		furips.KindFurips2: file(
			furips2Line("1", "1000"),
			furips2Line("2", "2000"),
			furips2Line("1", "500"),
		),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memLotes struct {
	lotes map[int64]*entity.Lote
	next  int64
}

func (m *memLotes) LockEnvio(context.Context, string, string, time.Time) error { return nil }

func (m *memLotes) FindByEnvio(_ context.Context, codigo, nombre string, desde, hasta time.Time) (*entity.Lote, error) {
	for _, l := range m.lotes {
		if l.CodigoHabilitacion == codigo && l.NombreArchivo == nombre &&
			!l.FechaCarga.Before(desde) && l.FechaCarga.Before(hasta) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memLotes) Create(_ context.Context, l *entity.Lote) error {
	m.next++
	l.ID = m.next
	cp := *l
	m.lotes[l.ID] = &cp
	return nil
}

func (m *memLotes) UpdateRutaDrive(_ context.Context, id int64, ruta string) error {
	if l, ok := m.lotes[id]; ok {
		l.RutaDrive = ruta
	}
	return nil
}

func (m *memLotes) Delete(_ context.Context, id int64) error {
	delete(m.lotes, id)
	return nil
}

func (m *memLotes) GetByID(_ context.Context, id int64) (*entity.Lote, error) {
	l, ok := m.lotes[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m *memLotes) List(context.Context, repository.LoteFilter) ([]*entity.Lote, error) {
	out := make([]*entity.Lote, 0, len(m.lotes))
	for _, l := range m.lotes {
		out = append(out, l)
	}
	return out, nil
}

func (m *memLotes) Count(ctx context.Context, f repository.LoteFilter) (int, error) {
	l, err := m.List(ctx, f)
	return len(l), err
}

func (m *memLotes) FindNombreIPS(context.Context, string) (string, error) { return "", nil }

type memRegistros struct {
	fail    map[furips.FileKind]error
	furips1 []entity.RegistroFurips1
	furips2 []entity.RegistroFurips2
	furtran []entity.RegistroFurtran
}

func (m *memRegistros) InsertFurips1(_ context.Context, r []entity.RegistroFurips1) (int64, error) {
	if err := m.fail[furips.KindFurips1]; err != nil {
		return 0, err
	}
	m.furips1 = append(m.furips1, r...)
	return int64(len(r)), nil
}

func (m *memRegistros) InsertFurips2(_ context.Context, r []entity.RegistroFurips2) (int64, error) {
	if err := m.fail[furips.KindFurips2]; err != nil {
		return 0, err
	}
	m.furips2 = append(m.furips2, r...)
	return int64(len(r)), nil
}

func (m *memRegistros) InsertFurtran(_ context.Context, r []entity.RegistroFurtran) (int64, error) {
	if err := m.fail[furips.KindFurtran]; err != nil {
		return 0, err
	}
	m.furtran = append(m.furtran, r...)
	return int64(len(r)), nil
}

func (m *memRegistros) CountByLote(context.Context, int64) (int64, int64, int64, error) {
	return int64(len(m.furips1)), int64(len(m.furips2)), int64(len(m.furtran)), nil
}

// memTx serializa las transacciones con un mutex, igual que el advisory lock en PostgreSQL.
type memTx struct {
	mu        sync.Mutex
	lotes     *memLotes
	registros *memRegistros
}

func newMemTx() *memTx {
	return &memTx{
		lotes:     &memLotes{lotes: make(map[int64]*entity.Lote)},
		registros: &memRegistros{fail: make(map[furips.FileKind]error)},
	}
}

func (t *memTx) Run(_ context.Context, fn func(repository.LoteRepository, repository.RegistroRepository) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.lotes, t.registros)
}

func (t *memTx) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lotes.lotes)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mocks de almacenamiento y webhook
// ──────────────────────────────────────────────────────────────────────────────

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, req envio.UploadRequest) (envio.UploadResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(envio.UploadResult), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, n envio.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type namesFunc func(ctx context.Context, prefijo string) (string, error)

func (f namesFunc) FindNombreIPS(ctx context.Context, prefijo string) (string, error) {
	return f(ctx, prefijo)
}

func noNames() envio.ProviderNames {
	return namesFunc(func(context.Context, string) (string, error) { return "", nil })
}
