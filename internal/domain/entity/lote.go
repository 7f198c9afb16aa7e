package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del lote. EN_PROCESO al registrarse; FINALIZADO lo marca un operador.
const (
	LoteEstadoEnProceso  = "EN_PROCESO"
	LoteEstadoFinalizado = "FINALIZADO"
)

// Nombres de prestador usados cuando no se encuentra uno registrado.
const (
	NombreIPSNoEncontrada = "IPS No encontrada"
	NombreIPSGenerico     = "IPS"
)

// Lote representa un envío (FURIPS1/FURIPS2/FURTRAN) de un prestador.
// Solo puede existir uno por (CodigoHabilitacion, NombreArchivo, día de FechaCarga).
type Lote struct {
	ID                 int64
	CodigoHabilitacion string
	NombreIPS          string
	NombreArchivo      string // idEnvio informado por el prestador
	CantidadFacturas   int
	CantidadItems      int
	ValorTotal         decimal.Decimal
	RutaDrive          string // ruta en el almacenamiento de objetos
	Estado             string // ver constantes LoteEstado*
	FechaCarga         time.Time
	FechaProcesado     *time.Time
	ProcesadoPor       *string
	CargadoPor         string // user_id de quien registró el envío
}

// DiaCarga devuelve el día calendario (zona del servidor) usado para la unicidad del envío.
func DiaCarga(t time.Time) (inicio, fin time.Time) {
	inicio = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return inicio, inicio.AddDate(0, 0, 1)
}
