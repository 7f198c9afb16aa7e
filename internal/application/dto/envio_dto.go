package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
)

// ResumenEnvioResponse resumen conciliado del envío (vista previa o tras el registro).
type ResumenEnvioResponse struct {
	CodigoHabilitacion  string                      `json:"codigo_habilitacion"`
	NombreIPS           string                      `json:"nombre_ips"`
	CantidadFacturas    int                         `json:"cantidad_facturas"`
	CantidadItems       int                         `json:"cantidad_items"`
	ValorTotal          decimal.Decimal             `json:"valor_total"`
	SoloTransporte      bool                        `json:"solo_transporte"`
	Transporte          *TransporteResponse         `json:"transporte,omitempty"`
	EstadoAseguramiento []furips.CodeFrequencyEntry `json:"estado_aseguramiento"`
	CondicionVictima    []furips.CodeFrequencyEntry `json:"condicion_victima"`
	TipoServicio        []furips.CodeFrequencyEntry `json:"tipo_servicio"`
}

// TransporteResponse totales del FURTRAN.
type TransporteResponse struct {
	CodigoHabilitacion string          `json:"codigo_habilitacion"`
	CantidadRegistros  int             `json:"cantidad_registros"`
	ValorTotal         decimal.Decimal `json:"valor_total"`
}

// EnvioResponse respuesta de validación, vista previa o registro de un envío.
// Si la validación falla solo se llenan Code, Valido y Validaciones.
type EnvioResponse struct {
	Code         string                                 `json:"code,omitempty"`
	Valido       bool                                   `json:"valido"`
	Resumen      *ResumenEnvioResponse                  `json:"resumen,omitempty"`
	Validaciones map[string]furips.FileValidationResult `json:"validaciones"`
	Lote         *LoteResponse                          `json:"lote,omitempty"`
	Insertados   map[string]int64                       `json:"insertados,omitempty"`
	Fallidos     map[string]string                      `json:"fallidos,omitempty"`
}

// LoteResponse lote almacenado.
type LoteResponse struct {
	ID                 int64           `json:"id"`
	CodigoHabilitacion string          `json:"codigo_habilitacion"`
	NombreIPS          string          `json:"nombre_ips"`
	NombreArchivo      string          `json:"nombre_archivo"`
	CantidadFacturas   int             `json:"cantidad_facturas"`
	CantidadItems      int             `json:"cantidad_items"`
	ValorTotal         decimal.Decimal `json:"valor_total"`
	RutaDrive          string          `json:"ruta_drive"`
	Estado             string          `json:"estado"`
	FechaCarga         time.Time       `json:"fecha_carga"`
	FechaProcesado     *time.Time      `json:"fecha_procesado,omitempty"`
	ProcesadoPor       *string         `json:"procesado_por,omitempty"`
	CargadoPor         string          `json:"cargado_por"`
}

// LoteDetalleResponse lote con el conteo de líneas persistidas por tipo.
type LoteDetalleResponse struct {
	LoteResponse
	RegistrosFurips1 int64 `json:"registros_furips1"`
	RegistrosFurips2 int64 `json:"registros_furips2"`
	RegistrosFurtran int64 `json:"registros_furtran"`
}

// LoteListResponse listado paginado de lotes.
type LoteListResponse struct {
	Items []LoteResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoteListRequest filtros del listado. Fechas en formato 2006-01-02.
type LoteListRequest struct {
	CodigoHabilitacion string `query:"codigo_habilitacion"`
	Desde              string `query:"desde"`
	Hasta              string `query:"hasta"`
	PageRequest
}

// FragmentoRef referencia a una carga fragmentada de un archivo.
type FragmentoRef struct {
	UploadID        string `json:"upload_id"`
	TotalFragmentos int    `json:"total_fragmentos"`
}

// EnsambladoRequest envío cuyos archivos llegaron por fragmentos.
// Las claves de Archivos son FURIPS1, FURIPS2 o FURTRAN.
type EnsambladoRequest struct {
	IDEnvio  string                  `json:"id_envio"`
	Archivos map[string]FragmentoRef `json:"archivos"`
}

// FragmentoResponse confirmación de un fragmento recibido.
type FragmentoResponse struct {
	UploadID string `json:"upload_id"`
	ChunkID  string `json:"chunk_id"`
	Bytes    int64  `json:"bytes"`
}
