package entity

import "github.com/shopspring/decimal"

// RegistroFurips1 reclamación del FURIPS1 asociada a un lote.
type RegistroFurips1 struct {
	LoteID                 int64
	Linea                  int
	NumeroFactura          string
	ConsecutivoReclamacion string
	CodigoHabilitacion     string
	TipoDocumentoVictima   string
	DocumentoVictima       string
	CondicionVictima       string
	EstadoAseguramiento    string
	PlacaVehiculo          string
	Campos                 []string // línea completa, para auditoría
}

// RegistroFurips2 servicio facturado del FURIPS2 asociado a un lote.
type RegistroFurips2 struct {
	LoteID         int64
	Linea          int
	NumeroFactura  string
	Consecutivo    string
	TipoServicio   string
	CodigoServicio string
	Descripcion    string
	Cantidad       decimal.Decimal
	ValorUnitario  decimal.Decimal
	ValorFacturado decimal.Decimal
	ValorReclamado decimal.Decimal
}

// RegistroFurtran reclamación de transporte asociada a un lote.
type RegistroFurtran struct {
	LoteID             int64
	Linea              int
	NumeroFactura      string
	CodigoHabilitacion string
	PlacaAmbulancia    string
	ValorReclamado     decimal.Decimal
	Campos             []string
}
