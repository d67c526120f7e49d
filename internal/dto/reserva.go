package dto

import "time"

// ── DTOs del módulo de reservas ──

// FranjaRequest una franja candidata de una hora. Los instantes viajan
// en RFC 3339 y se comparan siempre en UTC.
type FranjaRequest struct {
	SalaID     string    `json:"sala_id"     binding:"required,uuid"`
	UsaCamilla bool      `json:"usa_camilla"`
	Inicio     time.Time `json:"inicio"      binding:"required"`
	Fin        time.Time `json:"fin"         binding:"required"`
}

// CrearReservaRequest alta de una reserva eventual o fija.
// Una FIJA se expande a su serie semanal completa antes de verificar
// conflictos; se persiste toda la serie o nada.
type CrearReservaRequest struct {
	FranjaRequest
	Tipo string `json:"tipo" binding:"required,oneof=EVENTUAL FIJA"`
}

// VerificarConflictosRequest lote de franjas candidatas de un mismo
// intento de reserva
type VerificarConflictosRequest struct {
	Candidatas []FranjaRequest `json:"candidatas" binding:"required,min=1,dive"`
}

// ReprogramarRequest nueva franja para una reserva penalizada
type ReprogramarRequest struct {
	FranjaRequest
}

// ListarReservasRequest filtros de listado
type ListarReservasRequest struct {
	Desde     time.Time `form:"desde"      binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	Hasta     time.Time `form:"hasta"      binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	UsuarioID string    `form:"usuario_id" binding:"omitempty,uuid"`
	SalaID    string    `form:"sala_id"    binding:"omitempty,uuid"`
}

// ReservaResponse representación de una reserva hacia la UI
type ReservaResponse struct {
	ID                   string     `json:"id"`
	SalaID               string     `json:"sala_id"`
	SalaNombre           string     `json:"sala_nombre,omitempty"`
	UsaCamilla           bool       `json:"usa_camilla"`
	Inicio               time.Time  `json:"inicio"`
	Fin                  time.Time  `json:"fin"`
	Tipo                 string     `json:"tipo"`
	Estado               string     `json:"estado"`
	UsuarioID            string     `json:"usuario_id"`
	SerieID              *string    `json:"serie_id,omitempty"`
	VenceSerie           *time.Time `json:"vence_serie,omitempty"`
	LimiteReprogramacion *time.Time `json:"limite_reprogramacion,omitempty"`
	Reprogramada         bool       `json:"reprogramada"`
}

// ConflictosResponse resultado de la verificación de conflictos: las
// reservas preexistentes que chocan, separadas por dimensión de recurso.
// Ambas listas vacías garantizan (al momento de la consulta) que el
// lote puede persistirse.
type ConflictosResponse struct {
	ConflictosSala    []ReservaResponse `json:"conflictos_sala"`
	ConflictosCamilla []ReservaResponse `json:"conflictos_camilla"`
}

// CrearReservaResponse resultado del alta
type CrearReservaResponse struct {
	Reservas []ReservaResponse `json:"reservas"`
	SerieID  *string           `json:"serie_id,omitempty"`
}

// CancelarSerieResponse resultado de la cancelación de serie
type CancelarSerieResponse struct {
	Canceladas int64 `json:"canceladas"`
}
