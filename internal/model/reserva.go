package model

import "time"

// Tipos de reserva
const (
	TipoEventual = "EVENTUAL"
	TipoFija     = "FIJA"
)

// Estados del ciclo de vida de una reserva
const (
	EstadoActiva     = "ACTIVA"
	EstadoPenalizada = "PENALIZADA"
	EstadoCancelada  = "CANCELADA"
	EstadoUtilizada  = "UTILIZADA"
)

// Reserva tabla reservas: un bloque de una hora sobre una sala,
// opcionalmente usando la camilla compartida.
//
// Invariantes:
//   - Fin = Inicio + 1h (restricción CHECK en la base).
//   - Tipo FIJA implica SerieID y VenceSerie no nulos.
//   - Estado PENALIZADA implica LimiteReprogramacion no nulo.
//   - Reprogramada nunca vuelve a false una vez en true.
//   - Las reservas nunca se borran físicamente.
type Reserva struct {
	ReservaID            string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"reserva_id"`
	SalaID               string     `gorm:"type:uuid;not null"                             json:"sala_id"`
	UsaCamilla           bool       `gorm:"not null;default:false"                         json:"usa_camilla"`
	Inicio               time.Time  `gorm:"not null"                                       json:"inicio"`
	Fin                  time.Time  `gorm:"not null"                                       json:"fin"`
	Tipo                 string     `gorm:"type:varchar(10);not null"                      json:"tipo"`
	Estado               string     `gorm:"type:varchar(12);not null;default:'ACTIVA'"     json:"estado"`
	UsuarioID            string     `gorm:"type:uuid;not null"                             json:"usuario_id"`
	SerieID              *string    `gorm:"type:uuid"                                      json:"serie_id,omitempty"`
	VenceSerie           *time.Time `json:"vence_serie,omitempty"`
	LimiteReprogramacion *time.Time `json:"limite_reprogramacion,omitempty"`
	Reprogramada         bool       `gorm:"not null;default:false"                         json:"reprogramada"`
	BaseModel

	// Asociaciones
	Sala    *Sala    `gorm:"foreignKey:SalaID;references:SalaID"          json:"sala,omitempty"`
	Usuario *Usuario `gorm:"foreignKey:UsuarioID;references:UsuarioID"    json:"usuario,omitempty"`
}

// TableName nombre de la tabla
func (Reserva) TableName() string { return "reservas" }

// Ocupante indica si la reserva ocupa su franja frente a nuevos intentos
// de reserva (sólo ACTIVA y UTILIZADA bloquean; CANCELADA y PENALIZADA
// liberan la franja).
func (r *Reserva) Ocupante() bool {
	return r.Estado == EstadoActiva || r.Estado == EstadoUtilizada
}
