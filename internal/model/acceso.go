package model

import "time"

// Resultados de conciliación de un registro de acceso
const (
	AccesoValido         = "VALIDO"          // usuario identificado con reserva vigente
	AccesoSinReserva     = "SIN_RESERVA"     // usuario identificado sin reserva en la ventana
	AccesoNoIdentificado = "NO_IDENTIFICADO" // el nombre crudo no coincide con ningún usuario
)

// RegistroAcceso tabla registros_acceso: un evento de la cerradura física.
// NombreCrudo es texto libre no confiable tal como lo exporta el hardware.
// Inmutable una vez ingresado salvo el flag Revisado del triaje admin.
type RegistroAcceso struct {
	RegistroID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"registro_id"`
	Momento     time.Time `gorm:"not null"                                       json:"momento"`
	NombreCrudo string    `gorm:"type:text;not null"                             json:"nombre_crudo"`
	Contenido   string    `gorm:"type:text"                                      json:"contenido,omitempty"`
	Resultado   string    `gorm:"type:varchar(20)"                               json:"resultado,omitempty"`
	UsuarioID   *string   `gorm:"type:uuid"                                      json:"usuario_id,omitempty"`
	ReservaID   *string   `gorm:"type:uuid"                                      json:"reserva_id,omitempty"`
	Revisado    bool      `gorm:"not null;default:false"                         json:"revisado"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName nombre de la tabla
func (RegistroAcceso) TableName() string { return "registros_acceso" }
