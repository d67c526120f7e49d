package model

import "time"

// Pago tabla pagos: un pago notificado por el sistema de finanzas externo.
// TransactionID es la clave de idempotencia del webhook: un duplicado no
// crea una segunda fila.
type Pago struct {
	PagoID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"pago_id"`
	TransactionID  string    `gorm:"type:varchar(100);not null;uniqueIndex"         json:"transaction_id"`
	UsuarioID      string    `gorm:"type:uuid;not null"                             json:"usuario_id"`
	Email          string    `gorm:"type:varchar(255);not null"                     json:"email"`
	NombreCompleto string    `gorm:"type:varchar(200);not null"                     json:"nombre_completo"`
	Monto          float64   `gorm:"type:numeric(12,2);not null"                    json:"monto"`
	FechaPago      time.Time `gorm:"not null"                                       json:"fecha_pago"`
	Nota           string    `gorm:"type:varchar(500)"                              json:"nota,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName nombre de la tabla
func (Pago) TableName() string { return "pagos" }
