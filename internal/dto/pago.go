package dto

import "time"

// ── DTOs del webhook de pagos ──
//
// Contrato externo con el sistema de finanzas. Los nombres de campo en
// camelCase y los códigos de estado son parte del contrato: no cambiar
// sin coordinar con el emisor.

// PagoNotificacionRequest cuerpo del webhook de notificación de pago
type PagoNotificacionRequest struct {
	TransactionID string    `json:"transactionId"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	Amount        float64   `json:"amount"`
	PaymentDate   time.Time `json:"paymentDate"`
	Note          string    `json:"note"`
}

// CamposFaltantes lista los campos obligatorios ausentes; vacía si el
// cuerpo está completo.
func (r *PagoNotificacionRequest) CamposFaltantes() []string {
	var faltan []string
	if r.TransactionID == "" {
		faltan = append(faltan, "transactionId")
	}
	if r.Email == "" {
		faltan = append(faltan, "email")
	}
	if r.FullName == "" {
		faltan = append(faltan, "fullName")
	}
	if r.Amount <= 0 {
		faltan = append(faltan, "amount")
	}
	if r.PaymentDate.IsZero() {
		faltan = append(faltan, "paymentDate")
	}
	return faltan
}

// Estados devueltos por el webhook
const (
	PagoEstadoSuccess          = "success"
	PagoEstadoAlreadyProcessed = "already_processed"
)

// PagoNotificacionResponse respuesta del webhook (siempre HTTP 200 en
// los dos casos de éxito; el duplicado no es un error)
type PagoNotificacionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
