package dto

import "time"

// ── DTOs del módulo de conciliación de accesos ──

// RegistroAccesoRequest una fila del log de la cerradura, ya parseada
// por el importador externo
type RegistroAccesoRequest struct {
	Momento     time.Time `json:"momento"      binding:"required"`
	NombreCrudo string    `json:"nombre_crudo" binding:"required"`
	Contenido   string    `json:"contenido"`
}

// ConciliarLoteRequest lote de registros de acceso a conciliar
type ConciliarLoteRequest struct {
	Registros []RegistroAccesoRequest `json:"registros" binding:"required,min=1,dive"`
}

// UsuarioBrief identificación mínima de un usuario en respuestas
type UsuarioBrief struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
}

// ResultadoConciliacionResponse clasificación de un registro del lote
type ResultadoConciliacionResponse struct {
	Momento     time.Time        `json:"momento"`
	NombreCrudo string           `json:"nombre_crudo"`
	Estado      string           `json:"estado"` // VALIDO | SIN_RESERVA | NO_IDENTIFICADO
	Usuario     *UsuarioBrief    `json:"usuario,omitempty"`
	Reserva     *ReservaResponse `json:"reserva,omitempty"`
}

// ConciliarLoteResponse resultado del lote completo
type ConciliarLoteResponse struct {
	Resultados []ResultadoConciliacionResponse `json:"resultados"`
}
