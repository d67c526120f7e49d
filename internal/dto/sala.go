package dto

// ── DTOs del módulo de salas ──

// CrearSalaRequest alta de sala
type CrearSalaRequest struct {
	Nombre      string `json:"nombre"      binding:"required,min=2,max=100"`
	Descripcion string `json:"descripcion" binding:"omitempty,max=500"`
}

// ActualizarSalaRequest modificación parcial de sala
type ActualizarSalaRequest struct {
	Nombre      *string `json:"nombre"      binding:"omitempty,min=2,max=100"`
	Descripcion *string `json:"descripcion" binding:"omitempty,max=500"`
	Activa      *bool   `json:"activa"`
}

// SalaResponse representación de una sala
type SalaResponse struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion,omitempty"`
	Activa      bool   `json:"activa"`
}
