package dto

// ── DTOs del módulo de autenticación ──

// RegistrarRequest alta de un usuario socio
type RegistrarRequest struct {
	Nombre              string  `json:"nombre"   binding:"required,max=100"`
	Apellido            string  `json:"apellido" binding:"required,max=100"`
	Email               string  `json:"email"    binding:"required,email"`
	Password            string  `json:"password" binding:"required,min=8"`
	NombreSistemaAcceso *string `json:"nombre_sistema_acceso" binding:"omitempty,max=100"`
}

// LoginRequest credenciales de inicio de sesión
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse par de tokens emitidos
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // segundos de vida del access token
}

// UsuarioResponse perfil del usuario autenticado
type UsuarioResponse struct {
	ID                  string  `json:"id"`
	Nombre              string  `json:"nombre"`
	Apellido            string  `json:"apellido"`
	Email               string  `json:"email"`
	Rol                 string  `json:"rol"`
	NombreSistemaAcceso *string `json:"nombre_sistema_acceso,omitempty"`
}
