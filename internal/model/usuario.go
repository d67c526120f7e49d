package model

// Usuario tabla usuarios.
// NombreSistemaAcceso es el alias con el que la cerradura física registra
// a la persona; puede no coincidir con nombre y apellido.
type Usuario struct {
	UsuarioID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"usuario_id"`
	Nombre              string  `gorm:"type:varchar(100);not null"                     json:"nombre"`
	Apellido            string  `gorm:"type:varchar(100);not null"                     json:"apellido"`
	Email               string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash        string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Rol                 string  `gorm:"type:varchar(20);not null;default:'socio'"      json:"rol"` // admin | socio
	NombreSistemaAcceso *string `gorm:"type:varchar(100)"                              json:"nombre_sistema_acceso,omitempty"`
	Activo              bool    `gorm:"not null;default:true"                          json:"activo"`
	BaseModel
}

// TableName nombre de la tabla
func (Usuario) TableName() string { return "usuarios" }

// NombreCompleto devuelve "Nombre Apellido"
func (u *Usuario) NombreCompleto() string {
	return u.Nombre + " " + u.Apellido
}
