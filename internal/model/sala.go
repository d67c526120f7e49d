package model

// Sala tabla salas (consultorios reservables por hora)
type Sala struct {
	SalaID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"sala_id"`
	Nombre      string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"nombre"`
	Descripcion string `gorm:"type:varchar(500)"                              json:"descripcion,omitempty"`
	Activa      bool   `gorm:"not null;default:true"                          json:"activa"`
	BaseModel
}

// TableName nombre de la tabla
func (Sala) TableName() string { return "salas" }
