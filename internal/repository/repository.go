package repository

import "gorm.io/gorm"

// Repository punto de entrada agregado de todos los repositorios
type Repository struct {
	Usuario UsuarioRepository
	Sala    SalaRepository
	Reserva ReservaRepository
	Acceso  AccesoRepository
	Pago    PagoRepository
}

// NewRepository crea el agregado de repositorios
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Usuario: NewUsuarioRepo(db),
		Sala:    NewSalaRepo(db),
		Reserva: NewReservaRepo(db),
		Acceso:  NewAccesoRepo(db),
		Pago:    NewPagoRepo(db),
	}
}
