package conciliacion

import (
	"sort"
	"time"

	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
)

// ToleranciaPorDefecto anticipación admitida entre el acceso físico y
// el comienzo de la reserva.
const ToleranciaPorDefecto = 50 * time.Minute

// Resultado clasificación de un registro de acceso
type Resultado struct {
	Estado  string // model.AccesoValido | model.AccesoSinReserva | model.AccesoNoIdentificado
	Usuario *model.Usuario
	Reserva *model.Reserva
}

// Clasificar concilia un registro de acceso contra el directorio de
// usuarios y las reservas vigentes del rango del lote.
//
// Primero identifica al usuario por nombre (ver IdentificarUsuario).
// Identificado el usuario, una reserva es válida si el momento del
// acceso cae en [inicio − tolerancia, fin), la reserva le pertenece y
// su estado ocupa la franja (ACTIVA o UTILIZADA). Si varias reservas
// califican se elige la de inicio más temprano, para que el resultado
// no dependa del orden incidental de la consulta.
//
// La clasificación nunca muta reservas; sólo informa el triaje admin.
func Clasificar(registro model.RegistroAcceso, usuarios []model.Usuario, reservas []model.Reserva, tolerancia time.Duration) Resultado {
	if tolerancia <= 0 {
		tolerancia = ToleranciaPorDefecto
	}

	usuario := IdentificarUsuario(registro.NombreCrudo, usuarios)
	if usuario == nil {
		return Resultado{Estado: model.AccesoNoIdentificado}
	}

	var candidatas []model.Reserva
	for i := range reservas {
		r := reservas[i]
		if r.UsuarioID != usuario.UsuarioID || !r.Ocupante() {
			continue
		}
		desde := r.Inicio.Add(-tolerancia)
		if !registro.Momento.Before(desde) && registro.Momento.Before(r.Fin) {
			candidatas = append(candidatas, r)
		}
	}

	if len(candidatas) == 0 {
		return Resultado{Estado: model.AccesoSinReserva, Usuario: usuario}
	}

	sort.Slice(candidatas, func(i, j int) bool {
		return candidatas[i].Inicio.Before(candidatas[j].Inicio)
	})

	return Resultado{
		Estado:  model.AccesoValido,
		Usuario: usuario,
		Reserva: &candidatas[0],
	}
}
