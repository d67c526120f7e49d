package conciliacion

import (
	"testing"
	"time"

	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
)

func instante(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("instante inválido %q: %v", s, err)
	}
	return v
}

func reservaJuan(t *testing.T, id, inicio string) model.Reserva {
	t.Helper()
	i := instante(t, inicio)
	return model.Reserva{
		ReservaID: id,
		SalaID:    "sala-1",
		UsuarioID: "u-1",
		Inicio:    i,
		Fin:       i.Add(time.Hour),
		Estado:    model.EstadoActiva,
	}
}

func TestClasificar_AccesoValidoDentroDeTolerancia(t *testing.T) {
	// Reserva 10:00-11:00, tolerancia 50m → ventana [09:10, 11:00).
	// Un acceso a las 09:15 es válido.
	usuarios := directorioPrueba()
	reservas := []model.Reserva{reservaJuan(t, "r-1", "2025-03-03T10:00:00Z")}
	registro := model.RegistroAcceso{
		Momento:     instante(t, "2025-03-03T09:15:00Z"),
		NombreCrudo: "juan perez",
	}

	res := Clasificar(registro, usuarios, reservas, 50*time.Minute)

	if res.Estado != model.AccesoValido {
		t.Fatalf("esperado VALIDO, obtenido %s", res.Estado)
	}
	if res.Usuario == nil || res.Usuario.UsuarioID != "u-1" {
		t.Error("debería identificar a u-1")
	}
	if res.Reserva == nil || res.Reserva.ReservaID != "r-1" {
		t.Error("debería asociar la reserva r-1")
	}
}

func TestClasificar_FueraDeToleranciaEsSinReserva(t *testing.T) {
	// El mismo acceso a las 09:05 queda fuera de [09:10, 11:00) aunque
	// el usuario sí se identifique.
	usuarios := directorioPrueba()
	reservas := []model.Reserva{reservaJuan(t, "r-1", "2025-03-03T10:00:00Z")}
	registro := model.RegistroAcceso{
		Momento:     instante(t, "2025-03-03T09:05:00Z"),
		NombreCrudo: "juan perez",
	}

	res := Clasificar(registro, usuarios, reservas, 50*time.Minute)

	if res.Estado != model.AccesoSinReserva {
		t.Fatalf("esperado SIN_RESERVA, obtenido %s", res.Estado)
	}
	if res.Usuario == nil || res.Usuario.UsuarioID != "u-1" {
		t.Error("el usuario identificado debe informarse igualmente")
	}
	if res.Reserva != nil {
		t.Error("no debe asociarse reserva alguna")
	}
}

func TestClasificar_BordesDeVentana(t *testing.T) {
	usuarios := directorioPrueba()
	reservas := []model.Reserva{reservaJuan(t, "r-1", "2025-03-03T10:00:00Z")}

	casos := []struct {
		nombre   string
		momento  string
		esperado string
	}{
		{"exactamente al inicio de la ventana", "2025-03-03T09:10:00Z", model.AccesoValido},
		{"durante la reserva", "2025-03-03T10:30:00Z", model.AccesoValido},
		{"exactamente al fin (exclusivo)", "2025-03-03T11:00:00Z", model.AccesoSinReserva},
		{"un minuto antes de la ventana", "2025-03-03T09:09:00Z", model.AccesoSinReserva},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			registro := model.RegistroAcceso{
				Momento:     instante(t, c.momento),
				NombreCrudo: "Juan Pérez",
			}
			res := Clasificar(registro, usuarios, reservas, 50*time.Minute)
			if res.Estado != c.esperado {
				t.Errorf("esperado %s, obtenido %s", c.esperado, res.Estado)
			}
		})
	}
}

func TestClasificar_NoIdentificado(t *testing.T) {
	registro := model.RegistroAcceso{
		Momento:     instante(t, "2025-03-03T10:00:00Z"),
		NombreCrudo: "visitante desconocido",
	}

	res := Clasificar(registro, directorioPrueba(), nil, 50*time.Minute)

	if res.Estado != model.AccesoNoIdentificado {
		t.Fatalf("esperado NO_IDENTIFICADO, obtenido %s", res.Estado)
	}
	if res.Usuario != nil || res.Reserva != nil {
		t.Error("no debe informar usuario ni reserva")
	}
}

func TestClasificar_ReservaDeOtroUsuarioNoCalifica(t *testing.T) {
	usuarios := directorioPrueba()
	r := reservaJuan(t, "r-1", "2025-03-03T10:00:00Z")
	r.UsuarioID = "u-2" // reserva de María
	registro := model.RegistroAcceso{
		Momento:     instante(t, "2025-03-03T10:15:00Z"),
		NombreCrudo: "juan perez",
	}

	res := Clasificar(registro, usuarios, []model.Reserva{r}, 50*time.Minute)

	if res.Estado != model.AccesoSinReserva {
		t.Errorf("la reserva ajena no debe calificar, obtenido %s", res.Estado)
	}
}

func TestClasificar_CanceladaNoCalifica(t *testing.T) {
	usuarios := directorioPrueba()
	r := reservaJuan(t, "r-1", "2025-03-03T10:00:00Z")
	r.Estado = model.EstadoCancelada
	registro := model.RegistroAcceso{
		Momento:     instante(t, "2025-03-03T10:15:00Z"),
		NombreCrudo: "juan perez",
	}

	res := Clasificar(registro, usuarios, []model.Reserva{r}, 50*time.Minute)

	if res.Estado != model.AccesoSinReserva {
		t.Errorf("una reserva cancelada no debe calificar, obtenido %s", res.Estado)
	}
}

func TestClasificar_DesempatePorInicioMasTemprano(t *testing.T) {
	// Un acceso a las 10:55 cae dentro de la reserva de 10:00 y dentro
	// de la tolerancia de la de 11:00; debe elegirse la más temprana
	// sin importar el orden de entrada.
	usuarios := directorioPrueba()
	reservas := []model.Reserva{
		reservaJuan(t, "r-tarde", "2025-03-03T11:00:00Z"),
		reservaJuan(t, "r-temprana", "2025-03-03T10:00:00Z"),
	}
	registro := model.RegistroAcceso{
		Momento:     instante(t, "2025-03-03T10:55:00Z"),
		NombreCrudo: "juan perez",
	}

	res := Clasificar(registro, usuarios, reservas, 50*time.Minute)

	if res.Estado != model.AccesoValido {
		t.Fatalf("esperado VALIDO, obtenido %s", res.Estado)
	}
	if res.Reserva == nil || res.Reserva.ReservaID != "r-temprana" {
		t.Errorf("debe elegirse la reserva de inicio más temprano, obtenida %+v", res.Reserva)
	}
}
