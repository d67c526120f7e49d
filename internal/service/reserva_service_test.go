package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/PisamaTech/PisamaApp-sub001/config"
	"github.com/PisamaTech/PisamaApp-sub001/internal/agenda"
	"github.com/PisamaTech/PisamaApp-sub001/internal/dto"
	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
	"github.com/PisamaTech/PisamaApp-sub001/internal/notify"
	"github.com/PisamaTech/PisamaApp-sub001/internal/repository"
)

// Lunes 2025-03-03 10:00 UTC, igual en todos los tests de reservas
var inicioBase = time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

type entornoReservas struct {
	svc      *reservaService
	reservas *mockReservaRepo
	salas    *mockSalaRepo
	fuente   *notify.FuenteMemoria
	salaID   string
	otraSala string
}

func nuevoEntornoReservas(t *testing.T, ahora time.Time) *entornoReservas {
	t.Helper()

	salas := newMockSalaRepo()
	consultorioA := &model.Sala{Nombre: "Consultorio A"}
	consultorioB := &model.Sala{Nombre: "Consultorio B"}
	if err := salas.Crear(context.Background(), consultorioA); err != nil {
		t.Fatalf("creando sala: %v", err)
	}
	if err := salas.Crear(context.Background(), consultorioB); err != nil {
		t.Fatalf("creando sala: %v", err)
	}

	reservas := newMockReservaRepo()
	repo := &repository.Repository{
		Usuario: newMockUsuarioRepo(),
		Sala:    salas,
		Reserva: reservas,
		Acceso:  newMockAccesoRepo(),
		Pago:    newMockPagoRepo(),
	}

	cfg := &config.ReservasConfig{
		HorizonteSerieMeses:    2,
		ToleranciaAcceso:       50 * time.Minute,
		HorasPenalizacion:      24,
		DiasCreditoReprogramar: 6,
	}
	fuente := notify.NuevaFuenteMemoria()
	svc := NewReservaService(cfg, repo, fuente, zap.NewNop()).(*reservaService)
	svc.ahora = func() time.Time { return ahora }

	return &entornoReservas{
		svc:      svc,
		reservas: reservas,
		salas:    salas,
		fuente:   fuente,
		salaID:   consultorioA.SalaID,
		otraSala: consultorioB.SalaID,
	}
}

func franjaReq(salaID string, camilla bool, inicio time.Time) dto.FranjaRequest {
	return dto.FranjaRequest{
		SalaID:     salaID,
		UsaCamilla: camilla,
		Inicio:     inicio,
		Fin:        inicio.Add(time.Hour),
	}
}

func TestCrearEventual(t *testing.T) {
	e := nuevoEntornoReservas(t, inicioBase.Add(-48*time.Hour))

	resp, err := e.svc.Crear(context.Background(), &dto.CrearReservaRequest{
		FranjaRequest: franjaReq(e.salaID, false, inicioBase),
		Tipo:          model.TipoEventual,
	}, "usuario-1")
	if err != nil {
		t.Fatalf("Crear() error = %v", err)
	}
	if len(resp.Reservas) != 1 {
		t.Fatalf("len(Reservas) = %d, esperaba 1", len(resp.Reservas))
	}
	if resp.Reservas[0].Estado != model.EstadoActiva {
		t.Errorf("Estado = %s, esperaba ACTIVA", resp.Reservas[0].Estado)
	}
	if resp.SerieID != nil {
		t.Errorf("SerieID = %v, una EVENTUAL no lleva serie", *resp.SerieID)
	}
	if len(e.reservas.reservas) != 1 {
		t.Errorf("persistidas = %d, esperaba 1", len(e.reservas.reservas))
	}

	eventos := e.fuente.Publicados()
	if len(eventos) != 1 || eventos[0].Tipo != notify.EventoReservaCreada {
		t.Errorf("eventos = %v, esperaba uno de tipo reserva.creada", eventos)
	}
}

func TestCrearConConflictoDeSala(t *testing.T) {
	e := nuevoEntornoReservas(t, inicioBase.Add(-48*time.Hour))

	// Ocupante previo en la misma sala y hora
	previa := model.Reserva{
		SalaID: e.salaID, Inicio: inicioBase, Fin: inicioBase.Add(time.Hour),
		Tipo: model.TipoEventual, Estado: model.EstadoActiva, UsuarioID: "otro",
	}
	if err := e.reservas.CrearLote(context.Background(), []model.Reserva{previa}); err != nil {
		t.Fatalf("sembrando reserva previa: %v", err)
	}

	_, err := e.svc.Crear(context.Background(), &dto.CrearReservaRequest{
		FranjaRequest: franjaReq(e.salaID, false, inicioBase),
		Tipo:          model.TipoEventual,
	}, "usuario-1")

	var conflicto *ConflictoError
	if !errors.As(err, &conflicto) {
		t.Fatalf("Crear() error = %v, esperaba *ConflictoError", err)
	}
	if len(conflicto.Sala) != 1 || len(conflicto.Camilla) != 0 {
		t.Errorf("conflicto = %d sala / %d camilla, esperaba 1/0",
			len(conflicto.Sala), len(conflicto.Camilla))
	}
	if len(e.reservas.reservas) != 1 {
		t.Errorf("persistidas = %d, el intento en conflicto no debe persistir nada", len(e.reservas.reservas))
	}
}

func TestCrearConflictoDeCamillaEntreSalasDistintas(t *testing.T) {
	e := nuevoEntornoReservas(t, inicioBase.Add(-48*time.Hour))

	// La camilla está tomada en la otra sala a la misma hora
	previa := model.Reserva{
		SalaID: e.otraSala, UsaCamilla: true,
		Inicio: inicioBase, Fin: inicioBase.Add(time.Hour),
		Tipo: model.TipoEventual, Estado: model.EstadoActiva, UsuarioID: "otro",
	}
	if err := e.reservas.CrearLote(context.Background(), []model.Reserva{previa}); err != nil {
		t.Fatalf("sembrando reserva previa: %v", err)
	}

	_, err := e.svc.Crear(context.Background(), &dto.CrearReservaRequest{
		FranjaRequest: franjaReq(e.salaID, true, inicioBase),
		Tipo:          model.TipoEventual,
	}, "usuario-1")

	var conflicto *ConflictoError
	if !errors.As(err, &conflicto) {
		t.Fatalf("Crear() error = %v, esperaba *ConflictoError", err)
	}
	if len(conflicto.Sala) != 0 || len(conflicto.Camilla) != 1 {
		t.Errorf("conflicto = %d sala / %d camilla, esperaba 0/1",
			len(conflicto.Sala), len(conflicto.Camilla))
	}
}

func TestCrearFijaExpandeLaSerie(t *testing.T) {
	e := nuevoEntornoReservas(t, inicioBase.Add(-48*time.Hour))

	resp, err := e.svc.Crear(context.Background(), &dto.CrearReservaRequest{
		FranjaRequest: franjaReq(e.salaID, false, inicioBase),
		Tipo:          model.TipoFija,
	}, "usuario-1")
	if err != nil {
		t.Fatalf("Crear() error = %v", err)
	}

	// 2025-03-03 + 2 meses = 2025-05-03 exclusivo: 9 lunes
	if len(resp.Reservas) != 9 {
		t.Fatalf("len(Reservas) = %d, esperaba 9 instancias semanales", len(resp.Reservas))
	}
	if resp.SerieID == nil {
		t.Fatal("SerieID nulo en una serie FIJA")
	}
	for _, r := range resp.Reservas {
		if r.SerieID == nil || *r.SerieID != *resp.SerieID {
			t.Fatalf("instancia con SerieID %v, esperaba %s", r.SerieID, *resp.SerieID)
		}
		if r.Tipo != model.TipoFija {
			t.Errorf("Tipo = %s, esperaba FIJA", r.Tipo)
		}
	}
}

func TestCrearFijaTodoONada(t *testing.T) {
	e := nuevoEntornoReservas(t, inicioBase.Add(-48*time.Hour))

	// Una única instancia futura de la serie está tomada
	previa := model.Reserva{
		SalaID: e.salaID,
		Inicio: inicioBase.AddDate(0, 0, 21), Fin: inicioBase.AddDate(0, 0, 21).Add(time.Hour),
		Tipo: model.TipoEventual, Estado: model.EstadoActiva, UsuarioID: "otro",
	}
	if err := e.reservas.CrearLote(context.Background(), []model.Reserva{previa}); err != nil {
		t.Fatalf("sembrando reserva previa: %v", err)
	}

	_, err := e.svc.Crear(context.Background(), &dto.CrearReservaRequest{
		FranjaRequest: franjaReq(e.salaID, false, inicioBase),
		Tipo:          model.TipoFija,
	}, "usuario-1")

	var conflicto *ConflictoError
	if !errors.As(err, &conflicto) {
		t.Fatalf("Crear() error = %v, esperaba *ConflictoError", err)
	}
	if len(e.reservas.reservas) != 1 {
		t.Errorf("persistidas = %d, una serie en conflicto no persiste ninguna instancia",
			len(e.reservas.reservas))
	}
}

func TestCrearFallaCerradaSiUnaConsultaFalla(t *testing.T) {
	e := nuevoEntornoReservas(t, inicioBase.Add(-48*time.Hour))
	e.reservas.errBuscarCamilla = errors.New("conexión perdida")

	_, err := e.svc.Crear(context.Background(), &dto.CrearReservaRequest{
		FranjaRequest: franjaReq(e.salaID, true, inicioBase),
		Tipo:          model.TipoEventual,
	}, "usuario-1")
	if err == nil {
		t.Fatal("Crear() sin error con una sub-consulta fallida; un resultado parcial no autoriza la reserva")
	}
	var conflicto *ConflictoError
	if errors.As(err, &conflicto) {
		t.Fatal("la falla de verificación no debe reportarse como conflicto")
	}
	if len(e.reservas.reservas) != 0 {
		t.Errorf("persistidas = %d, esperaba 0", len(e.reservas.reservas))
	}
}

func TestCrearSalaInexistente(t *testing.T) {
	e := nuevoEntornoReservas(t, inicioBase.Add(-48*time.Hour))

	_, err := e.svc.Crear(context.Background(), &dto.CrearReservaRequest{
		FranjaRequest: franjaReq("11111111-1111-1111-1111-111111111111", false, inicioBase),
		Tipo:          model.TipoEventual,
	}, "usuario-1")
	if !errors.Is(err, ErrSalaNoEncontrada) {
		t.Fatalf("Crear() error = %v, esperaba ErrSalaNoEncontrada", err)
	}
}

func TestCrearFranjaInvalida(t *testing.T) {
	e := nuevoEntornoReservas(t, inicioBase.Add(-48*time.Hour))

	req := &dto.CrearReservaRequest{
		FranjaRequest: dto.FranjaRequest{
			SalaID: e.salaID,
			Inicio: inicioBase,
			Fin:    inicioBase.Add(30 * time.Minute),
		},
		Tipo: model.TipoEventual,
	}
	if _, err := e.svc.Crear(context.Background(), req, "usuario-1"); !errors.Is(err, agenda.ErrFranjaNoHoraria) {
		t.Fatalf("Crear() error = %v, esperaba ErrFranjaNoHoraria", err)
	}
}

// ── Cancelación ──

func sembrarActiva(t *testing.T, e *entornoReservas, inicio time.Time, usuarioID string) string {
	t.Helper()
	r := model.Reserva{
		SalaID: e.salaID, Inicio: inicio, Fin: inicio.Add(time.Hour),
		Tipo: model.TipoEventual, Estado: model.EstadoActiva, UsuarioID: usuarioID,
	}
	if err := e.reservas.CrearLote(context.Background(), []model.Reserva{r}); err != nil {
		t.Fatalf("sembrando reserva: %v", err)
	}
	for id := range e.reservas.reservas {
		if e.reservas.reservas[id].Inicio.Equal(inicio) && e.reservas.reservas[id].UsuarioID == usuarioID {
			return id
		}
	}
	t.Fatal("reserva sembrada no encontrada")
	return ""
}

func TestCancelarConAnticipacion(t *testing.T) {
	ahora := inicioBase.Add(-72 * time.Hour)
	e := nuevoEntornoReservas(t, ahora)
	id := sembrarActiva(t, e, inicioBase, "usuario-1")

	resp, err := e.svc.Cancelar(context.Background(), id, "usuario-1", false)
	if err != nil {
		t.Fatalf("Cancelar() error = %v", err)
	}
	if resp.Estado != model.EstadoCancelada {
		t.Errorf("Estado = %s, esperaba CANCELADA", resp.Estado)
	}
	if resp.LimiteReprogramacion != nil {
		t.Error("una cancelación con anticipación no otorga crédito de reprogramación")
	}
}

func TestCancelarSobreLaHoraPenaliza(t *testing.T) {
	ahora := inicioBase.Add(-2 * time.Hour)
	e := nuevoEntornoReservas(t, ahora)
	id := sembrarActiva(t, e, inicioBase, "usuario-1")

	resp, err := e.svc.Cancelar(context.Background(), id, "usuario-1", false)
	if err != nil {
		t.Fatalf("Cancelar() error = %v", err)
	}
	if resp.Estado != model.EstadoPenalizada {
		t.Errorf("Estado = %s, esperaba PENALIZADA", resp.Estado)
	}
	if resp.LimiteReprogramacion == nil {
		t.Fatal("una cancelación penalizada otorga crédito de reprogramación")
	}
	esperado := ahora.AddDate(0, 0, 6)
	if !resp.LimiteReprogramacion.Equal(esperado) {
		t.Errorf("LimiteReprogramacion = %v, esperaba %v", resp.LimiteReprogramacion, esperado)
	}

	eventos := e.fuente.Publicados()
	if len(eventos) != 1 || eventos[0].Tipo != notify.EventoReservaPenalizada {
		t.Errorf("eventos = %v, esperaba reserva.penalizada", eventos)
	}
}

func TestCancelarAjena(t *testing.T) {
	e := nuevoEntornoReservas(t, inicioBase.Add(-72*time.Hour))
	id := sembrarActiva(t, e, inicioBase, "usuario-1")

	if _, err := e.svc.Cancelar(context.Background(), id, "usuario-2", false); !errors.Is(err, ErrSinPermiso) {
		t.Fatalf("Cancelar() error = %v, esperaba ErrSinPermiso", err)
	}

	// El admin sí puede
	if _, err := e.svc.Cancelar(context.Background(), id, "usuario-2", true); err != nil {
		t.Fatalf("Cancelar() como admin error = %v", err)
	}
}

func TestCancelarNoActiva(t *testing.T) {
	e := nuevoEntornoReservas(t, inicioBase.Add(-72*time.Hour))
	id := sembrarActiva(t, e, inicioBase, "usuario-1")
	e.reservas.reservas[id].Estado = model.EstadoCancelada

	_, err := e.svc.Cancelar(context.Background(), id, "usuario-1", false)
	if !errors.Is(err, agenda.ErrPrecondicion) {
		t.Fatalf("Cancelar() error = %v, esperaba precondición fallida", err)
	}
}

func TestCancelarSerieSoloFuturas(t *testing.T) {
	ahora := inicioBase.AddDate(0, 0, 14).Add(-time.Hour)
	e := nuevoEntornoReservas(t, inicioBase.Add(-48*time.Hour))

	resp, err := e.svc.Crear(context.Background(), &dto.CrearReservaRequest{
		FranjaRequest: franjaReq(e.salaID, false, inicioBase),
		Tipo:          model.TipoFija,
	}, "usuario-1")
	if err != nil {
		t.Fatalf("Crear() error = %v", err)
	}

	// Dos semanas después: las 2 primeras instancias ya ocurrieron
	e.svc.ahora = func() time.Time { return ahora }

	serieResp, err := e.svc.CancelarSerie(context.Background(), resp.Reservas[0].ID, "usuario-1", false)
	if err != nil {
		t.Fatalf("CancelarSerie() error = %v", err)
	}
	if serieResp.Canceladas != 7 {
		t.Errorf("Canceladas = %d, esperaba 7 (9 instancias menos 2 pasadas)", serieResp.Canceladas)
	}

	for _, r := range e.reservas.reservas {
		if r.Inicio.Before(ahora) && r.Estado != model.EstadoActiva {
			t.Errorf("instancia pasada %v mutada a %s", r.Inicio, r.Estado)
		}
	}
}

func TestCancelarSerieSobreEventual(t *testing.T) {
	e := nuevoEntornoReservas(t, inicioBase.Add(-72*time.Hour))
	id := sembrarActiva(t, e, inicioBase, "usuario-1")

	if _, err := e.svc.CancelarSerie(context.Background(), id, "usuario-1", false); !errors.Is(err, ErrReservaSinSerie) {
		t.Fatalf("CancelarSerie() error = %v, esperaba ErrReservaSinSerie", err)
	}
}

// ── Reprogramación ──

func sembrarPenalizada(t *testing.T, e *entornoReservas, limite time.Time) string {
	t.Helper()
	id := sembrarActiva(t, e, inicioBase, "usuario-1")
	e.reservas.reservas[id].Estado = model.EstadoPenalizada
	e.reservas.reservas[id].LimiteReprogramacion = &limite
	return id
}

func TestReprogramarConsumeElCredito(t *testing.T) {
	ahora := inicioBase.Add(2 * time.Hour)
	e := nuevoEntornoReservas(t, ahora)
	limite := ahora.AddDate(0, 0, 6)
	id := sembrarPenalizada(t, e, limite)

	nueva := inicioBase.AddDate(0, 0, 2)
	resp, err := e.svc.Reprogramar(context.Background(), id, &dto.ReprogramarRequest{
		FranjaRequest: franjaReq(e.salaID, false, nueva),
	}, "usuario-1", false)
	if err != nil {
		t.Fatalf("Reprogramar() error = %v", err)
	}
	if len(resp.Reservas) != 1 {
		t.Fatalf("len(Reservas) = %d, esperaba 1 reemplazo", len(resp.Reservas))
	}
	if !resp.Reservas[0].Inicio.Equal(nueva) {
		t.Errorf("Inicio del reemplazo = %v, esperaba %v", resp.Reservas[0].Inicio, nueva)
	}

	original := e.reservas.reservas[id]
	if original.Estado != model.EstadoPenalizada {
		t.Errorf("la original cambió a %s; debe seguir PENALIZADA para facturación", original.Estado)
	}
	if !original.Reprogramada {
		t.Error("la original no quedó marcada como reprogramada")
	}

	// Segundo intento: el crédito ya se consumió
	if _, err := e.svc.Reprogramar(context.Background(), id, &dto.ReprogramarRequest{
		FranjaRequest: franjaReq(e.salaID, false, nueva.AddDate(0, 0, 1)),
	}, "usuario-1", false); !errors.Is(err, agenda.ErrPrecondicion) {
		t.Fatalf("segundo Reprogramar() error = %v, esperaba precondición fallida", err)
	}
}

func TestReprogramarFueraDePlazo(t *testing.T) {
	ahora := inicioBase.AddDate(0, 0, 10)
	e := nuevoEntornoReservas(t, ahora)
	id := sembrarPenalizada(t, e, inicioBase.AddDate(0, 0, 6)) // límite ya vencido

	_, err := e.svc.Reprogramar(context.Background(), id, &dto.ReprogramarRequest{
		FranjaRequest: franjaReq(e.salaID, false, ahora.Add(48*time.Hour)),
	}, "usuario-1", false)
	if !errors.Is(err, agenda.ErrPlazoVencido) {
		t.Fatalf("Reprogramar() error = %v, esperaba ErrPlazoVencido", err)
	}
}

func TestReprogramarSobreFranjaOcupadaNoConsumeCredito(t *testing.T) {
	ahora := inicioBase.Add(2 * time.Hour)
	e := nuevoEntornoReservas(t, ahora)
	id := sembrarPenalizada(t, e, ahora.AddDate(0, 0, 6))

	ocupada := inicioBase.AddDate(0, 0, 2)
	sembrarActiva(t, e, ocupada, "otro")

	_, err := e.svc.Reprogramar(context.Background(), id, &dto.ReprogramarRequest{
		FranjaRequest: franjaReq(e.salaID, false, ocupada),
	}, "usuario-1", false)

	var conflicto *ConflictoError
	if !errors.As(err, &conflicto) {
		t.Fatalf("Reprogramar() error = %v, esperaba *ConflictoError", err)
	}
	if e.reservas.reservas[id].Reprogramada {
		t.Error("un intento en conflicto no debe consumir el crédito")
	}
}

// ── Marcar utilizada ──

func TestMarcarUtilizada(t *testing.T) {
	e := nuevoEntornoReservas(t, inicioBase.Add(2*time.Hour))
	id := sembrarActiva(t, e, inicioBase, "usuario-1")

	resp, err := e.svc.MarcarUtilizada(context.Background(), id)
	if err != nil {
		t.Fatalf("MarcarUtilizada() error = %v", err)
	}
	if resp.Estado != model.EstadoUtilizada {
		t.Errorf("Estado = %s, esperaba UTILIZADA", resp.Estado)
	}

	// Idempotencia negativa: la segunda vez la guarda rechaza
	if _, err := e.svc.MarcarUtilizada(context.Background(), id); !errors.Is(err, agenda.ErrPrecondicion) {
		t.Fatalf("segundo MarcarUtilizada() error = %v, esperaba precondición fallida", err)
	}
}

// ── Verificación pura ──

func TestVerificarConflictosNoPersiste(t *testing.T) {
	e := nuevoEntornoReservas(t, inicioBase.Add(-48*time.Hour))
	sembrarActiva(t, e, inicioBase, "otro")
	antes := len(e.reservas.reservas)

	resp, err := e.svc.VerificarConflictos(context.Background(), &dto.VerificarConflictosRequest{
		Candidatas: []dto.FranjaRequest{franjaReq(e.salaID, false, inicioBase)},
	})
	if err != nil {
		t.Fatalf("VerificarConflictos() error = %v", err)
	}
	if len(resp.ConflictosSala) != 1 {
		t.Errorf("ConflictosSala = %d, esperaba 1", len(resp.ConflictosSala))
	}
	if len(e.reservas.reservas) != antes {
		t.Error("la verificación no debe persistir nada")
	}
}

func TestVerificarConflictosIgnoraCanceladas(t *testing.T) {
	e := nuevoEntornoReservas(t, inicioBase.Add(-48*time.Hour))
	id := sembrarActiva(t, e, inicioBase, "otro")
	e.reservas.reservas[id].Estado = model.EstadoCancelada

	resp, err := e.svc.VerificarConflictos(context.Background(), &dto.VerificarConflictosRequest{
		Candidatas: []dto.FranjaRequest{franjaReq(e.salaID, false, inicioBase)},
	})
	if err != nil {
		t.Fatalf("VerificarConflictos() error = %v", err)
	}
	if len(resp.ConflictosSala) != 0 || len(resp.ConflictosCamilla) != 0 {
		t.Error("una reserva cancelada no ocupa su franja")
	}
}
