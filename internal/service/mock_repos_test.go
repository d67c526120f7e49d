package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PisamaTech/PisamaApp-sub001/internal/agenda"
	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
	pkgerrors "github.com/PisamaTech/PisamaApp-sub001/pkg/errors"
)

// ── Mock UsuarioRepository ──

type mockUsuarioRepo struct {
	usuarios map[string]*model.Usuario
}

func newMockUsuarioRepo() *mockUsuarioRepo {
	return &mockUsuarioRepo{usuarios: make(map[string]*model.Usuario)}
}

func (m *mockUsuarioRepo) Crear(_ context.Context, usuario *model.Usuario) error {
	if usuario.UsuarioID == "" {
		usuario.UsuarioID = uuid.New().String()
	}
	for _, u := range m.usuarios {
		if u.Email == usuario.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.usuarios[usuario.UsuarioID] = usuario
	return nil
}

func (m *mockUsuarioRepo) GetByID(_ context.Context, id string) (*model.Usuario, error) {
	if u, ok := m.usuarios[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUsuarioRepo) GetByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range m.usuarios {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUsuarioRepo) Directorio(_ context.Context) ([]model.Usuario, error) {
	var result []model.Usuario
	for _, u := range m.usuarios {
		if u.Activo {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UsuarioID < result[j].UsuarioID })
	return result, nil
}

// ── Mock SalaRepository ──

type mockSalaRepo struct {
	salas map[string]*model.Sala
}

func newMockSalaRepo() *mockSalaRepo {
	return &mockSalaRepo{salas: make(map[string]*model.Sala)}
}

func (m *mockSalaRepo) Crear(_ context.Context, sala *model.Sala) error {
	if sala.SalaID == "" {
		sala.SalaID = uuid.New().String()
	}
	for _, s := range m.salas {
		if s.Nombre == sala.Nombre {
			return gorm.ErrDuplicatedKey
		}
	}
	m.salas[sala.SalaID] = sala
	return nil
}

func (m *mockSalaRepo) GetByID(_ context.Context, id string) (*model.Sala, error) {
	if s, ok := m.salas[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSalaRepo) Listar(_ context.Context) ([]model.Sala, error) {
	var result []model.Sala
	for _, s := range m.salas {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Nombre < result[j].Nombre })
	return result, nil
}

func (m *mockSalaRepo) Actualizar(_ context.Context, sala *model.Sala) error {
	m.salas[sala.SalaID] = sala
	return nil
}

// ── Mock ReservaRepository ──

type mockReservaRepo struct {
	reservas map[string]*model.Reserva

	// errores inyectables por operación
	errBuscarSala    error
	errBuscarCamilla error
	errCrearLote     error
}

func newMockReservaRepo() *mockReservaRepo {
	return &mockReservaRepo{reservas: make(map[string]*model.Reserva)}
}

func (m *mockReservaRepo) CrearLote(_ context.Context, reservas []model.Reserva) error {
	if m.errCrearLote != nil {
		return m.errCrearLote
	}
	for i := range reservas {
		if reservas[i].ReservaID == "" {
			reservas[i].ReservaID = uuid.New().String()
		}
		copia := reservas[i]
		m.reservas[copia.ReservaID] = &copia
	}
	return nil
}

func (m *mockReservaRepo) GetByID(_ context.Context, id string) (*model.Reserva, error) {
	if r, ok := m.reservas[id]; ok {
		copia := *r
		return &copia, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReservaRepo) BuscarOcupantesSala(_ context.Context, salaID string, franjas []agenda.Franja) ([]model.Reserva, error) {
	if m.errBuscarSala != nil {
		return nil, m.errBuscarSala
	}
	var result []model.Reserva
	for _, r := range m.reservas {
		if r.SalaID != salaID || !r.Ocupante() {
			continue
		}
		for _, f := range franjas {
			if r.Inicio.Before(f.Fin) && f.Inicio.Before(r.Fin) {
				result = append(result, *r)
				break
			}
		}
	}
	return ordenadas(result), nil
}

func (m *mockReservaRepo) BuscarOcupantesCamilla(_ context.Context, franjas []agenda.Franja) ([]model.Reserva, error) {
	if m.errBuscarCamilla != nil {
		return nil, m.errBuscarCamilla
	}
	var result []model.Reserva
	for _, r := range m.reservas {
		if !r.UsaCamilla || !r.Ocupante() {
			continue
		}
		for _, f := range franjas {
			if r.Inicio.Before(f.Fin) && f.Inicio.Before(r.Fin) {
				result = append(result, *r)
				break
			}
		}
	}
	return ordenadas(result), nil
}

func (m *mockReservaRepo) Listar(_ context.Context, desde, hasta time.Time, usuarioID, salaID string) ([]model.Reserva, error) {
	var result []model.Reserva
	for _, r := range m.reservas {
		if r.Inicio.Before(desde) || !r.Inicio.Before(hasta) {
			continue
		}
		if usuarioID != "" && r.UsuarioID != usuarioID {
			continue
		}
		if salaID != "" && r.SalaID != salaID {
			continue
		}
		result = append(result, *r)
	}
	return ordenadas(result), nil
}

func (m *mockReservaRepo) ListarOcupantesRango(_ context.Context, desde, hasta time.Time) ([]model.Reserva, error) {
	var result []model.Reserva
	for _, r := range m.reservas {
		if r.Ocupante() && !r.Inicio.Before(desde) && r.Inicio.Before(hasta) {
			result = append(result, *r)
		}
	}
	return ordenadas(result), nil
}

func (m *mockReservaRepo) ListarPorUsuarioDesde(_ context.Context, usuarioID string, desde time.Time) ([]model.Reserva, error) {
	var result []model.Reserva
	for _, r := range m.reservas {
		if r.UsuarioID == usuarioID && r.Ocupante() && !r.Inicio.Before(desde) {
			result = append(result, *r)
		}
	}
	return ordenadas(result), nil
}

func (m *mockReservaRepo) Cancelar(_ context.Context, id string) error {
	return m.transicion(id, model.EstadoActiva, func(r *model.Reserva) {
		r.Estado = model.EstadoCancelada
	})
}

func (m *mockReservaRepo) Penalizar(_ context.Context, id string, limite time.Time) error {
	return m.transicion(id, model.EstadoActiva, func(r *model.Reserva) {
		r.Estado = model.EstadoPenalizada
		r.LimiteReprogramacion = &limite
	})
}

func (m *mockReservaRepo) MarcarReprogramada(_ context.Context, id string) error {
	r, ok := m.reservas[id]
	if !ok || r.Estado != model.EstadoPenalizada || r.Reprogramada {
		return pkgerrors.ErrOptimisticLock
	}
	r.Reprogramada = true
	return nil
}

func (m *mockReservaRepo) MarcarUtilizada(_ context.Context, id string) error {
	return m.transicion(id, model.EstadoActiva, func(r *model.Reserva) {
		r.Estado = model.EstadoUtilizada
	})
}

func (m *mockReservaRepo) CancelarSerieDesde(_ context.Context, serieID string, desde time.Time) (int64, error) {
	var n int64
	for _, r := range m.reservas {
		if r.SerieID != nil && *r.SerieID == serieID &&
			r.Estado == model.EstadoActiva && !r.Inicio.Before(desde) {
			r.Estado = model.EstadoCancelada
			n++
		}
	}
	return n, nil
}

func (m *mockReservaRepo) transicion(id, estadoDesde string, aplicar func(*model.Reserva)) error {
	r, ok := m.reservas[id]
	if !ok || r.Estado != estadoDesde {
		return pkgerrors.ErrOptimisticLock
	}
	aplicar(r)
	return nil
}

func ordenadas(reservas []model.Reserva) []model.Reserva {
	sort.Slice(reservas, func(i, j int) bool {
		if reservas[i].Inicio.Equal(reservas[j].Inicio) {
			return reservas[i].ReservaID < reservas[j].ReservaID
		}
		return reservas[i].Inicio.Before(reservas[j].Inicio)
	})
	return reservas
}

// ── Mock AccesoRepository ──

type mockAccesoRepo struct {
	registros []*model.RegistroAcceso
	errCrear  error
}

func newMockAccesoRepo() *mockAccesoRepo {
	return &mockAccesoRepo{}
}

func (m *mockAccesoRepo) Crear(_ context.Context, registro *model.RegistroAcceso) error {
	if m.errCrear != nil {
		return m.errCrear
	}
	if registro.RegistroID == "" {
		registro.RegistroID = uuid.New().String()
	}
	copia := *registro
	m.registros = append(m.registros, &copia)
	return nil
}

func (m *mockAccesoRepo) ListarRango(_ context.Context, desde, hasta time.Time) ([]model.RegistroAcceso, error) {
	var result []model.RegistroAcceso
	for _, r := range m.registros {
		if !r.Momento.Before(desde) && r.Momento.Before(hasta) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAccesoRepo) MarcarRevisado(_ context.Context, id string) error {
	for _, r := range m.registros {
		if r.RegistroID == id {
			r.Revisado = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock PagoRepository ──

type mockPagoRepo struct {
	pagos map[string]*model.Pago // clave: TransactionID
}

func newMockPagoRepo() *mockPagoRepo {
	return &mockPagoRepo{pagos: make(map[string]*model.Pago)}
}

func (m *mockPagoRepo) Crear(_ context.Context, pago *model.Pago) error {
	if _, ok := m.pagos[pago.TransactionID]; ok {
		return gorm.ErrDuplicatedKey
	}
	if pago.PagoID == "" {
		pago.PagoID = uuid.New().String()
	}
	m.pagos[pago.TransactionID] = pago
	return nil
}

func (m *mockPagoRepo) GetByTransactionID(_ context.Context, transactionID string) (*model.Pago, error) {
	if p, ok := m.pagos[transactionID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}
