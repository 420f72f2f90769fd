package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/envelope"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/model"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/transport"
)

// The daily-menu resource keeps the backend's historical casing.
const (
	rutaMenuDias      = "/Menu_Dias"
	rutaMenuProductos = "/Menu_dias_Productos/menu-dias"
)

type CrearMenuDia struct {
	Nombre      string      `json:"nombre" validate:"required"`
	Fecha       model.Fecha `json:"fecha"`
	Descripcion string      `json:"descripcion,omitempty"`
	Activo      bool        `json:"activo"`
}

type ActualizarMenuDia struct {
	Nombre      *string      `json:"nombre,omitempty"`
	Fecha       *model.Fecha `json:"fecha,omitempty"`
	Descripcion *string      `json:"descripcion,omitempty"`
	Activo      *bool        `json:"activo,omitempty"`
}

// MenuDias owns the daily-menu collection and the product assignments of
// each menu.
type MenuDias struct {
	api    *transport.Client
	logger zerolog.Logger

	mu  sync.Mutex
	col coleccion[model.MenuDia]
}

func NuevosMenuDias(api *transport.Client, logger zerolog.Logger) *MenuDias {
	return &MenuDias{api: api, logger: logger}
}

func (s *MenuDias) Cargar(ctx context.Context) error {
	return cargarLista(ctx, s.api, rutaMenuDias, &s.col)
}

func (s *MenuDias) Items() []model.MenuDia { return s.col.Items() }
func (s *MenuDias) Cargando() bool         { return s.col.Cargando() }
func (s *MenuDias) UltimoError() string    { return s.col.UltimoError() }

func (s *MenuDias) Crear(ctx context.Context, req CrearMenuDia) Resultado {
	if err := model.Validar(&req); err != nil {
		return fallo(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.api.Post(ctx, rutaMenuDias, req)
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de menús fallido tras crear")
	}
	return exito(body)
}

func (s *MenuDias) Actualizar(ctx context.Context, id int64, req ActualizarMenuDia) Resultado {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.api.Put(ctx, fmt.Sprintf("%s/%d", rutaMenuDias, id), req)
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de menús fallido tras actualizar")
	}
	return exito(body)
}

func (s *MenuDias) Eliminar(ctx context.Context, id int64) Resultado {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", rutaMenuDias, id))
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de menús fallido tras eliminar")
	}
	return exito(body)
}

// AsignarProductos replaces a menu's product entries in one call. Each entry
// may carry a precio_especial, the only per-menu price override.
func (s *MenuDias) AsignarProductos(ctx context.Context, menuID int64, entradas []model.MenuProducto) Resultado {
	for _, e := range entradas {
		if err := model.Validar(&e); err != nil {
			return fallo(err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payload := map[string]any{"productos": entradas}
	body, err := s.api.Post(ctx, fmt.Sprintf("%s/%d/productos/multiples", rutaMenuProductos, menuID), payload)
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de menús fallido tras asignar productos")
	}
	return exito(body)
}

// ProductosDelMenu fetches a menu's entries; it does not touch store state.
func (s *MenuDias) ProductosDelMenu(ctx context.Context, menuID int64) ([]model.MenuProducto, error) {
	body, err := s.api.Get(ctx, fmt.Sprintf("%s/%d/productos", rutaMenuProductos, menuID))
	if err != nil {
		return nil, err
	}
	return envelope.DecodificarLista[model.MenuProducto](body)
}

func (s *MenuDias) Filtrar(busqueda string, estado EstadoFiltro) []model.MenuDia {
	items := s.col.Items()
	out := items[:0]
	for _, m := range items {
		if !estado.acepta(m.Activo.Bool()) {
			continue
		}
		if !coincide(busqueda, m.Nombre, m.Descripcion, m.DiaSemana) {
			continue
		}
		out = append(out, m)
	}
	ordenar(out,
		func(m model.MenuDia) bool { return m.Activo.Bool() },
		func(m model.MenuDia) string { return m.Nombre })
	return out
}

// DelDia returns the menus scheduled for a given date.
func (s *MenuDias) DelDia(fecha model.Fecha) []model.MenuDia {
	var out []model.MenuDia
	for _, m := range s.col.Items() {
		if m.Fecha.MismoDia(fecha) {
			out = append(out, m)
		}
	}
	return out
}

type EstadisticasMenuDias struct {
	Total         int
	Activos       int
	Inactivos     int
	ConProductos  int
	VentasTotales decimal.Decimal
}

func (s *MenuDias) Estadisticas() EstadisticasMenuDias {
	e := EstadisticasMenuDias{VentasTotales: decimal.Zero}
	for _, m := range s.col.Items() {
		e.Total++
		if m.Activo.Bool() {
			e.Activos++
		} else {
			e.Inactivos++
		}
		if m.TotalProductos > 0 {
			e.ConProductos++
		}
		e.VentasTotales = e.VentasTotales.Add(m.TotalVentas)
	}
	return e
}
