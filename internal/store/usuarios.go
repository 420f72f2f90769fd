package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/model"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/transport"
)

// The user resource keeps the backend's historical casing.
const rutaUsuarios = "/Usuarios"

type CrearUsuario struct {
	Nombre   string    `json:"nombre" validate:"required"`
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required,min=6"`
	Rol      model.Rol `json:"rol" validate:"required"`
	Telefono string    `json:"telefono,omitempty"`
}

type ActualizarUsuario struct {
	Nombre   *string    `json:"nombre,omitempty"`
	Email    *string    `json:"email,omitempty"`
	Password *string    `json:"password,omitempty"`
	Rol      *model.Rol `json:"rol,omitempty"`
	Telefono *string    `json:"telefono,omitempty"`
	Activo   *bool      `json:"activo,omitempty"`
}

// Usuarios owns the user-administration collection.
type Usuarios struct {
	api    *transport.Client
	logger zerolog.Logger

	mu  sync.Mutex
	col coleccion[model.Usuario]
}

func NuevosUsuarios(api *transport.Client, logger zerolog.Logger) *Usuarios {
	return &Usuarios{api: api, logger: logger}
}

func (s *Usuarios) Cargar(ctx context.Context) error {
	return cargarLista(ctx, s.api, rutaUsuarios, &s.col)
}

func (s *Usuarios) Items() []model.Usuario { return s.col.Items() }
func (s *Usuarios) Cargando() bool         { return s.col.Cargando() }
func (s *Usuarios) UltimoError() string    { return s.col.UltimoError() }

func (s *Usuarios) Crear(ctx context.Context, req CrearUsuario) Resultado {
	if err := model.Validar(&req); err != nil {
		return fallo(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.api.Post(ctx, rutaUsuarios, req)
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de usuarios fallido tras crear")
	}
	return exito(body)
}

func (s *Usuarios) Actualizar(ctx context.Context, id int64, req ActualizarUsuario) Resultado {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.api.Put(ctx, fmt.Sprintf("%s/%d", rutaUsuarios, id), req)
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de usuarios fallido tras actualizar")
	}
	return exito(body)
}

func (s *Usuarios) Eliminar(ctx context.Context, id int64) Resultado {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", rutaUsuarios, id))
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de usuarios fallido tras eliminar")
	}
	return exito(body)
}

func (s *Usuarios) Filtrar(busqueda string, estado EstadoFiltro) []model.Usuario {
	items := s.col.Items()
	out := items[:0]
	for _, u := range items {
		if !estado.acepta(u.Activo.Bool()) {
			continue
		}
		if !coincide(busqueda, u.Nombre, u.Email) {
			continue
		}
		out = append(out, u)
	}
	ordenar(out,
		func(u model.Usuario) bool { return u.Activo.Bool() },
		func(u model.Usuario) string { return u.Nombre })
	return out
}

type EstadisticasUsuarios struct {
	Total     int
	Activos   int
	Inactivos int
	PorRol    map[model.Rol]int
}

func (s *Usuarios) Estadisticas() EstadisticasUsuarios {
	e := EstadisticasUsuarios{PorRol: make(map[model.Rol]int)}
	for _, u := range s.col.Items() {
		e.Total++
		if u.Activo.Bool() {
			e.Activos++
		} else {
			e.Inactivos++
		}
		e.PorRol[u.Rol]++
	}
	return e
}
