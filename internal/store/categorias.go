package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/apierror"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/model"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/transport"
)

const rutaCategorias = "/categorias"

// MensajeCategoriaConProductos replaces the server's raw conflict text when
// deleting a category that still has products.
const MensajeCategoriaConProductos = "No se puede eliminar una categoría con productos asociados"

// CrearCategoria is the creation payload.
type CrearCategoria struct {
	Nombre      string `json:"nombre" validate:"required"`
	Descripcion string `json:"descripcion,omitempty"`
	Activo      bool   `json:"activo"`
}

// ActualizarCategoria carries only the fields being changed.
type ActualizarCategoria struct {
	Nombre      *string `json:"nombre,omitempty"`
	Descripcion *string `json:"descripcion,omitempty"`
	Activo      *bool   `json:"activo,omitempty"`
}

// Categorias owns the product-category collection.
type Categorias struct {
	api    *transport.Client
	logger zerolog.Logger

	mu  sync.Mutex // serializes mutations and their resync
	col coleccion[model.Categoria]
}

func NuevasCategorias(api *transport.Client, logger zerolog.Logger) *Categorias {
	return &Categorias{api: api, logger: logger}
}

func (s *Categorias) Cargar(ctx context.Context) error {
	return cargarLista(ctx, s.api, rutaCategorias, &s.col)
}

func (s *Categorias) Items() []model.Categoria { return s.col.Items() }
func (s *Categorias) Cargando() bool           { return s.col.Cargando() }
func (s *Categorias) UltimoError() string      { return s.col.UltimoError() }

func (s *Categorias) Crear(ctx context.Context, req CrearCategoria) Resultado {
	if err := model.Validar(&req); err != nil {
		return fallo(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.api.Post(ctx, rutaCategorias, req)
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de categorías fallido tras crear")
	}
	return exito(body)
}

func (s *Categorias) Actualizar(ctx context.Context, id int64, req ActualizarCategoria) Resultado {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.api.Put(ctx, fmt.Sprintf("%s/%d", rutaCategorias, id), req)
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de categorías fallido tras actualizar")
	}
	return exito(body)
}

// Eliminar deletes a category. A category that still has products is
// rejected before any network call; the backend enforces the same rule with
// a 400, which gets the domain message instead of the raw server text.
func (s *Categorias) Eliminar(ctx context.Context, id int64) Resultado {
	for _, c := range s.col.Items() {
		if c.ID == id && !c.Eliminable() {
			return falloMensaje(MensajeCategoriaConProductos)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", rutaCategorias, id))
	if err != nil {
		if apierror.EsConflicto(err) {
			return falloMensaje(MensajeCategoriaConProductos)
		}
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de categorías fallido tras eliminar")
	}
	return exito(body)
}

// Filtrar is a pure function of the current collection: case-insensitive
// substring match on nombre/descripcion, status partition on the coerced
// bool, active first then alphabetical.
func (s *Categorias) Filtrar(busqueda string, estado EstadoFiltro) []model.Categoria {
	items := s.col.Items()
	out := items[:0]
	for _, c := range items {
		if !estado.acepta(c.Activo.Bool()) {
			continue
		}
		if !coincide(busqueda, c.Nombre, c.Descripcion) {
			continue
		}
		out = append(out, c)
	}
	ordenar(out,
		func(c model.Categoria) bool { return c.Activo.Bool() },
		func(c model.Categoria) string { return c.Nombre })
	return out
}

// EstadisticasCategorias are aggregates over the full collection, not the
// filtered view.
type EstadisticasCategorias struct {
	Total          int
	Activas        int
	Inactivas      int
	ConProductos   int
	TotalProductos int
}

func (s *Categorias) Estadisticas() EstadisticasCategorias {
	var e EstadisticasCategorias
	for _, c := range s.col.Items() {
		e.Total++
		if c.Activo.Bool() {
			e.Activas++
		} else {
			e.Inactivas++
		}
		if c.TotalProductos > 0 {
			e.ConProductos++
		}
		e.TotalProductos += c.TotalProductos
	}
	return e
}
