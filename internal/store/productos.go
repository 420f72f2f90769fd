package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/model"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/transport"
)

const rutaProductos = "/productos"

// CrearProducto is the creation payload. Booleans go out as clean JSON
// bools regardless of how the server spelled them when reading.
type CrearProducto struct {
	Nombre      string          `json:"nombre" validate:"required"`
	Descripcion string          `json:"descripcion,omitempty"`
	Precio      decimal.Decimal `json:"precio" validate:"required,gt=0"`
	CategoriaID int64           `json:"categoria_id" validate:"required"`
	Disponible  bool            `json:"disponible"`
	Destacado   bool            `json:"destacado"`
	Imagen      string          `json:"imagen,omitempty" validate:"omitempty,url"`
}

type ActualizarProducto struct {
	Nombre      *string          `json:"nombre,omitempty"`
	Descripcion *string          `json:"descripcion,omitempty"`
	Precio      *decimal.Decimal `json:"precio,omitempty"`
	CategoriaID *int64           `json:"categoria_id,omitempty"`
	Disponible  *bool            `json:"disponible,omitempty"`
	Destacado   *bool            `json:"destacado,omitempty"`
	Imagen      *string          `json:"imagen,omitempty"`
}

// Productos owns the product catalog collection.
type Productos struct {
	api    *transport.Client
	logger zerolog.Logger

	mu  sync.Mutex
	col coleccion[model.Producto]
}

func NuevosProductos(api *transport.Client, logger zerolog.Logger) *Productos {
	return &Productos{api: api, logger: logger}
}

func (s *Productos) Cargar(ctx context.Context) error {
	return cargarLista(ctx, s.api, rutaProductos, &s.col)
}

func (s *Productos) Items() []model.Producto { return s.col.Items() }
func (s *Productos) Cargando() bool          { return s.col.Cargando() }
func (s *Productos) UltimoError() string     { return s.col.UltimoError() }

func (s *Productos) Crear(ctx context.Context, req CrearProducto) Resultado {
	if err := model.Validar(&req); err != nil {
		return fallo(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.api.Post(ctx, rutaProductos, req)
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de productos fallido tras crear")
	}
	return exito(body)
}

func (s *Productos) Actualizar(ctx context.Context, id int64, req ActualizarProducto) Resultado {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.api.Put(ctx, fmt.Sprintf("%s/%d", rutaProductos, id), req)
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de productos fallido tras actualizar")
	}
	return exito(body)
}

func (s *Productos) Eliminar(ctx context.Context, id int64) Resultado {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", rutaProductos, id))
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de productos fallido tras eliminar")
	}
	return exito(body)
}

// PorCategoria returns the products of one category, available first.
func (s *Productos) PorCategoria(categoriaID int64) []model.Producto {
	items := s.col.Items()
	out := items[:0]
	for _, p := range items {
		if p.CategoriaID == categoriaID {
			out = append(out, p)
		}
	}
	ordenar(out,
		func(p model.Producto) bool { return p.Disponible.Bool() },
		func(p model.Producto) string { return p.Nombre })
	return out
}

func (s *Productos) Filtrar(busqueda string, estado EstadoFiltro) []model.Producto {
	items := s.col.Items()
	out := items[:0]
	for _, p := range items {
		if !estado.acepta(p.Disponible.Bool()) {
			continue
		}
		if !coincide(busqueda, p.Nombre, p.Descripcion) {
			continue
		}
		out = append(out, p)
	}
	ordenar(out,
		func(p model.Producto) bool { return p.Disponible.Bool() },
		func(p model.Producto) string { return p.Nombre })
	return out
}

type EstadisticasProductos struct {
	Total         int
	Disponibles   int
	NoDisponibles int
	Destacados    int
	ValorCatalogo decimal.Decimal // suma de precios base
}

func (s *Productos) Estadisticas() EstadisticasProductos {
	e := EstadisticasProductos{ValorCatalogo: decimal.Zero}
	for _, p := range s.col.Items() {
		e.Total++
		if p.Disponible.Bool() {
			e.Disponibles++
		} else {
			e.NoDisponibles++
		}
		if p.Destacado.Bool() {
			e.Destacados++
		}
		e.ValorCatalogo = e.ValorCatalogo.Add(p.Precio)
	}
	return e
}
