// Package store implements one collection store per backend resource:
// load, create, update, delete, derived filtering and derived statistics.
// Every store treats the server as the sole source of truth: a successful
// mutation always triggers a full reload instead of patching local state,
// so the in-memory copy never shows a client-fabricated entity shape.
// Mutations serialize behind a per-store mutex (the mutation and its resync
// run as one critical section), so rapid duplicate actions cannot race.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/apierror"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/envelope"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/transport"
)

// Resultado is the outcome shape every mutation returns: callers render
// inline errors from it instead of handling panics or raw transport errors.
type Resultado struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func exito(data []byte) Resultado {
	return Resultado{Success: true, Data: data}
}

func fallo(err error) Resultado {
	return Resultado{Success: false, Error: apierror.Mensaje(err)}
}

func falloMensaje(msg string) Resultado {
	return Resultado{Success: false, Error: msg}
}

// EstadoFiltro partitions a collection on the coerced active/available flag.
type EstadoFiltro int

const (
	FiltroTodos EstadoFiltro = iota
	FiltroActivos
	FiltroInactivos
)

func (f EstadoFiltro) acepta(activo bool) bool {
	switch f {
	case FiltroActivos:
		return activo
	case FiltroInactivos:
		return !activo
	default:
		return true
	}
}

// coincide reports whether busqueda is contained, case-insensitively, in any
// of the given fields. An empty search matches everything.
func coincide(busqueda string, campos ...string) bool {
	b := strings.ToLower(strings.TrimSpace(busqueda))
	if b == "" {
		return true
	}
	for _, campo := range campos {
		if strings.Contains(strings.ToLower(campo), b) {
			return true
		}
	}
	return false
}

// ordenar sorts active entities first, then alphabetically by name,
// case-insensitively. Ties keep their relative order.
func ordenar[T any](items []T, activo func(T) bool, nombre func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ai, aj := activo(items[i]), activo(items[j])
		if ai != aj {
			return ai
		}
		return strings.ToLower(nombre(items[i])) < strings.ToLower(nombre(items[j]))
	})
}

// coleccion is the guarded in-memory copy of one remote collection plus the
// loading/error pair every page renders from.
type coleccion[T any] struct {
	st          sync.RWMutex
	items       []T
	cargando    bool
	ultimoError string
}

func (c *coleccion[T]) Items() []T {
	c.st.RLock()
	defer c.st.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *coleccion[T]) Cargando() bool {
	c.st.RLock()
	defer c.st.RUnlock()
	return c.cargando
}

func (c *coleccion[T]) UltimoError() string {
	c.st.RLock()
	defer c.st.RUnlock()
	return c.ultimoError
}

func (c *coleccion[T]) empezar() {
	c.st.Lock()
	c.cargando = true
	c.st.Unlock()
}

func (c *coleccion[T]) reemplazar(items []T) {
	c.st.Lock()
	c.items = items
	c.cargando = false
	c.ultimoError = ""
	c.st.Unlock()
}

func (c *coleccion[T]) fallar(msg string) {
	c.st.Lock()
	c.items = nil
	c.cargando = false
	c.ultimoError = msg
	c.st.Unlock()
}

// cargarLista GETs a collection, normalizes it through the envelope fallback
// chain and replaces the store's state. On failure the collection empties
// and the extracted message lands in UltimoError.
func cargarLista[T any](ctx context.Context, api *transport.Client, ruta string, col *coleccion[T]) error {
	col.empezar()
	body, err := api.Get(ctx, ruta)
	if err != nil {
		col.fallar(apierror.Mensaje(err))
		return err
	}
	items, err := envelope.DecodificarLista[T](body)
	if err != nil {
		err = fmt.Errorf("respuesta ilegible de %s: %w", ruta, err)
		col.fallar(err.Error())
		return err
	}
	col.reemplazar(items)
	return nil
}
