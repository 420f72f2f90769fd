// Package worker runs background reloads of the collection stores, so that
// dashboards keep reflecting backend state between user actions.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Recarga reloads one collection from the backend.
type Recarga func(ctx context.Context) error

type tarea struct {
	nombre string
	fn     Recarga
}

// Refrescador re-runs every registered reload on a fixed interval. Each
// task gets its own goroutine so a slow collection never delays the others.
type Refrescador struct {
	mu        sync.Mutex
	tareas    []tarea
	intervalo time.Duration
}

func NuevoRefrescador(intervalo time.Duration) *Refrescador {
	return &Refrescador{intervalo: intervalo}
}

// Registrar adds a reload task; call before Iniciar.
func (r *Refrescador) Registrar(nombre string, fn Recarga) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tareas = append(r.tareas, tarea{nombre: nombre, fn: fn})
}

// Iniciar launches the refresh goroutines; they stop when ctx is cancelled.
// A zero interval disables refreshing entirely.
func (r *Refrescador) Iniciar(ctx context.Context) {
	if r.intervalo <= 0 {
		return
	}
	r.mu.Lock()
	tareas := make([]tarea, len(r.tareas))
	copy(tareas, r.tareas)
	r.mu.Unlock()

	for _, t := range tareas {
		go r.correr(ctx, t)
	}
	log.Info().Int("tareas", len(tareas)).Dur("intervalo", r.intervalo).Msg("refrescador iniciado")
}

func (r *Refrescador) correr(ctx context.Context, t tarea) {
	ticker := time.NewTicker(r.intervalo)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("tarea", t.nombre).Msg("refrescador detenido")
			return
		case <-ticker.C:
			if err := t.fn(ctx); err != nil {
				// next tick retries; the store already holds the error state
				log.Warn().Str("tarea", t.nombre).Err(err).Msg("recarga fallida")
			}
		}
	}
}
