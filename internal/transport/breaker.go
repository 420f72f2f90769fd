package transport

import (
	"sync"
	"time"
)

// The breaker guards the backend with the usual closed → open → half-open
// cycle: repeated transport failures trip it open, every call then fails
// fast until the wait elapses, and a single probe decides recovery.

type estadoBreaker int

const (
	breakerCerrado estadoBreaker = iota
	breakerAbierto
	breakerPrueba
)

func (e estadoBreaker) String() string {
	switch e {
	case breakerCerrado:
		return "cerrado"
	case breakerAbierto:
		return "abierto"
	case breakerPrueba:
		return "prueba"
	default:
		return "desconocido"
	}
}

type breaker struct {
	mu          sync.Mutex
	estado      estadoBreaker
	fallas      int
	aciertos    int
	ultimaFalla time.Time

	umbralFallas   int
	umbralAciertos int
	espera         time.Duration
}

func nuevoBreaker() *breaker {
	return &breaker{
		umbralFallas:   5,
		umbralAciertos: 2,
		espera:         30 * time.Second,
	}
}

// permitir reports whether a request may go out, moving abierto → prueba
// once the wait has elapsed.
func (b *breaker) permitir() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.estado == breakerAbierto && time.Since(b.ultimaFalla) >= b.espera {
		b.estado = breakerPrueba
		b.aciertos = 0
	}
	return b.estado != breakerAbierto
}

// registrar records the outcome of a request that was allowed out.
func (b *breaker) registrar(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !ok {
		b.fallas++
		b.ultimaFalla = time.Now()
		switch b.estado {
		case breakerCerrado:
			if b.fallas >= b.umbralFallas {
				b.estado = breakerAbierto
				b.aciertos = 0
			}
		case breakerPrueba:
			// probe failed, back to open
			b.estado = breakerAbierto
			b.fallas = 0
		}
		return
	}

	switch b.estado {
	case breakerCerrado:
		b.fallas = 0
	case breakerPrueba:
		b.aciertos++
		if b.aciertos >= b.umbralAciertos {
			b.estado = breakerCerrado
			b.fallas = 0
			b.aciertos = 0
		}
	}
}

// Estado expone el estado actual (para logs y diagnóstico).
func (b *breaker) Estado() estadoBreaker {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.estado
}
