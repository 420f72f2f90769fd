// Package apierror defines the client-observable error taxonomy for calls
// against the backend API. Every failure a caller can see goes through this
// package so that user-facing messages stay consistent and transport details
// (status codes, raw bodies) never leak past the SDK boundary unformatted.
package apierror

import (
	"errors"
	"net/http"
)

// ErrConexion covers every failure where no usable response arrived:
// refused connections, DNS failures, timeouts, open circuit breaker.
var ErrConexion = errors.New("No se pudo conectar con el servidor")

// ErrSesionExpirada is returned for any 401; by the time a caller sees it
// the session teardown hook has already run.
var ErrSesionExpirada = errors.New("Sesión expirada, inicie sesión nuevamente")

// ErrRespuestaIncompleta marks a 2xx response whose body is missing fields
// the contract requires (e.g. a login response without token or usuario).
var ErrRespuestaIncompleta = errors.New("Respuesta del servidor incompleta")

// HTTPError is a 4xx/5xx response carrying the message extracted from the
// server's envelope (message → error → default), verbatim.
type HTTPError struct {
	Status  int
	Mensaje string
}

func (e *HTTPError) Error() string { return e.Mensaje }

// NewHTTP builds an HTTPError, substituting a generic message when the
// server sent none.
func NewHTTP(status int, mensaje string) *HTTPError {
	if mensaje == "" {
		mensaje = http.StatusText(status)
	}
	return &HTTPError{Status: status, Mensaje: mensaje}
}

// Estado returns the HTTP status carried by err, or 0 when err is not an
// HTTPError (network failures have no status).
func Estado(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}

// EsConflicto reports whether err is a validation/conflict rejection, the
// class that deserves a domain-specific message (e.g. deleting a category
// that still has products).
func EsConflicto(err error) bool {
	s := Estado(err)
	return s == http.StatusBadRequest || s == http.StatusConflict
}

// EsNoAutorizado reports whether err came from a 401.
func EsNoAutorizado(err error) bool {
	return errors.Is(err, ErrSesionExpirada) || Estado(err) == http.StatusUnauthorized
}

// Mensaje extracts the user-facing text from any SDK error.
func Mensaje(err error) string {
	if err == nil {
		return ""
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Mensaje
	}
	return err.Error()
}
