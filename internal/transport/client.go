// Package transport is the single configured HTTP client every store and the
// session use to reach the backend. It owns the base URL, the fixed request
// timeout, bearer-token injection and the forced session teardown on 401.
// It never retries: network failures and error responses both surface as
// errors to the caller.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/apierror"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/envelope"
)

// TokenProvider supplies the bearer token for outgoing requests; an empty
// string means the request goes out unauthenticated.
type TokenProvider interface {
	Token() string
}

// Opciones configures a Client.
type Opciones struct {
	BaseURL string
	Timeout time.Duration // defaults to 15s
	Logger  zerolog.Logger
}

// Client wraps net/http with the backend's conventions.
type Client struct {
	baseURL string
	hc      *http.Client
	breaker *breaker
	logger  zerolog.Logger

	mu             sync.RWMutex
	tokens         TokenProvider
	onNoAutorizado func()
}

func New(op Opciones) *Client {
	if op.Timeout <= 0 {
		op.Timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(op.BaseURL, "/"),
		hc:      &http.Client{Timeout: op.Timeout},
		breaker: nuevoBreaker(),
		logger:  op.Logger,
	}
}

// SetTokenProvider wires the session in as the token source.
func (c *Client) SetTokenProvider(tp TokenProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = tp
}

// SetOnNoAutorizado registers the hook invoked on every 401 response, before
// the error propagates to the caller. The session registers its own teardown
// here; the client itself clears nothing.
func (c *Client) SetOnNoAutorizado(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onNoAutorizado = fn
}

func (c *Client) Get(ctx context.Context, ruta string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, ruta, nil)
}

func (c *Client) Post(ctx context.Context, ruta string, payload any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, ruta, payload)
}

func (c *Client) Put(ctx context.Context, ruta string, payload any) ([]byte, error) {
	return c.do(ctx, http.MethodPut, ruta, payload)
}

func (c *Client) Delete(ctx context.Context, ruta string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, ruta, nil)
}

func (c *Client) do(ctx context.Context, metodo, ruta string, payload any) ([]byte, error) {
	if !c.breaker.permitir() {
		return nil, fmt.Errorf("%w (circuito %s)", apierror.ErrConexion, c.breaker.Estado())
	}

	var cuerpo io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("transport: marshal payload: %w", err)
		}
		cuerpo = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, metodo, c.baseURL+ruta, cuerpo)
	if err != nil {
		return nil, fmt.Errorf("transport: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	c.mu.RLock()
	tokens := c.tokens
	c.mu.RUnlock()
	if tokens != nil {
		if t := tokens.Token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}

	inicio := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.breaker.registrar(false)
		c.logger.Error().
			Str("request_id", requestID).
			Str("method", metodo).
			Str("path", ruta).
			Dur("latency", time.Since(inicio)).
			Err(err).
			Msg("request fallida")
		return nil, fmt.Errorf("%w: %v", apierror.ErrConexion, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.registrar(false)
		return nil, fmt.Errorf("%w: %v", apierror.ErrConexion, err)
	}

	// 5xx counts against the breaker; 4xx is the caller's problem.
	c.breaker.registrar(resp.StatusCode < http.StatusInternalServerError)

	c.logger.Info().
		Str("request_id", requestID).
		Str("method", metodo).
		Str("path", ruta).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(inicio)).
		Msg("request")

	if resp.StatusCode == http.StatusUnauthorized {
		c.mu.RLock()
		teardown := c.onNoAutorizado
		c.mu.RUnlock()
		if teardown != nil {
			teardown()
		}
		return nil, apierror.ErrSesionExpirada
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, apierror.NewHTTP(resp.StatusCode, envelope.MensajeError(body, resp.Status))
	}

	return body, nil
}
