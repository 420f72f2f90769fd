package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/apierror"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/envelope"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/model"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/session"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/transport"
)

// ActualizarPerfil carries the profile fields a customer may edit; the role
// stays backend-assigned.
type ActualizarPerfil struct {
	Nombre   *string `json:"nombre,omitempty"`
	Email    *string `json:"email,omitempty"`
	Telefono *string `json:"telefono,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Cliente owns the authenticated user's own view: profile plus order
// history. It is the only store coupled to the session, because "who am I"
// decides which resources it reads.
type Cliente struct {
	api    *transport.Client
	sesion *session.Sesion
	logger zerolog.Logger

	mu sync.Mutex

	st     sync.RWMutex
	perfil *model.Usuario

	pedidos coleccion[model.Pedido]
}

func NuevoCliente(api *transport.Client, sesion *session.Sesion, logger zerolog.Logger) *Cliente {
	return &Cliente{api: api, sesion: sesion, logger: logger}
}

func (c *Cliente) usuarioID() (int64, error) {
	u := c.sesion.Usuario()
	if u == nil {
		return 0, apierror.ErrSesionExpirada
	}
	return u.ID, nil
}

// CargarPerfil fetches the authenticated user's record and refreshes the
// session's copy with it.
func (c *Cliente) CargarPerfil(ctx context.Context) error {
	id, err := c.usuarioID()
	if err != nil {
		return err
	}
	body, err := c.api.Get(ctx, fmt.Sprintf("%s/%d", rutaUsuarios, id))
	if err != nil {
		return err
	}
	u, err := envelope.DecodificarObjeto[model.Usuario](body)
	if err != nil {
		return fmt.Errorf("%w: %v", apierror.ErrRespuestaIncompleta, err)
	}
	if err := model.Validar(&u); err != nil {
		return fmt.Errorf("%w: %v", apierror.ErrRespuestaIncompleta, err)
	}

	c.st.Lock()
	c.perfil = &u
	c.st.Unlock()

	return c.sesion.ActualizarUsuario(u)
}

// Perfil returns a copy of the loaded profile, or nil.
func (c *Cliente) Perfil() *model.Usuario {
	c.st.RLock()
	defer c.st.RUnlock()
	if c.perfil == nil {
		return nil
	}
	u := *c.perfil
	return &u
}

// ActualizarPerfil edits the profile and resyncs it from the server.
func (c *Cliente) ActualizarPerfil(ctx context.Context, req ActualizarPerfil) Resultado {
	id, err := c.usuarioID()
	if err != nil {
		return fallo(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	body, err := c.api.Put(ctx, fmt.Sprintf("%s/%d", rutaUsuarios, id), req)
	if err != nil {
		return fallo(err)
	}
	if err := c.CargarPerfil(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("resync de perfil fallido tras actualizar")
	}
	return exito(body)
}

// CargarPedidos loads the authenticated user's own order history.
func (c *Cliente) CargarPedidos(ctx context.Context) error {
	id, err := c.usuarioID()
	if err != nil {
		c.pedidos.fallar(apierror.Mensaje(err))
		return err
	}
	return cargarLista(ctx, c.api, fmt.Sprintf("%s?cliente_id=%d", rutaPedidos, id), &c.pedidos)
}

func (c *Cliente) Pedidos() []model.Pedido    { return c.pedidos.Items() }
func (c *Cliente) PedidosCargando() bool      { return c.pedidos.Cargando() }
func (c *Cliente) PedidosUltimoError() string { return c.pedidos.UltimoError() }

// PedidoActivo returns the customer's most recent non-terminal order.
func (c *Cliente) PedidoActivo() (model.Pedido, bool) {
	var activo model.Pedido
	encontrado := false
	for _, p := range c.pedidos.Items() {
		if p.Estado.EsTerminal() {
			continue
		}
		if !encontrado || p.FechaPedido.After(activo.FechaPedido.Time) {
			activo = p
			encontrado = true
		}
	}
	return activo, encontrado
}
