package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/envelope"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/model"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/transport"
)

const rutaPedidos = "/pedidos"

// MensajeTransicionInvalida rejects state moves the lifecycle forbids,
// before any network call.
const MensajeTransicionInvalida = "El pedido no admite ese cambio de estado"

// DetalleNuevo is one line of a new order; prices come back from the server.
type DetalleNuevo struct {
	ProductoID int64 `json:"producto_id" validate:"required"`
	Cantidad   int   `json:"cantidad" validate:"required,gt=0"`
}

// CrearPedido is the order-creation payload. NumeroMesa takes a table
// number or the literal "Delivery".
type CrearPedido struct {
	ClienteNombre   string         `json:"cliente_nombre" validate:"required"`
	ClienteTelefono string         `json:"cliente_telefono,omitempty"`
	NumeroMesa      string         `json:"numero_mesa" validate:"required"`
	Ubicacion       string         `json:"ubicacion,omitempty"`
	Notas           string         `json:"notas,omitempty"`
	Detalles        []DetalleNuevo `json:"detalles" validate:"required,min=1,dive"`
}

// Pedidos owns the order collection and its lifecycle operations.
type Pedidos struct {
	api    *transport.Client
	logger zerolog.Logger

	mu  sync.Mutex
	col coleccion[model.Pedido]
}

func NuevosPedidos(api *transport.Client, logger zerolog.Logger) *Pedidos {
	return &Pedidos{api: api, logger: logger}
}

func (s *Pedidos) Cargar(ctx context.Context) error {
	return cargarLista(ctx, s.api, rutaPedidos, &s.col)
}

func (s *Pedidos) Items() []model.Pedido { return s.col.Items() }
func (s *Pedidos) Cargando() bool        { return s.col.Cargando() }
func (s *Pedidos) UltimoError() string   { return s.col.UltimoError() }

// Pedido returns the local copy of one order, when present.
func (s *Pedidos) Pedido(id int64) (model.Pedido, bool) {
	for _, p := range s.col.Items() {
		if p.ID == id {
			return p, true
		}
	}
	return model.Pedido{}, false
}

func (s *Pedidos) Crear(ctx context.Context, req CrearPedido) Resultado {
	if err := model.Validar(&req); err != nil {
		return fallo(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.api.Post(ctx, rutaPedidos, req)
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de pedidos fallido tras crear")
	}
	return exito(body)
}

// CambiarEstado moves an order strictly forward along the lifecycle. A move
// the local copy already knows to be illegal is rejected without a request.
func (s *Pedidos) CambiarEstado(ctx context.Context, id int64, nuevo model.EstadoPedido) Resultado {
	if !nuevo.Valido() {
		return falloMensaje(MensajeTransicionInvalida)
	}
	if p, ok := s.Pedido(id); ok && !p.Estado.PuedeCambiarA(nuevo) {
		return falloMensaje(MensajeTransicionInvalida)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payload := map[string]model.EstadoPedido{"estado": nuevo}
	body, err := s.api.Put(ctx, fmt.Sprintf("%s/%d/estado", rutaPedidos, id), payload)
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de pedidos fallido tras cambiar estado")
	}
	return exito(body)
}

// Cancelar cancels an order through its dedicated endpoint. Orders already
// delivered or cancelled are rejected locally; any server rejection surfaces
// with the server's message verbatim and leaves the local list unchanged.
func (s *Pedidos) Cancelar(ctx context.Context, id int64) Resultado {
	if p, ok := s.Pedido(id); ok && p.Estado.EsTerminal() {
		return falloMensaje(MensajeTransicionInvalida)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.api.Put(ctx, fmt.Sprintf("%s/%d/cancelar", rutaPedidos, id), nil)
	if err != nil {
		return fallo(err)
	}
	if err := s.Cargar(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("resync de pedidos fallido tras cancelar")
	}
	return exito(body)
}

// Eliminar is a soft delete: orders are never removed from the backend, the
// cancel transition is the deletion the UI offers.
func (s *Pedidos) Eliminar(ctx context.Context, id int64) Resultado {
	return s.Cancelar(ctx, id)
}

// Filtrar is pure: substring match on numero_pedido, cliente and mesa,
// optional estado filter, newest first.
func (s *Pedidos) Filtrar(busqueda string, estado model.EstadoPedido) []model.Pedido {
	items := s.col.Items()
	out := items[:0]
	for _, p := range items {
		if estado != "" && p.Estado != estado {
			continue
		}
		if !coincide(busqueda, p.NumeroPedido, p.ClienteNombre, p.NumeroMesa) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].FechaPedido.Equal(out[j].FechaPedido.Time) {
			return out[i].FechaPedido.After(out[j].FechaPedido.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// EstadisticasPedidos are local aggregates over the full collection.
type EstadisticasPedidos struct {
	Total          int
	PorEstado      map[model.EstadoPedido]int
	Activos        int // no terminales
	VentasTotales  decimal.Decimal
	TicketPromedio decimal.Decimal
}

func (s *Pedidos) Estadisticas() EstadisticasPedidos {
	e := EstadisticasPedidos{
		PorEstado:      make(map[model.EstadoPedido]int),
		VentasTotales:  decimal.Zero,
		TicketPromedio: decimal.Zero,
	}
	entregados := 0
	for _, p := range s.col.Items() {
		e.Total++
		e.PorEstado[p.Estado]++
		if !p.Estado.EsTerminal() {
			e.Activos++
		}
		if p.Estado == model.EstadoEntregado {
			e.VentasTotales = e.VentasTotales.Add(p.Total)
			entregados++
		}
	}
	if entregados > 0 {
		e.TicketPromedio = e.VentasTotales.DivRound(decimal.NewFromInt(int64(entregados)), 2)
	}
	return e
}

// ResumenRemoto is the backend's own dashboard aggregate.
type ResumenRemoto struct {
	TotalPedidos    int             `json:"total_pedidos"`
	Pendientes      int             `json:"pendientes"`
	EnPreparacion   int             `json:"en_preparacion"`
	Listos          int             `json:"listos"`
	EntregadosHoy   int             `json:"entregados_hoy"`
	VentasHoy       decimal.Decimal `json:"ventas_hoy"`
	VentasTotales   decimal.Decimal `json:"ventas_totales"`
	PedidosDelivery int             `json:"pedidos_delivery"`
}

// EstadisticasRemotas fetches GET /pedidos/estadisticas; it does not touch
// the collection state.
func (s *Pedidos) EstadisticasRemotas(ctx context.Context) (ResumenRemoto, error) {
	body, err := s.api.Get(ctx, rutaPedidos+"/estadisticas")
	if err != nil {
		return ResumenRemoto{}, err
	}
	return envelope.DecodificarObjeto[ResumenRemoto](body)
}
