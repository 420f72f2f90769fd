package model

import (
	"github.com/shopspring/decimal"
)

// EstadoPedido is the order lifecycle state. Transitions run strictly
// forward (pendiente → en_preparacion → listo → entregado); cancelado is
// reachable from any non-terminal state and nothing leaves a terminal state.
type EstadoPedido string

const (
	EstadoPendiente     EstadoPedido = "pendiente"
	EstadoEnPreparacion EstadoPedido = "en_preparacion"
	EstadoListo         EstadoPedido = "listo"
	EstadoEntregado     EstadoPedido = "entregado"
	EstadoCancelado     EstadoPedido = "cancelado"
)

var ordenEstados = map[EstadoPedido]int{
	EstadoPendiente:     0,
	EstadoEnPreparacion: 1,
	EstadoListo:         2,
	EstadoEntregado:     3,
}

// Valido reports whether e is one of the five known states.
func (e EstadoPedido) Valido() bool {
	if e == EstadoCancelado {
		return true
	}
	_, ok := ordenEstados[e]
	return ok
}

// EsTerminal reports whether no further transition may leave e.
func (e EstadoPedido) EsTerminal() bool {
	return e == EstadoEntregado || e == EstadoCancelado
}

// PuedeCambiarA reports whether the transition e → destino is allowed.
func (e EstadoPedido) PuedeCambiarA(destino EstadoPedido) bool {
	if e.EsTerminal() || !destino.Valido() {
		return false
	}
	if destino == EstadoCancelado {
		return true
	}
	actual, ok := ordenEstados[e]
	if !ok {
		return false
	}
	return ordenEstados[destino] == actual+1
}

// Siguiente returns the next forward state, when one exists.
func (e EstadoPedido) Siguiente() (EstadoPedido, bool) {
	switch e {
	case EstadoPendiente:
		return EstadoEnPreparacion, true
	case EstadoEnPreparacion:
		return EstadoListo, true
	case EstadoListo:
		return EstadoEntregado, true
	default:
		return "", false
	}
}

// MesaDelivery marks an order fulfilled by delivery instead of a table.
const MesaDelivery = "Delivery"

// Pedido is an order as served by the backend; Total is computed
// server-side and only reflected locally.
type Pedido struct {
	ID             int64           `json:"id" validate:"required"`
	NumeroPedido   string          `json:"numero_pedido"`
	ClienteID      int64           `json:"cliente_id,omitempty"`
	ClienteNombre  string          `json:"cliente_nombre,omitempty"`
	ClienteTelefono string         `json:"cliente_telefono,omitempty"`
	NumeroMesa     string          `json:"numero_mesa"`
	Ubicacion      string          `json:"ubicacion,omitempty"`
	Notas          string          `json:"notas,omitempty"`
	Estado         EstadoPedido    `json:"estado"`
	Total          decimal.Decimal `json:"total"`
	FechaPedido    Fecha           `json:"fecha_pedido"`
	Detalles       []DetallePedido `json:"detalles,omitempty"`
}

// EsDelivery reports whether the order ships instead of landing on a table.
func (p Pedido) EsDelivery() bool { return p.NumeroMesa == MesaDelivery }

// DetallePedido is one order line. Subtotal comes from the backend; the
// client never recomputes it.
type DetallePedido struct {
	ProductoID     int64           `json:"producto_id" validate:"required"`
	Cantidad       int             `json:"cantidad" validate:"required,gt=0"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}
