package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/model"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/transport"
)

// backendPedidos simula el ciclo de vida de pedidos del backend real.
type backendPedidos struct {
	mu        sync.Mutex
	pedidos   map[int64]gin.H
	cancelTry atomic.Int32
}

func nuevoBackendPedidos(t *testing.T, rechazarCancelacion bool) (*backendPedidos, *transport.Client) {
	t.Helper()
	b := &backendPedidos{pedidos: map[int64]gin.H{
		42: {"id": int64(42), "numero_pedido": "P-042", "cliente_nombre": "Marta",
			"numero_mesa": "5", "estado": "pendiente", "total": "38.50", "fecha_pedido": "2026-08-30"},
		43: {"id": int64(43), "numero_pedido": "P-043", "cliente_nombre": "Raúl",
			"numero_mesa": "Delivery", "estado": "entregado", "total": "20.00", "fecha_pedido": "2026-08-29"},
	}}

	r := gin.New()
	r.GET("/pedidos", func(c *gin.Context) {
		b.mu.Lock()
		lista := make([]gin.H, 0, len(b.pedidos))
		for _, p := range b.pedidos {
			lista = append(lista, p)
		}
		b.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"success": true, "data": lista})
	})
	r.PUT("/pedidos/42/cancelar", func(c *gin.Context) {
		b.cancelTry.Add(1)
		if rechazarCancelacion {
			c.JSON(http.StatusBadRequest, gin.H{"message": "el pedido ya está en cocina"})
			return
		}
		b.mu.Lock()
		b.pedidos[42]["estado"] = "cancelado"
		b.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.PUT("/pedidos/42/estado", func(c *gin.Context) {
		var req map[string]string
		require.NoError(t, c.BindJSON(&req))
		b.mu.Lock()
		b.pedidos[42]["estado"] = req["estado"]
		b.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return b, transport.New(transport.Opciones{BaseURL: srv.URL, Logger: zerolog.Nop()})
}

// Cancelación exitosa: la recarga muestra el pedido 42 cancelado.
func TestCancelarPedidoExitoso(t *testing.T) {
	_, api := nuevoBackendPedidos(t, false)
	s := NuevosPedidos(api, zerolog.Nop())
	require.NoError(t, s.Cargar(context.Background()))

	res := s.Cancelar(context.Background(), 42)
	require.True(t, res.Success, res.Error)

	p, ok := s.Pedido(42)
	require.True(t, ok)
	assert.Equal(t, model.EstadoCancelado, p.Estado)
}

// Cancelación rechazada (400): la lista local no cambia y el error es el
// mensaje del servidor, textual.
func TestCancelarPedidoRechazado(t *testing.T) {
	b, api := nuevoBackendPedidos(t, true)
	s := NuevosPedidos(api, zerolog.Nop())
	require.NoError(t, s.Cargar(context.Background()))
	antes := s.Items()

	res := s.Cancelar(context.Background(), 42)
	assert.False(t, res.Success)
	assert.Equal(t, "el pedido ya está en cocina", res.Error)
	assert.Equal(t, int32(1), b.cancelTry.Load())
	assert.ElementsMatch(t, antes, s.Items())
}

// Un pedido terminal se rechaza localmente, sin request.
func TestCancelarPedidoTerminalNoLlamaAlBackend(t *testing.T) {
	b, api := nuevoBackendPedidos(t, false)
	s := NuevosPedidos(api, zerolog.Nop())
	require.NoError(t, s.Cargar(context.Background()))

	res := s.Cancelar(context.Background(), 43) // entregado
	assert.False(t, res.Success)
	assert.Equal(t, MensajeTransicionInvalida, res.Error)
	assert.Equal(t, int32(0), b.cancelTry.Load())
}

func TestEliminarEsCancelacion(t *testing.T) {
	_, api := nuevoBackendPedidos(t, false)
	s := NuevosPedidos(api, zerolog.Nop())
	require.NoError(t, s.Cargar(context.Background()))

	res := s.Eliminar(context.Background(), 42)
	require.True(t, res.Success, res.Error)
	p, _ := s.Pedido(42)
	assert.Equal(t, model.EstadoCancelado, p.Estado)
}

func TestCambiarEstadoSoloHaciaAdelante(t *testing.T) {
	_, api := nuevoBackendPedidos(t, false)
	s := NuevosPedidos(api, zerolog.Nop())
	require.NoError(t, s.Cargar(context.Background()))

	// retroceder jamás sale a la red
	res := s.CambiarEstado(context.Background(), 43, model.EstadoPendiente)
	assert.False(t, res.Success)
	assert.Equal(t, MensajeTransicionInvalida, res.Error)

	res = s.CambiarEstado(context.Background(), 42, model.EstadoEnPreparacion)
	require.True(t, res.Success, res.Error)
	p, _ := s.Pedido(42)
	assert.Equal(t, model.EstadoEnPreparacion, p.Estado)

	// saltarse un paso tampoco
	res = s.CambiarEstado(context.Background(), 42, model.EstadoEntregado)
	assert.False(t, res.Success)
}

func TestCrearPedidoValidaAntesDeSalir(t *testing.T) {
	// sin backend: un payload inválido jamás llega a la red
	s := NuevosPedidos(transport.New(transport.Opciones{BaseURL: "http://localhost:0", Logger: zerolog.Nop()}), zerolog.Nop())

	// sin detalles
	res := s.Crear(context.Background(), CrearPedido{ClienteNombre: "Marta", NumeroMesa: "5"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Detalles")

	// cantidad cero en una línea
	res = s.Crear(context.Background(), CrearPedido{
		ClienteNombre: "Marta", NumeroMesa: "5",
		Detalles: []DetalleNuevo{{ProductoID: 1, Cantidad: 0}},
	})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Cantidad")
}

func TestCrearPedidoExitoso(t *testing.T) {
	var creados atomic.Int32
	r := gin.New()
	r.POST("/pedidos", func(c *gin.Context) {
		var req CrearPedido
		require.NoError(t, c.BindJSON(&req))
		require.Len(t, req.Detalles, 1)
		creados.Add(1)
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"id": int64(99)}})
	})
	r.GET("/pedidos", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": []gin.H{
			{"id": int64(99), "numero_pedido": "P-099", "estado": "pendiente", "total": "12.00"},
		}})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	api := transport.New(transport.Opciones{BaseURL: srv.URL, Logger: zerolog.Nop()})
	s := NuevosPedidos(api, zerolog.Nop())

	res := s.Crear(context.Background(), CrearPedido{
		ClienteNombre: "Marta", NumeroMesa: model.MesaDelivery,
		Detalles: []DetalleNuevo{{ProductoID: 1, Cantidad: 2}},
	})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, int32(1), creados.Load())

	p, ok := s.Pedido(99)
	require.True(t, ok)
	assert.Equal(t, model.EstadoPendiente, p.Estado)
}

func pedidosDePrueba() []model.Pedido {
	return []model.Pedido{
		{ID: 1, NumeroPedido: "P-001", ClienteNombre: "Marta", NumeroMesa: "5",
			Estado: model.EstadoEntregado, Total: decimal.RequireFromString("30.00")},
		{ID: 2, NumeroPedido: "P-002", ClienteNombre: "Raúl", NumeroMesa: "Delivery",
			Estado: model.EstadoPendiente, Total: decimal.RequireFromString("12.00")},
		{ID: 3, NumeroPedido: "P-003", ClienteNombre: "Ana", NumeroMesa: "2",
			Estado: model.EstadoCancelado, Total: decimal.RequireFromString("50.00")},
		{ID: 4, NumeroPedido: "P-004", ClienteNombre: "Marta", NumeroMesa: "5",
			Estado: model.EstadoEntregado, Total: decimal.RequireFromString("10.00")},
	}
}

func TestFiltrarPedidos(t *testing.T) {
	s := NuevosPedidos(nil, zerolog.Nop())
	s.col.reemplazar(pedidosDePrueba())

	assert.Len(t, s.Filtrar("marta", ""), 2)
	assert.Len(t, s.Filtrar("", model.EstadoEntregado), 2)
	assert.Len(t, s.Filtrar("delivery", model.EstadoPendiente), 1)
	assert.Empty(t, s.Filtrar("marta", model.EstadoPendiente))
}

func TestEstadisticasPedidos(t *testing.T) {
	s := NuevosPedidos(nil, zerolog.Nop())
	s.col.reemplazar(pedidosDePrueba())

	e := s.Estadisticas()
	assert.Equal(t, 4, e.Total)
	assert.Equal(t, 1, e.Activos)
	assert.Equal(t, 2, e.PorEstado[model.EstadoEntregado])
	assert.Equal(t, 1, e.PorEstado[model.EstadoCancelado])
	// las ventas solo cuentan lo entregado
	assert.True(t, e.VentasTotales.Equal(decimal.RequireFromString("40.00")), e.VentasTotales.String())
	assert.True(t, e.TicketPromedio.Equal(decimal.RequireFromString("20.00")), e.TicketPromedio.String())
}

func TestEstadisticasRemotas(t *testing.T) {
	r := gin.New()
	r.GET("/pedidos/estadisticas", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"total_pedidos": 120, "pendientes": 3, "ventas_hoy": "250.75", "ventas_totales": 9800,
		}})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	api := transport.New(transport.Opciones{BaseURL: srv.URL, Logger: zerolog.Nop()})
	s := NuevosPedidos(api, zerolog.Nop())

	resumen, err := s.EstadisticasRemotas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, resumen.TotalPedidos)
	assert.Equal(t, 3, resumen.Pendientes)
	assert.True(t, resumen.VentasHoy.Equal(decimal.RequireFromString("250.75")))
}
