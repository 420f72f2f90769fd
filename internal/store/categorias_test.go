package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/model"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/transport"
)

func init() { gin.SetMode(gin.TestMode) }

// backendCategorias es el backend falso: dueño absoluto de la verdad, como
// el real.
type backendCategorias struct {
	mu         sync.Mutex
	categorias []gin.H
	siguiente  int64
	gets       atomic.Int32
	envoltura  string // "data" | "datos" | "bare"
}

func nuevoBackendCategorias(t *testing.T) (*backendCategorias, *transport.Client) {
	t.Helper()
	b := &backendCategorias{siguiente: 1, envoltura: "data"}

	r := gin.New()
	r.GET("/categorias", func(c *gin.Context) {
		b.gets.Add(1)
		b.mu.Lock()
		lista := append([]gin.H{}, b.categorias...)
		b.mu.Unlock()
		switch b.envoltura {
		case "datos":
			c.JSON(http.StatusOK, gin.H{"datos": lista})
		case "bare":
			c.JSON(http.StatusOK, lista)
		default:
			c.JSON(http.StatusOK, gin.H{"success": true, "data": lista})
		}
	})
	r.POST("/categorias", func(c *gin.Context) {
		var req map[string]any
		require.NoError(t, c.BindJSON(&req))
		b.mu.Lock()
		req["id"] = b.siguiente
		req["total_productos"] = 0
		b.siguiente++
		b.categorias = append(b.categorias, req)
		b.mu.Unlock()
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": req})
	})
	r.DELETE("/categorias/:id", func(c *gin.Context) {
		id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, cat := range b.categorias {
			if cat["id"] == id {
				b.categorias = append(b.categorias[:i], b.categorias[i+1:]...)
				c.JSON(http.StatusOK, gin.H{"success": true})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "categoría no encontrada"})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return b, transport.New(transport.Opciones{BaseURL: srv.URL, Logger: zerolog.Nop()})
}

func TestCargarNormalizaCualquierEnvoltura(t *testing.T) {
	for _, envoltura := range []string{"data", "datos", "bare"} {
		b, api := nuevoBackendCategorias(t)
		b.envoltura = envoltura
		b.categorias = []gin.H{
			{"id": int64(1), "nombre": "Entradas", "activo": "true", "total_productos": 2},
			{"id": int64(2), "nombre": "Postres", "activo": 0, "total_productos": 0},
		}

		s := NuevasCategorias(api, zerolog.Nop())
		require.NoError(t, s.Cargar(context.Background()), envoltura)

		items := s.Items()
		require.Len(t, items, 2, envoltura)
		assert.Equal(t, "Entradas", items[0].Nombre, envoltura)
		assert.True(t, items[0].Activo.Bool(), envoltura)
		assert.False(t, items[1].Activo.Bool(), envoltura)
		assert.Empty(t, s.UltimoError(), envoltura)
		assert.False(t, s.Cargando(), envoltura)
	}
}

func TestCargarFallidoVaciaYGuardaMensaje(t *testing.T) {
	r := gin.New()
	r.GET("/categorias", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "base de datos caída"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	api := transport.New(transport.Opciones{BaseURL: srv.URL, Logger: zerolog.Nop()})
	s := NuevasCategorias(api, zerolog.Nop())

	require.Error(t, s.Cargar(context.Background()))
	assert.Empty(t, s.Items())
	assert.Equal(t, "base de datos caída", s.UltimoError())
	assert.False(t, s.Cargando())
}

// Tras una mutación exitosa hay exactamente una recarga, y el estado local
// queda igual a lo que devolvería una carga fresca.
func TestCrearResincronizaUnaVez(t *testing.T) {
	b, api := nuevoBackendCategorias(t)
	s := NuevasCategorias(api, zerolog.Nop())

	res := s.Crear(context.Background(), CrearCategoria{Nombre: "Bebidas", Activo: true})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, int32(1), b.gets.Load(), "una sola recarga por mutación")

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Bebidas", items[0].Nombre)
	assert.NotZero(t, items[0].ID, "el ID lo asigna el servidor, no el cliente")
}

func TestCrearFallidoNoTocaLaColeccion(t *testing.T) {
	r := gin.New()
	r.GET("/categorias", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{{"id": int64(1), "nombre": "Entradas", "activo": true}}})
	})
	r.POST("/categorias", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ya existe una categoría con ese nombre"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	api := transport.New(transport.Opciones{BaseURL: srv.URL, Logger: zerolog.Nop()})
	s := NuevasCategorias(api, zerolog.Nop())
	require.NoError(t, s.Cargar(context.Background()))
	antes := s.Items()

	res := s.Crear(context.Background(), CrearCategoria{Nombre: "Entradas"})
	assert.False(t, res.Success)
	assert.Equal(t, "ya existe una categoría con ese nombre", res.Error)
	assert.Equal(t, antes, s.Items())
}

// Una categoría con productos se rechaza antes de tocar la red.
func TestEliminarConProductosNoLlamaAlBackend(t *testing.T) {
	b, api := nuevoBackendCategorias(t)
	b.categorias = []gin.H{{"id": int64(1), "nombre": "Entradas", "activo": true, "total_productos": 3}}

	s := NuevasCategorias(api, zerolog.Nop())
	require.NoError(t, s.Cargar(context.Background()))
	getsAntes := b.gets.Load()

	res := s.Eliminar(context.Background(), 1)
	assert.False(t, res.Success)
	assert.Equal(t, MensajeCategoriaConProductos, res.Error)
	assert.Equal(t, getsAntes, b.gets.Load(), "sin DELETE y sin resync")

	items := s.Items()
	require.Len(t, items, 1)
}

func TestEliminarConflictoDelServidorUsaMensajeDeDominio(t *testing.T) {
	r := gin.New()
	r.GET("/categorias", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": []gin.H{}}) })
	r.DELETE("/categorias/9", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "constraint violation: fk_productos_categoria"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	api := transport.New(transport.Opciones{BaseURL: srv.URL, Logger: zerolog.Nop()})
	s := NuevasCategorias(api, zerolog.Nop())

	// id 9 no está en la copia local: el guard no aplica y el DELETE sale
	res := s.Eliminar(context.Background(), 9)
	assert.False(t, res.Success)
	assert.Equal(t, MensajeCategoriaConProductos, res.Error, "nunca el texto crudo del servidor")
}

func TestEliminarExitoso(t *testing.T) {
	b, api := nuevoBackendCategorias(t)
	b.categorias = []gin.H{{"id": int64(1), "nombre": "Entradas", "activo": true, "total_productos": 0}}

	s := NuevasCategorias(api, zerolog.Nop())
	require.NoError(t, s.Cargar(context.Background()))

	res := s.Eliminar(context.Background(), 1)
	require.True(t, res.Success, res.Error)
	assert.Empty(t, s.Items())
}

func categoriasDePrueba() []model.Categoria {
	return []model.Categoria{
		{ID: 1, Nombre: "postres", Descripcion: "dulces", Activo: true},
		{ID: 2, Nombre: "Bebidas", Activo: false},
		{ID: 3, Nombre: "Entradas", Descripcion: "para picar", Activo: true, TotalProductos: 4},
		{ID: 4, Nombre: "asados", Activo: false},
	}
}

func storeConItems(items []model.Categoria) *Categorias {
	s := NuevasCategorias(nil, zerolog.Nop())
	s.col.reemplazar(items)
	return s
}

// Filtrar es pura: dos llamadas idénticas dan lo mismo y la colección no se
// muta.
func TestFiltrarEsPuro(t *testing.T) {
	s := storeConItems(categoriasDePrueba())
	original := s.Items()

	a := s.Filtrar("a", FiltroTodos)
	b := s.Filtrar("a", FiltroTodos)
	assert.Equal(t, a, b)
	assert.Equal(t, original, s.Items())
}

func TestFiltrarBuscaEnNombreYDescripcion(t *testing.T) {
	s := storeConItems(categoriasDePrueba())

	porNombre := s.Filtrar("BEBI", FiltroTodos)
	require.Len(t, porNombre, 1)
	assert.Equal(t, "Bebidas", porNombre[0].Nombre)

	porDescripcion := s.Filtrar("picar", FiltroTodos)
	require.Len(t, porDescripcion, 1)
	assert.Equal(t, "Entradas", porDescripcion[0].Nombre)

	assert.Len(t, s.Filtrar("", FiltroTodos), 4)
	assert.Empty(t, s.Filtrar("pizza", FiltroTodos))
}

func TestFiltrarPorEstado(t *testing.T) {
	s := storeConItems(categoriasDePrueba())

	assert.Len(t, s.Filtrar("", FiltroActivos), 2)
	assert.Len(t, s.Filtrar("", FiltroInactivos), 2)
}

// Activas primero, luego alfabético sin distinguir mayúsculas.
func TestOrdenActivasPrimeroLuegoAlfabetico(t *testing.T) {
	s := storeConItems(categoriasDePrueba())

	nombres := make([]string, 0, 4)
	for _, c := range s.Filtrar("", FiltroTodos) {
		nombres = append(nombres, c.Nombre)
	}
	assert.Equal(t, []string{"Entradas", "postres", "asados", "Bebidas"}, nombres)
}

func TestEstadisticasSobreColeccionCompleta(t *testing.T) {
	s := storeConItems(categoriasDePrueba())

	e := s.Estadisticas()
	assert.Equal(t, 4, e.Total)
	assert.Equal(t, 2, e.Activas)
	assert.Equal(t, 2, e.Inactivas)
	assert.Equal(t, 1, e.ConProductos)
	assert.Equal(t, 4, e.TotalProductos)
}

// Mutaciones concurrentes se serializan: el backend nunca ve dos POST
// solapados.
func TestMutacionesSerializadas(t *testing.T) {
	var dentro, maximo atomic.Int32
	r := gin.New()
	r.GET("/categorias", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": []gin.H{}}) })
	r.POST("/categorias", func(c *gin.Context) {
		n := dentro.Add(1)
		for {
			m := maximo.Load()
			if n <= m || maximo.CompareAndSwap(m, n) {
				break
			}
		}
		defer dentro.Add(-1)
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	api := transport.New(transport.Opciones{BaseURL: srv.URL, Logger: zerolog.Nop()})
	s := NuevasCategorias(api, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := s.Crear(context.Background(), CrearCategoria{Nombre: "c" + strconv.Itoa(i)})
			assert.True(t, res.Success, res.Error)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), maximo.Load(), "doble click no debe producir POSTs solapados")
}
