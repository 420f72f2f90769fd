package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/envelope"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/model"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/transport"
)

func usuariosDePrueba() []model.Usuario {
	return []model.Usuario{
		{ID: 1, Nombre: "Carla", Email: "carla@alpunto.test", Rol: model.RolAdministrador, Activo: envelope.FlexBool(true)},
		{ID: 2, Nombre: "beto", Email: "beto@alpunto.test", Rol: model.RolMesero, Activo: envelope.FlexBool(true)},
		{ID: 3, Nombre: "Andrés", Email: "andres@alpunto.test", Rol: model.RolMesero, Activo: envelope.FlexBool(false)},
	}
}

func TestFiltrarUsuarios(t *testing.T) {
	s := NuevosUsuarios(nil, zerolog.Nop())
	s.col.reemplazar(usuariosDePrueba())

	activos := s.Filtrar("", FiltroActivos)
	require.Len(t, activos, 2)
	// activos primero ya se cumple; dentro del grupo, alfabético sin mayúsculas
	assert.Equal(t, "beto", activos[0].Nombre)
	assert.Equal(t, "Carla", activos[1].Nombre)

	assert.Len(t, s.Filtrar("alpunto.test", FiltroTodos), 3)
	assert.Len(t, s.Filtrar("andrés", FiltroInactivos), 1)
	assert.Empty(t, s.Filtrar("carla", FiltroInactivos))
}

func TestEstadisticasUsuarios(t *testing.T) {
	s := NuevosUsuarios(nil, zerolog.Nop())
	s.col.reemplazar(usuariosDePrueba())

	e := s.Estadisticas()
	assert.Equal(t, 3, e.Total)
	assert.Equal(t, 2, e.Activos)
	assert.Equal(t, 1, e.Inactivos)
	assert.Equal(t, 2, e.PorRol[model.RolMesero])
	assert.Equal(t, 1, e.PorRol[model.RolAdministrador])
}

// La validación del payload corta antes de salir a la red.
func TestCrearUsuarioInvalidoNoLlamaAlBackend(t *testing.T) {
	r := gin.New()
	r.POST("/Usuarios", func(c *gin.Context) {
		t.Error("el backend no debería recibir un payload inválido")
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	api := transport.New(transport.Opciones{BaseURL: srv.URL, Logger: zerolog.Nop()})
	s := NuevosUsuarios(api, zerolog.Nop())

	res := s.Crear(context.Background(), CrearUsuario{
		Nombre: "Sin Correo", Email: "no-es-email", Password: "123", Rol: model.RolMesero,
	})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}
