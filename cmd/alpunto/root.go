package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/config"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/session"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/store"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/transport"
)

// app is the composition root: one transport client, one session, one store
// per resource, all sharing the same backend.
type app struct {
	cfg       *config.Config
	sesion    *session.Sesion
	categoria *store.Categorias
	producto  *store.Productos
	menu      *store.MenuDias
	pedido    *store.Pedidos
	usuario   *store.Usuarios
	cliente   *store.Cliente
}

func nuevaApp(cfg *config.Config) (*app, error) {
	api := transport.New(transport.Opciones{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout(),
		Logger:  log.Logger,
	})

	var almacen session.Almacen
	if cfg.SessionRedisURL != "" {
		redisAlmacen, err := session.NuevoRedisAlmacen(cfg.SessionRedisURL)
		if err != nil {
			return nil, fmt.Errorf("almacén redis: %w", err)
		}
		almacen = redisAlmacen
	} else {
		almacen = session.NuevoArchivoAlmacen(cfg.SessionStoragePath)
	}

	sesion := session.Nueva(api, almacen, log.Logger)
	return &app{
		cfg:       cfg,
		sesion:    sesion,
		categoria: store.NuevasCategorias(api, log.Logger),
		producto:  store.NuevosProductos(api, log.Logger),
		menu:      store.NuevosMenuDias(api, log.Logger),
		pedido:    store.NuevosPedidos(api, log.Logger),
		usuario:   store.NuevosUsuarios(api, log.Logger),
		cliente:   store.NuevoCliente(api, sesion, log.Logger),
	}, nil
}

func (a *app) comandoRaiz() *cobra.Command {
	root := &cobra.Command{
		Use:           "alpunto",
		Short:         "Cliente de administración del restaurante Al Punto",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		a.comandoLogin(),
		a.comandoRegistro(),
		a.comandoLogout(),
		a.comandoQuien(),
		a.comandoCategorias(),
		a.comandoProductos(),
		a.comandoMenus(),
		a.comandoPedidos(),
		a.comandoUsuarios(),
		a.comandoPerfil(),
		a.comandoObservar(),
	)
	return root
}

func (a *app) comandoLogin() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión contra el backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.sesion.Login(cmd.Context(), session.Credenciales{Email: email, Password: password})
			if err != nil {
				return err
			}
			u := a.sesion.Usuario()
			color.Green("Sesión iniciada: %s (%s)", u.Nombre, u.Rol)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "correo del usuario")
	cmd.Flags().StringVar(&password, "password", "", "contraseña")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) comandoRegistro() *cobra.Command {
	var nombre, email, password, telefono string
	cmd := &cobra.Command{
		Use:   "registro",
		Short: "Crea una cuenta nueva",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.sesion.Registrar(cmd.Context(), session.Registro{
				Nombre: nombre, Email: email, Password: password, Telefono: telefono,
			})
			if err != nil {
				return err
			}
			if a.sesion.Autenticado() {
				color.Green("Cuenta creada, sesión iniciada")
			} else {
				color.Green("Cuenta creada, inicie sesión con `alpunto login`")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&nombre, "nombre", "", "nombre completo")
	cmd.Flags().StringVar(&email, "email", "", "correo")
	cmd.Flags().StringVar(&password, "password", "", "contraseña")
	cmd.Flags().StringVar(&telefono, "telefono", "", "teléfono (opcional)")
	_ = cmd.MarkFlagRequired("nombre")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) comandoLogout() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión actual",
		Run: func(_ *cobra.Command, _ []string) {
			a.sesion.Logout()
			color.Yellow("Sesión cerrada")
		},
	}
}

func (a *app) comandoQuien() *cobra.Command {
	return &cobra.Command{
		Use:   "quien",
		Short: "Muestra el usuario autenticado",
		RunE: func(_ *cobra.Command, _ []string) error {
			u := a.sesion.Usuario()
			if u == nil {
				return fmt.Errorf("no hay sesión activa")
			}
			estado := "vigente"
			if a.sesion.TokenExpirado() {
				estado = "expirado"
			}
			fmt.Printf("%s <%s>\nrol: %s\ntoken: %s\ndestino: %s\n",
				u.Nombre, u.Email, u.Rol, estado, a.sesion.Redireccion())
			return nil
		},
	}
}

// filtroEstado maps the --estado flag to the shared filter.
func filtroEstado(valor string) (store.EstadoFiltro, error) {
	switch valor {
	case "", "todos":
		return store.FiltroTodos, nil
	case "activos":
		return store.FiltroActivos, nil
	case "inactivos":
		return store.FiltroInactivos, nil
	default:
		return store.FiltroTodos, fmt.Errorf("estado desconocido: %q (todos|activos|inactivos)", valor)
	}
}

func tabla() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func marcaActivo(activo bool) string {
	if activo {
		return color.GreenString("sí")
	}
	return color.RedString("no")
}
